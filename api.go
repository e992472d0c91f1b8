package main

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

/*
 * Logger with the request's client IP and a unique request ID,
 * so all the events of one request can be found together
 */
func requestLogger(r *http.Request) (zerolog.Logger, string) {
	// Get requestor IP
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		log.Error().Msg("User IP: " + r.RemoteAddr + " is not IP:port")
		ip = r.RemoteAddr
	}

	id := uuid.New().String()

	return log.With().
		Str("ip", ip).
		Str("request", id).
		Logger(), id
}

/*
 * Serves '/api' to translate a single SQL query.
 *
 * User inputs:
 *   - "sql"    - SQL query to translate
 *   - "format" - output format: json (default) or table
 *   - "key"    - API key, if authentication is enabled
 */
func apiHandler(w http.ResponseWriter, r *http.Request) {
	logger, id := requestLogger(r)
	w.Header().Set("X-Request-ID", id)

	format := r.FormValue("format")
	sql := r.FormValue("sql")

	// Response to send back
	response := &APIresponse{
		Results: []*Translation{},
	}

	// Authenticate user
	if !authorized(r) {
		response.Error = "Can't authenticate user by the given API key"
		response.send(w, http.StatusUnauthorized, logger, format)

		logger.Error().Msg("Can't authenticate user by the given API key")
		return
	}

	// Validate SQL query
	if sql == "" {
		response.Error = "Query can't be empty"
		response.send(w, http.StatusBadRequest, logger, format)

		logger.Error().Msg("Query can't be empty")
		return
	}

	response.Results = append(response.Results, process(sql, logger))
	response.send(w, http.StatusOK, logger, format)
}

/*
 * Serves '/stats' to return the usage statistics
 */
func statsHandler(w http.ResponseWriter, r *http.Request) {
	logger, _ := requestLogger(r)

	if !authorized(r) {
		http.Error(w, "Can't authenticate user by the given API key", http.StatusUnauthorized)
		return
	}

	top, err := stats.ToJSON()
	if err != nil {
		logger.Error().Msg("Can't collect statistics: " + err.Error())
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	err = json.NewEncoder(w).Encode(top)
	if err != nil {
		logger.Error().Msg("Can't send statistics: " + err.Error())
	}
}
