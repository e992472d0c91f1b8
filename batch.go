package main

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

/*
 * Serves '/batch' to translate several SQL queries at once.
 *
 * Queries are given as repeated "sql" form values
 * and/or newline separated "sqls" value.
 * Results keep the order of the queries
 */
func batchHandler(w http.ResponseWriter, r *http.Request) {
	logger, id := requestLogger(r)
	w.Header().Set("X-Request-ID", id)

	format := r.FormValue("format")

	response := &APIresponse{
		Results: []*Translation{},
	}

	if !authorized(r) {
		response.Error = "Can't authenticate user by the given API key"
		response.send(w, http.StatusUnauthorized, logger, format)

		logger.Error().Msg("Can't authenticate user by the given API key")
		return
	}

	if r.Method != http.MethodPost {
		response.Error = "Only POST method is allowed"
		response.send(w, http.StatusMethodNotAllowed, logger, format)
		return
	}

	sqls := batchQueries(r)

	if len(sqls) == 0 {
		response.Error = "Queries can't be empty"
		response.send(w, http.StatusBadRequest, logger, format)

		logger.Error().Msg("Queries can't be empty")
		return
	}

	if len(sqls) > config.API.BatchLimit {
		response.Error = fmt.Sprintf("Too many queries: %d, max allowed: %d", len(sqls), config.API.BatchLimit)
		response.send(w, http.StatusRequestEntityTooLarge, logger, format)

		logger.Error().Msg(response.Error)
		return
	}

	response.Results = make([]*Translation, len(sqls))

	// Group of concurrent translations,
	// every goroutine writes its own slot only
	group := &errgroup.Group{}
	group.SetLimit(runtime.NumCPU())

	for i, sql := range sqls {
		i, sql := i, sql
		group.Go(func() error {
			response.Results[i] = process(sql, logger)
			return nil
		})
	}

	// Translation failures are results, not errors
	_ = group.Wait()

	logger.Debug().
		Int("queries", len(sqls)).
		Msg("Batch translated")

	response.send(w, http.StatusOK, logger, format)
}

/*
 * Collect non-empty queries of the batch request
 */
func batchQueries(r *http.Request) []string {
	err := r.ParseForm()
	if err != nil {
		return nil
	}

	sqls := []string{}

	for _, sql := range r.Form["sql"] {
		if strings.TrimSpace(sql) != "" {
			sqls = append(sqls, sql)
		}
	}

	for _, line := range strings.Split(r.Form.Get("sqls"), "\n") {
		if strings.TrimSpace(line) != "" {
			sqls = append(sqls, line)
		}
	}

	return sqls
}
