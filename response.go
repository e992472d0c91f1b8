package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/yukithm/json2csv"
)

/*
 * Structure that API returns as a translation result
 */
type APIresponse struct {
	// Translations in the order of the requested queries
	Results []*Translation `json:"results"`

	// Request level error, like failed authentication
	Error string `json:"error,omitempty"`
}

/*
 * Send translation results to the API user.
 * Receives HTTP status code, a request scoped logger and requested output format.
 * Headers are set before the status is written
 */
func (a *APIresponse) send(w http.ResponseWriter, status int, logger zerolog.Logger, format string) {
	output := a.format(format, logger)

	if format == "table" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}

	w.WriteHeader(status)

	_, err := fmt.Fprint(w, output)
	if err != nil {
		logger.Error().Msg("Can't send an API response: " + err.Error())
	}
}

/*
 * Format translation output data.
 * Receives a requested format, JSON will be used by default
 */
func (a *APIresponse) format(f string, logger zerolog.Logger) string {

	// Validate the format value
	if f != "" && f != "json" && f != "table" {
		logger.Error().Msg("Unexpected API response format requested: '" + f + "', JSON used instead")
		a.Error = strings.TrimSpace("Unexpected API response format: '" + f + "', JSON used instead. " + a.Error)
		f = "json"
	}

	if f == "table" {
		output := ""

		if a.Error != "" {
			output += "Error: " + a.Error + "\n"

			if len(a.Results) != 0 {
				output += "\n"
			}
		}

		if len(a.Results) != 0 {
			table, err := formatTo(a.rows(), "table")
			if err != nil {
				output += "Error: " + err.Error()
			} else {
				output += table
			}
		}

		return output
	}

	// Return JSON by default
	output, err := formatTo(a, "json")
	if err != nil {
		return `{"error":"` + err.Error() + `"}`
	}

	return output
}

/*
 * Results as a list of plain maps,
 * which can be flattened into the CSV columns
 */
func (a *APIresponse) rows() []interface{} {
	rows := make([]interface{}, 0, len(a.Results))

	for _, t := range a.Results {
		rows = append(rows, map[string]interface{}{
			"sql":   t.SQL,
			"query": t.Query,
			"error": t.Error,
			"hint":  t.Hint,
		})
	}

	return rows
}

/*
 * Format the given single object
 */
func formatTo(data interface{}, format string) (string, error) {
	if format == "table" {
		// JSON to CSV
		// to get all the existing headers
		csvSTR, err := json2csv.JSON2CSV(data)
		if err != nil {
			return "", fmt.Errorf("Can't convert API response to CSV: %s", err.Error())
		}

		buf := bytes.NewBufferString("")
		wr := json2csv.NewCSVWriter(buf)
		wr.HeaderStyle = json2csv.DotNotationStyle

		err = wr.WriteCSV(csvSTR)
		if err != nil {
			return "", fmt.Errorf("Can't format API response to CSV: %s", err.Error())
		}

		// Read csv values using csv.Reader.
		// Strings splitting by \n and "," is not enough as some fields
		// may contain them
		csvReader := csv.NewReader(strings.NewReader(buf.String()))
		rows, err := csvReader.ReadAll()
		if err != nil {
			return "", fmt.Errorf("Can't parse CSV: %s", err.Error())
		}

		// Clear CSV data from buffer to render a table
		buf.Reset()
		table := tablewriter.NewWriter(buf)
		table.SetAutoWrapText(false)
		table.SetHeader(rows[0])

		for i := 1; i < len(rows); i++ {
			table.Append(rows[i])
		}

		table.Render()

		return buf.String(), nil
	}

	// Return JSON by default
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("Can't format API response to JSON: %s", err.Error())
	}

	return string(b), nil
}
