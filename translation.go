package main

import (
	"strings"
	"time"

	"github.com/cert-lv/sqlmongo/translator"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	// Storage of the already translated queries,
	// nil when caching is disabled
	cache translationCache
)

/*
 * Single query translation result returned to the clients
 * and stored in the cache
 */
type Translation struct {
	// User's original query
	SQL string `json:"sql" bson:"sql"`

	// Requested collection
	Table string `json:"table,omitempty" bson:"table,omitempty"`

	// MongoDB shell query
	Query string `json:"query,omitempty" bson:"query,omitempty"`

	// Driver's filter as an extended JSON
	Filter string `json:"filter,omitempty" bson:"filter,omitempty"`

	// Driver's find options
	Projection string `json:"projection,omitempty" bson:"projection,omitempty"`
	Skip       *int64 `json:"skip,omitempty" bson:"skip,omitempty"`
	Limit      *int64 `json:"limit,omitempty" bson:"limit,omitempty"`

	// Translation failure reason, shown to the user as is
	Error string `json:"error,omitempty" bson:"error,omitempty"`

	// Explanation of why a valid SQL can't be translated
	Hint string `json:"hint,omitempty" bson:"hint,omitempty"`

	// Record creation timestamp for the TTL
	Ts time.Time `json:"-" bson:"ts"`
}

/*
 * Translated queries storage.
 * A missing entry is returned as nil without an error
 */
type translationCache interface {
	getCache(sql string) (*Translation, error)
	setCache(sql string, t *Translation)
}

/*
 * Translate SQL query without touching the cache
 */
func translate(sql string) *Translation {
	t := &Translation{
		SQL: sql,
		Ts:  time.Now(),
	}

	query, err := translator.Parse(sql)
	if err != nil {
		t.Error = err.Error()
		t.Hint = unsupportedHint(sql)
		return t
	}

	t.Table = query.Table
	t.Query = query.String()

	// Shell text is still valid, even if the driver can't take the values
	t.Filter, err = query.ExtJSON()
	if err != nil {
		t.Error = "Can't build MongoDB driver filter: " + err.Error()
		return t
	}

	opts, err := query.FindOptions()
	if err != nil {
		t.Error = "Can't build MongoDB driver options: " + err.Error()
		return t
	}

	t.Skip = opts.Skip
	t.Limit = opts.Limit

	if opts.Projection != nil {
		b, err := bson.MarshalExtJSON(opts.Projection, false, false)
		if err != nil {
			t.Error = "Can't build MongoDB driver projection: " + err.Error()
			return t
		}

		t.Projection = string(b)
	}

	return t
}

/*
 * Translate the query using the cache when available,
 * update statistics and log the result
 */
func process(sql string, logger zerolog.Logger) *Translation {
	if cache != nil {
		cached, err := cache.getCache(sql)
		if err != nil {
			logger.Error().
				Str("sql", sql).
				Msg("Can't query cache: " + err.Error())

		} else if cached != nil {
			logger.Info().
				Str("sql", sql).
				Msg("Translation from cache")

			stats.record(cached)

			// Entry may be stored by a request with different whitespace
			hit := *cached
			hit.SQL = sql
			return &hit
		}
	}

	t := translate(sql)
	stats.record(t)

	if t.Error != "" {
		logger.Info().
			Str("sql", sql).
			Str("hint", t.Hint).
			Msg("Translation error: " + t.Error)
	} else {
		logger.Info().
			Str("sql", sql).
			Str("query", t.Query).
			Msg("New translation")
	}

	if cache != nil {
		cache.setCache(sql, t)
	}

	return t
}

/*
 * Leading and trailing whitespace doesn't change the translation,
 * so it's not a part of the cache key
 */
func cacheKey(sql string) string {
	return strings.TrimSpace(sql)
}
