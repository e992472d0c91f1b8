package main

import (
	"strings"
	"sync"
	"testing"
)

/*
 * In-memory translations storage
 */
type memoryCache struct {
	entries map[string]*Translation
	gets    int
	mx      sync.Mutex
}

func (m *memoryCache) getCache(sql string) (*Translation, error) {
	m.mx.Lock()
	defer m.mx.Unlock()

	m.gets++
	return m.entries[cacheKey(sql)], nil
}

func (m *memoryCache) setCache(sql string, t *Translation) {
	m.mx.Lock()
	defer m.mx.Unlock()

	m.entries[cacheKey(sql)] = t
}

func TestTranslate(t *testing.T) {
	tables := []struct {
		sql    string
		table  string
		query  string
		filter string
		err    string
	}{
		{"SELECT * FROM users", "users", "db.users.find()", "{}", ""},
		{"SELECT * FROM users WHERE age > 22", "users", "db.users.find({age: {$gt: 22}})", `{"age":{"$gt":22}}`, ""},
		{"SELECT * FROM users junk", "", "", "", "Invalid query"},
		{"SELECT * FROM", "", "", "", "failed to parse"},
	}

	for _, table := range tables {
		tr := translate(table.sql)

		if tr.SQL != table.sql || tr.Table != table.table || tr.Query != table.query ||
			tr.Filter != table.filter || tr.Error != table.err {
			t.Errorf("Invalid translation of '%s': %+v", table.sql, tr)
		}

		if tr.Ts.IsZero() {
			t.Errorf("Timestamp is not set for '%s'", table.sql)
		}
	}
}

/*
 * Shell query is still returned when the driver can't take a value
 */
func TestTranslateOutOfRange(t *testing.T) {
	tr := translate("SELECT * FROM t WHERE a = 99999999999999999999")

	if tr.Query != "db.t.find({a: 99999999999999999999})" {
		t.Errorf("Invalid query: '%s'", tr.Query)
	}

	if !strings.HasPrefix(tr.Error, "Can't build MongoDB driver filter: Integer out of range") {
		t.Errorf("Invalid error: '%s'", tr.Error)
	}
}

/*
 * Skip, limit and projection are passed to the driver as options
 */
func TestTranslateOptions(t *testing.T) {
	tr := translate("SELECT name, 'a.b' FROM users WHERE age > 22 OFFSET 5 LIMIT 10")

	if tr.Error != "" {
		t.Fatalf("Unexpected error: '%s'", tr.Error)
	}

	if tr.Projection != `{"name":1,"a.b":1}` {
		t.Errorf("Invalid projection: '%s'", tr.Projection)
	}
	if tr.Skip == nil || *tr.Skip != 5 {
		t.Errorf("Invalid skip: %v", tr.Skip)
	}
	if tr.Limit == nil || *tr.Limit != 10 {
		t.Errorf("Invalid limit: %v", tr.Limit)
	}

	tr = translate("SELECT * FROM users")
	if tr.Projection != "" || tr.Skip != nil || tr.Limit != nil {
		t.Errorf("Options must not be set: %+v", tr)
	}
}

func TestTranslateOptionsOutOfRange(t *testing.T) {
	tables := []struct {
		sql   string
		query string
	}{
		{"SELECT * FROM t LIMIT 99999999999999999999", "db.t.find().limit(99999999999999999999)"},
		{"SELECT * FROM t OFFSET 99999999999999999999", "db.t.find().skip(99999999999999999999)"},
	}

	for _, table := range tables {
		tr := translate(table.sql)

		if tr.Query != table.query {
			t.Errorf("Invalid query of '%s': '%s'", table.sql, tr.Query)
		}

		if !strings.HasPrefix(tr.Error, "Can't build MongoDB driver options: Integer out of range") {
			t.Errorf("Invalid error of '%s': '%s'", table.sql, tr.Error)
		}
	}
}

func TestProcessCache(t *testing.T) {
	m := &memoryCache{
		entries: map[string]*Translation{},
	}

	cache = m
	defer func() {
		cache = nil
	}()

	first := process("SELECT * FROM t", log)
	if first.Query != "db.t.find()" {
		t.Fatalf("Invalid translation: '%s'", first.Query)
	}

	// Surrounding whitespace hits the same entry,
	// but the caller gets its own query text back
	second := process("  SELECT * FROM t\n", log)
	if second.Query != first.Query || second.Ts != first.Ts {
		t.Errorf("Translation is not taken from cache: %+v", second)
	}
	if second.SQL != "  SELECT * FROM t\n" || first.SQL != "SELECT * FROM t" {
		t.Errorf("Invalid query text: '%s', '%s'", first.SQL, second.SQL)
	}

	if m.gets != 2 || len(m.entries) != 1 {
		t.Errorf("Invalid cache usage: %d gets, %d entries", m.gets, len(m.entries))
	}
}

func TestCacheKey(t *testing.T) {
	if cacheKey("\t SELECT * FROM t \n") != "SELECT * FROM t" {
		t.Errorf("Cache key must be trimmed")
	}
}
