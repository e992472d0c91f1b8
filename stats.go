package main

import (
	"fmt"
	"sync"

	"github.com/umpc/go-sortedmap"
	"github.com/umpc/go-sortedmap/desc"
)

var (
	// Service's usage statistics since the start
	stats = NewStats("table", "status")
)

/*
 * Structure to contain usage statistics:
 * the most requested collections and translation outcomes
 */
type Stats struct {
	Fields map[string]*sortedmap.SortedMap
	mx     sync.Mutex
}

func NewStats(fields ...string) *Stats {
	s := &Stats{
		Fields: make(map[string]*sortedmap.SortedMap),
	}

	for _, field := range fields {
		s.Fields[field] = sortedmap.New(10, desc.Int)
	}

	return s
}

/*
 * Count a single translation result
 */
func (s *Stats) record(t *Translation) {
	if t.Error != "" {
		s.Update("status", "error")
	} else {
		s.Update("status", "ok")
	}

	s.Update("table", t.Table)
}

/*
 * Increase the counter of the given field's value by 1.
 *
 * Receives:
 *     key   - statistics field to update
 *     value - field's value, empty ones are skipped
 */
func (s *Stats) Update(key string, value interface{}) {
	if value == nil || fmt.Sprint(value) == "" {
		return
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	field, ok := s.Fields[key]
	if !ok {
		return
	}

	if val, ok := field.Get(value); ok {
		field.Replace(value, val.(int)+1)
	} else {
		field.Insert(value, 1)
	}
}

/*
 * Convert sorted-map objects to the native maps,
 * converted to the JSON later.
 * Only the Top 10 entries of every field are returned
 */
func (s *Stats) ToJSON() (map[string]interface{}, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	json := make(map[string]interface{})

	for k, v := range s.Fields {
		if len(v.Keys()) == 0 {
			continue
		}

		iterCh, err := v.IterCh()
		if err != nil {
			return nil, err
		}

		i := 1
		group := make(map[string]int)

		for rec := range iterCh.Records() {
			group[fmt.Sprint(rec.Key)] = rec.Val.(int)

			// We want Top 10 here and started from i == 1
			if i > 9 {
				break
			}

			i++
		}

		iterCh.Close()
		json[k] = group
	}

	return json, nil
}
