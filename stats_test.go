package main

import (
	"testing"
)

func TestStats(t *testing.T) {
	s := NewStats("table", "status")

	s.record(&Translation{Table: "users"})
	s.record(&Translation{Table: "users"})
	s.record(&Translation{Table: "orders"})
	s.record(&Translation{Error: "Invalid query"})

	// Unknown fields and empty values are ignored
	s.Update("unknown", "x")
	s.Update("table", "")
	s.Update("table", nil)

	top, err := s.ToJSON()
	if err != nil {
		t.Fatalf("Can't collect statistics: %s", err.Error())
	}

	tables := top["table"].(map[string]int)
	if tables["users"] != 2 || tables["orders"] != 1 || len(tables) != 2 {
		t.Errorf("Invalid tables statistics: %v", tables)
	}

	status := top["status"].(map[string]int)
	if status["ok"] != 3 || status["error"] != 1 {
		t.Errorf("Invalid status statistics: %v", status)
	}
}

/*
 * Only the Top 10 values of every field are returned
 */
func TestStatsTop(t *testing.T) {
	s := NewStats("table")

	for i := 0; i < 15; i++ {
		for j := 0; j <= i; j++ {
			s.Update("table", i)
		}
	}

	top, err := s.ToJSON()
	if err != nil {
		t.Fatalf("Can't collect statistics: %s", err.Error())
	}

	tables := top["table"].(map[string]int)
	if len(tables) != 10 {
		t.Errorf("Expected 10 entries, got: %d", len(tables))
	}

	if tables["14"] != 15 {
		t.Errorf("The most used value is missing: %v", tables)
	}
	if _, ok := tables["0"]; ok {
		t.Errorf("The least used value must not be returned: %v", tables)
	}
}
