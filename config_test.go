package main

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestParseConfig(t *testing.T) {
	c, err := parseConfig(`
server:
  host: 127.0.0.1
  port: "8080"
environment: dev
log:
  level: debug
cache:
  type: redis
  ttl: 60
redis:
  addr: localhost:6379
api:
  keys:
    - "$2a$10$abc"
`)
	if err != nil {
		t.Fatalf("Can't parse configuration: %s", err.Error())
	}

	if c.Server.Host != "127.0.0.1" || c.Server.Port != "8080" {
		t.Errorf("Invalid server settings: %+v", c.Server)
	}
	if c.Log.Level != zerolog.DebugLevel {
		t.Errorf("Invalid log level: %v", c.Log.Level)
	}
	if c.Cache.Type != "redis" || c.Cache.TTL != 60 {
		t.Errorf("Invalid cache settings: %+v", c.Cache)
	}
	if len(c.API.Keys) != 1 {
		t.Errorf("Invalid API keys: %v", c.API.Keys)
	}

	// Defaults
	if c.Redis.Prefix != "sqlmongo:" || c.Redis.Timeout != 10 || c.API.BatchLimit != 100 {
		t.Errorf("Defaults are not set: %+v, %+v", c.Redis, c.API)
	}
}

func TestParseConfigDefaultLevel(t *testing.T) {
	c, err := parseConfig("server:\n  port: \"80\"\n")
	if err != nil {
		t.Fatalf("Can't parse configuration: %s", err.Error())
	}

	if c.Log.Level != zerolog.InfoLevel {
		t.Errorf("Invalid default log level: %v", c.Log.Level)
	}
	if c.Cache.Type != "" {
		t.Errorf("Cache must be disabled by default: %s", c.Cache.Type)
	}
}

/*
 * Invalid configurations must be rejected
 */
func TestParseConfigErrors(t *testing.T) {
	tables := []string{
		"environment: dev\n",
		"server:\n  port: \"80\"\nenvironment: prod\n",
		"server:\n  port: \"80\"\ncache:\n  type: memcached\n",
		"server:\n  port: \"80\"\ncache:\n  type: mongodb\n",
		"server:\n  port: \"80\"\ncache:\n  type: redis\n",
		"server: [\n",
	}

	for _, table := range tables {
		_, err := parseConfig(table)
		if err == nil {
			t.Errorf("Configuration must be rejected: '%s'", table)
		}
	}
}
