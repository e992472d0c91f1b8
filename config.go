package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	yaml "gopkg.in/yaml.v3"
)

/*
 * Structure to store all the service settings.
 * Check "sqlmongo.yaml.example" file for a detailed all fields description
 */
type Config struct {
	Server struct {
		Host              string `yaml:"host"`
		Port              string `yaml:"port"`
		CertFile          string `yaml:"certFile"`
		KeyFile           string `yaml:"keyFile"`
		ReadTimeout       int    `yaml:"readTimeout"`
		ReadHeaderTimeout int    `yaml:"readHeaderTimeout"`
	} `yaml:"server"`

	Environment string `yaml:"environment"`

	Log struct {
		File       string        `yaml:"file"`
		MaxSize    int           `yaml:"maxSize"`
		MaxBackups int           `yaml:"maxBackups"`
		MaxAge     int           `yaml:"maxAge"`
		Level      zerolog.Level `yaml:"level"`
	} `yaml:"log"`

	// Where to keep already translated queries: "mongodb", "redis" or nothing
	Cache struct {
		Type string `yaml:"type"`
		TTL  int32  `yaml:"ttl"`
	} `yaml:"cache"`

	Database struct {
		URL        string `yaml:"url"`
		Name       string `yaml:"name"`
		User       string `yaml:"user"`
		Password   string `yaml:"password"`
		Collection string `yaml:"collection"`
		Timeout    int    `yaml:"timeout"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
		Timeout  int    `yaml:"timeout"`
	} `yaml:"redis"`

	API struct {
		// Bcrypt hashes of the accepted API keys,
		// authentication is disabled when empty
		Keys []string `yaml:"keys"`

		// Max amount of queries in a single batch request
		BatchLimit int `yaml:"batchLimit"`
	} `yaml:"api"`
}

/*
 * Load configuration from a YAML file.
 *
 * Service searches for the "./sqlmongo.yaml" file by default.
 * however, "CONFIG" environment variable can be set to use a different file
 */
func loadConfig() error {
	path := "sqlmongo.yaml"

	if os.Getenv("CONFIG") != "" {
		path = os.Getenv("CONFIG")
	}

	buffer, err := loadFileIntoString(path)
	if err != nil {
		return fmt.Errorf("Failed to open configuration file '%s': %s", path, err.Error())
	}

	config, err = parseConfig(buffer)
	if err != nil {
		return fmt.Errorf("Invalid configuration YAML file '%s': %s", path, err.Error())
	}

	return nil
}

/*
 * Unmarshal and validate configuration content,
 * missing optional values get their defaults
 */
func parseConfig(buffer string) (*Config, error) {
	c := &Config{}

	// Log everything starting from info by default
	c.Log.Level = zerolog.InfoLevel

	err := yaml.Unmarshal([]byte(buffer), c)
	if err != nil {
		return nil, err
	}

	if c.Server.Port == "" {
		return nil, fmt.Errorf("'server.port' is not defined")
	}

	if c.Environment == "prod" && c.Log.File == "" {
		return nil, fmt.Errorf("'log.file' is required in a production environment")
	}

	switch c.Cache.Type {
	case "":
	case "mongodb":
		if c.Database.URL == "" {
			return nil, fmt.Errorf("'database.url' is not defined")
		} else if c.Database.Name == "" {
			return nil, fmt.Errorf("'database.name' is not defined")
		}

		if c.Database.Collection == "" {
			c.Database.Collection = "cache"
		}
	case "redis":
		if c.Redis.Addr == "" {
			return nil, fmt.Errorf("'redis.addr' is not defined")
		}

		if c.Redis.Prefix == "" {
			c.Redis.Prefix = "sqlmongo:"
		}
	default:
		return nil, fmt.Errorf("Unknown cache type: '%s'", c.Cache.Type)
	}

	if c.Database.Timeout <= 0 {
		c.Database.Timeout = 10
	}
	if c.Redis.Timeout <= 0 {
		c.Redis.Timeout = 10
	}
	if c.API.BatchLimit <= 0 {
		c.API.BatchLimit = 100
	}

	return c, nil
}
