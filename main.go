package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	// Holder all service's configuration
	config *Config

	// Instance of the global logger
	log zerolog.Logger

	// Current service's version
	version string
)

func main() {
	/*
	 * Parse configuration file
	 */
	err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can't load configuration: %s", err.Error())
		os.Exit(1)
	}

	/*
	 * Setup a global logger to the file or stdout
	 */
	setupLogger()

	/*
	 * Setup a translations cache
	 */
	stop, err := setupCache()
	if err != nil {
		log.Fatal().Msg("Can't setup a cache: " + err.Error())
	}

	/*
	 * Disconnect from the cache storage on service exit
	 */
	defer func() {
		if stop == nil {
			return
		}

		err := stop()
		if err != nil {
			log.Error().Msg("Can't stop the cache: " + err.Error())
		} else {
			log.Debug().Msg("Cache stopped")
		}
	}()

	// Load service's version
	err = loadVersion()
	if err != nil {
		log.Warn().Msg("Can't load version: " + err.Error())
		version = "dev"
	}

	/*
	 * Start the API features
	 */
	mux := http.NewServeMux()
	mux.HandleFunc("/api", apiHandler)
	mux.HandleFunc("/batch", batchHandler)
	mux.HandleFunc("/stats", statsHandler)
	mux.HandleFunc("/ws", wsHandler)

	server := &http.Server{
		Addr:              config.Server.Host + ":" + config.Server.Port,
		Handler:           mux,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
	}

	log.Info().Msgf("sqlmongo v%s. Starting the service listening on %s", version, server.Addr)

	if config.Server.CertFile != "" && config.Server.KeyFile != "" {
		err = server.ListenAndServeTLS(config.Server.CertFile, config.Server.KeyFile)
	} else {
		err = server.ListenAndServe()
	}

	if err != nil {
		log.Error().Msg("Can't start the HTTP server: " + err.Error())
	}
}

/*
 * Connect to the configured translations cache.
 * Returns a function to disconnect, nil when caching is disabled
 */
func setupCache() (func() error, error) {
	switch config.Cache.Type {
	case "mongodb":
		d, err := setupDatabase()
		if err != nil {
			return nil, err
		}

		cache = d
		return d.stop, nil

	case "redis":
		r, err := setupRedis()
		if err != nil {
			return nil, err
		}

		cache = r
		return r.stop, nil
	}

	log.Debug().Msg("Translations cache is disabled")
	return nil, nil
}
