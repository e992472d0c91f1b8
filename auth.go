package main

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

/*
 * Check the API key of the request.
 *
 * Key is taken from the "key" form value or "X-API-Key" header
 * and compared to the configured bcrypt hashes.
 * Any request is allowed when no keys are configured
 */
func authorized(r *http.Request) bool {
	if len(config.API.Keys) == 0 {
		return true
	}

	key := r.FormValue("key")
	if key == "" {
		key = r.Header.Get("X-API-Key")
	}
	if key == "" {
		return false
	}

	for _, hash := range config.API.Keys {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil {
			return true
		}
	}

	return false
}
