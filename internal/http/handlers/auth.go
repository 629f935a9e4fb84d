package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const triggerKeyHeader = "X-Trigger-Key"

// presentedKey returns the shared secret offered by the caller, if any.
// Authorization: Bearer wins over X-Trigger-Key, which wins over ?key=.
func presentedKey(r *http.Request) (string, bool) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
			return token, true
		}
	}
	if key := r.Header.Get(triggerKeyHeader); key != "" {
		return key, true
	}
	if key := r.URL.Query().Get("key"); key != "" {
		return key, true
	}
	return "", false
}

// keyMatches compares in constant time. An empty secret never matches.
func keyMatches(secret, presented string) bool {
	if secret == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(presented)) == 1
}

func authorized(r *http.Request, secret string) bool {
	key, ok := presentedKey(r)
	return ok && keyMatches(secret, key)
}
