package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/bizmanage/internal/auth"
	"github.com/rogerio-castellano/bizmanage/internal/repo"
)

// GetClaims returns the claims of the bearer token on r.
func GetClaims(r *http.Request) (auth.Claims, error) {
	return auth.TokenClaims(r.Header.Get("Authorization"))
}

// callerID is the id of the authenticated user, or nil when the request carries no valid token.
func callerID(r *http.Request) *int {
	claims, err := GetClaims(r)
	if err != nil || claims.UserID == 0 {
		return nil
	}
	id := claims.UserID
	return &id
}

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// respond writes data and logs encoding failures; the status line is already sent by then.
func respond(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
	}
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// queryInt reads an optional integer query parameter. ok is false when the value is present but not a number.
func queryInt(r *http.Request, name string) (v *int, ok bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// writeStoreError maps repository errors onto status codes for entity.
func writeStoreError(w http.ResponseWriter, err error, entity string) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		http.Error(w, entity+" not found", http.StatusNotFound)
	case errors.Is(err, repo.ErrDuplicatedValueUnique):
		http.Error(w, entity+" already exists", http.StatusConflict)
	default:
		logger.Error().Err(err).Str("entity", entity).Msg("store operation failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
