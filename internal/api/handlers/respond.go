package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/markdave123-py/resumeapp/internal/core"
	"github.com/markdave123-py/resumeapp/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends the error message as a JSON string. Not-found maps to 404;
// everything else, validation failures included, is a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, core.ErrNotFound) {
		status = http.StatusNotFound
	}

	ev := logger.Ctx(r.Context()).Warn()
	if status == http.StatusInternalServerError {
		ev = logger.Ctx(r.Context()).Error()
	}
	ev.Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")

	writeJSON(w, status, err.Error())
}
