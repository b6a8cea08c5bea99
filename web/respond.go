package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/kolypto/apiens/apierrors"
)

var errMissingInjector = errors.New("web: no injector on the request context")

// RespondError renders an error as a JSON error object with its HTTP
// status. Non-application errors are converted into a generic server
// failure first, so nothing internal leaks to the client.
func RespondError(w http.ResponseWriter, err error) {
	RespondErrorDebug(w, err, false)
}

// RespondErrorDebug is RespondError with optional server-only debug data in
// the response. Enable only in development.
func RespondErrorDebug(w http.ResponseWriter, err error, includeDebug bool) {
	appErr := apierrors.Convert(err)
	respondJSON(w, appErr.HTTPCode, apierrors.ErrorResponse{
		Error: appErr.ToObject(includeDebug),
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// The status line is already out; all we can do is report it.
		log.Error().Err(err).Msg("error response encoding failed")
	}
}
