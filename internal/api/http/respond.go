package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/quizdeck/quizdeck/internal/apierr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders the {"error":{"code","message"}} envelope. Untagged and
// INTERNAL_ERROR causes are logged server-side and never echoed to clients.
func writeError(w http.ResponseWriter, err error) {
	code := apierr.CodeOf(err)
	if code == apierr.CodeInternal {
		log.Printf("internal error: %v", err)
	}
	writeJSON(w, apierr.HTTPStatus(code), map[string]any{
		"error": map[string]string{
			"code":    string(code),
			"message": apierr.MessageOf(err),
		},
	})
}
