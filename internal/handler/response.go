package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/oldcrow/westeros/pkg/westeros"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeRuleViolation reports a rules-engine rejection as a 422, naming
// the violated operation so clients can surface it next to the board.
func writeRuleViolation(w http.ResponseWriter, ruleErr *westeros.RuleError) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
		"error": ruleErr.Error(),
		"op":    ruleErr.Op,
	})
}

// decodeJSON reads and decodes JSON from a request body.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
