package handler

import (
	"encoding/json"
	"io"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	if status < 400 {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]string{"msg": message})
}

// writeErrorWithErr surfaces the underlying error text alongside the
// message, the way persistence failures are reported to the caller.
func writeErrorWithErr(w http.ResponseWriter, status int, message string, err error) {
	if err == nil {
		writeError(w, status, message)
		return
	}
	writeJSON(w, status, map[string]string{"msg": message, "error": err.Error()})
}

// decodeWithKeys decodes the body into dst and also reports which keys
// the caller actually sent, so a field set to null can be told apart
// from one that was omitted.
func decodeWithKeys(r *http.Request, dst any) (map[string]json.RawMessage, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, err
	}
	return keys, nil
}
