package middleware

import (
	"encoding/json"
	"net/http"
)

// writeMsg writes the API's error body, {"msg": "..."}.
func writeMsg(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"msg": msg})
}
