// internal/handlers/state.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jason-s-yu/uno/internal/room"
)

// StateHandler returns the public snapshot of the table. Hands are never included.
func StateHandler(rm *room.Room) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rm.State())
	}
}

// PingHandler answers liveness checks.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("uno server is running"))
}
