package handlers

import (
	"encoding/json"
	"net/http"
)

// HandleCheckRoom reports whether a room code resolves to a live room,
// so the dashboard can reject bad codes before opening a socket.
func (g *Gateway) HandleCheckRoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	roomID := r.URL.Query().Get("room_id")
	if roomID == "" {
		http.Error(w, "Missing room_id", http.StatusBadRequest)
		return
	}

	_, err := g.rooms.GetRoom(roomID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{
		"exists": err == nil,
	})
}

func (g *Gateway) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":      "ok",
		"activeRooms": g.rooms.ActiveRooms(),
	})
}
