package handlers

import "net/http"

// Health reports liveness for load balancers and container orchestrators.
func Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}
