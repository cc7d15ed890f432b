package handler

import (
	"net/http"
	"os"
)

// testResponse is the body of the /test diagnostic endpoint.
type testResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	ConnectionStatus string   `json:"connection_status"`
	Tables           []string `json:"tables"`
}

// testStore reports backend and database status. It never fails the request:
// connectivity problems show up in the body, not the status code.
func (h *Handler) testStore(w http.ResponseWriter, r *http.Request) {
	resp := testResponse{
		Backend:          "running",
		Database:         "not available",
		DatabaseURL:      "not set",
		ConnectionStatus: "not connected",
		Tables:           []string{},
	}
	if os.Getenv("MERCH_DATABASE_URL") != "" || os.Getenv("DATABASE_URL") != "" {
		resp.DatabaseURL = "set"
	}

	if h.diag != nil {
		if err := h.diag.Ping(r.Context()); err != nil {
			resp.Database = "error: " + err.Error()
		} else {
			resp.Database = "connected"
			resp.ConnectionStatus = "connected"
			if tables, err := h.diag.Tables(r.Context(), 10); err == nil {
				resp.Tables = tables
			}
		}
	}

	respondJSON(w, http.StatusOK, resp)
}
