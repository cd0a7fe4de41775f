package http

import (
	"context"
	"net/http"
	"time"

	"wealthway/internal/core"
)

type summaryResponse struct {
	Month        string       `json:"month"`
	Label        string       `json:"label"`
	Count        int          `json:"count"`
	Summary      core.Summary `json:"summary"`
	ExpenseShare int          `json:"expense_share"`
}

// handleAPITransactions lists a month's transactions, or every transaction
// when neither year nor month is given.
func (s *Server) handleAPITransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("year") && !q.Has("month") {
		writeJSON(w, r, http.StatusOK, s.transactions.List())
		return
	}
	m := s.month(q.Get)
	writeJSON(w, r, http.StatusOK, s.transactions.Month(m.Year, m.Month))
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	m := s.month(r.URL.Query().Get)
	txs := s.transactions.Month(m.Year, m.Month)
	sum := core.Summarize(txs)
	writeJSON(w, r, http.StatusOK, summaryResponse{
		Month:        m.Key(),
		Label:        m.Label(),
		Count:        len(txs),
		Summary:      sum,
		ExpenseShare: sum.ExpenseShare(),
	})
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.started).Round(time.Second).String(),
	})
}

// handleReady verifies templates and, when configured, the durable store.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ready"
	code := http.StatusOK
	checks := map[string]string{"templates": "ok", "storage": "not_configured"}

	if s.renderer == nil {
		checks["templates"] = "failed: templates not loaded"
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	if s.storage != nil {
		if err := s.storage.Ping(ctx); err != nil {
			checks["storage"] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
		} else {
			checks["storage"] = "ok"
		}
	}

	writeJSON(w, r, code, map[string]any{
		"status":             status,
		"checks":             checks,
		"websocket_sessions": s.hub.Sessions(),
	})
}
