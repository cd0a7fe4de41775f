package http

import (
	"net/http"

	"wealthway/internal/log"
)

// handleInsights renders the insights partial, starting a refresh when the
// month's transaction count changed since it was last observed.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	m := s.month(r.URL.Query().Get)
	s.insights.Observe(ctx, m, s.transactions.Month(m.Year, m.Month))

	html, ok := s.render(w, r, "insights", newInsightView(s.insights.Current(m)))
	if !ok {
		return
	}
	NewHTMXResponse().BodyHTML(html).Write(w)
}

// handleRefreshInsights regenerates the month's insight, bypassing the
// response cache, and answers with the loading state.
func (s *Server) handleRefreshInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	m := s.month(r.FormValue)
	s.insights.Refresh(ctx, m, s.transactions.Month(m.Year, m.Month), true)

	log.FromContext(ctx).InfoContext(ctx, "Insight refresh requested",
		log.FieldOperation, log.OpRefresh,
		log.FieldMonth, m.Key())

	html, ok := s.render(w, r, "insights", newInsightView(s.insights.Current(m)))
	if !ok {
		return
	}
	NewHTMXResponse().BodyHTML(html).Write(w)
}

// handleWebsocket subscribes the browser to insight updates for the month
// it displays.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	m := s.month(r.URL.Query().Get)
	if err := s.hub.HandleRequest(w, r, m); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Websocket session ended with error",
			log.FieldMonth, m.Key(),
			log.FieldError, err.Error())
	}
}
