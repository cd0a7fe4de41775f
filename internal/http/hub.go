package http

import (
	"context"
	"net/http"
	"time"

	"github.com/olahol/melody"

	"wealthway/internal/core"
	"wealthway/internal/insights"
	"wealthway/internal/log"
)

const sessionMonthKey = "month"

// Hub pushes insight updates to every browser viewing the affected month.
// It implements insights.Notifier.
type Hub struct {
	m        *melody.Melody
	renderer *Renderer
	logger   *log.Logger
}

func NewHub(renderer *Renderer, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	logger = logger.WithComponent(log.ComponentWebsocket)

	m := melody.New()
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second
	m.Config.MaxMessageSize = 512

	m.HandleConnect(func(s *melody.Session) {
		month, _ := s.Get(sessionMonthKey)
		logger.Debug("Websocket connected", log.FieldMonth, month)
	})
	m.HandleDisconnect(func(s *melody.Session) {
		month, _ := s.Get(sessionMonthKey)
		logger.Debug("Websocket disconnected", log.FieldMonth, month)
	})
	m.HandleError(func(s *melody.Session, err error) {
		logger.Warn("Websocket error", log.FieldError, err.Error())
	})

	return &Hub{m: m, renderer: renderer, logger: logger}
}

// HandleRequest upgrades the request and subscribes it to month.
func (h *Hub) HandleRequest(w http.ResponseWriter, r *http.Request, month core.MonthPointer) error {
	return h.m.HandleRequestWithKeys(w, r, map[string]any{sessionMonthKey: month.Key()})
}

// NotifyInsight renders st and broadcasts it to the sessions of its month.
func (h *Hub) NotifyInsight(ctx context.Context, st insights.State) {
	if h.m.IsClosed() {
		return
	}
	html, err := h.renderer.RenderInsight(st)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to render insight update",
			log.FieldMonth, st.Month.Key(),
			log.FieldError, err.Error())
		return
	}
	key := st.Month.Key()
	err = h.m.BroadcastFilter(html, func(s *melody.Session) bool {
		v, ok := s.Get(sessionMonthKey)
		return ok && v == key
	})
	if err != nil {
		h.logger.WarnContext(ctx, "Failed to broadcast insight update",
			log.FieldMonth, key,
			log.FieldError, err.Error())
	}
}

// Sessions is the number of connected browsers.
func (h *Hub) Sessions() int {
	return h.m.Len()
}

func (h *Hub) Close() error {
	if h.m.IsClosed() {
		return nil
	}
	return h.m.Close()
}
