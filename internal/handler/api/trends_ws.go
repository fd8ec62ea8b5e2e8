package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"demandcast/internal/usecase"
	xlogger "demandcast/pkg/logger"
)

// LiveTrendsHandler pushes trend snapshots over a websocket on a fixed
// interval, replacing dashboard polling. One snapshot is sent immediately on
// connect, then one per tick until the client goes away.
type LiveTrendsHandler struct {
	engine   *usecase.TrendEngine
	logger   *xlogger.Logger
	interval time.Duration
	upgrader websocket.Upgrader
}

func NewLiveTrendsHandler(engine *usecase.TrendEngine, logger *xlogger.Logger, interval time.Duration) *LiveTrendsHandler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &LiveTrendsHandler{
		engine:   engine,
		logger:   logger,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *LiveTrendsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/trends/live", h.Stream)
}

// Stream handles GET /api/trends/live
func (h *LiveTrendsHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := c.Request().Context()
	h.logger.Info("live trends client connected", xlogger.String("remote", conn.RemoteAddr().String()))

	// drain control frames so pings and close are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(h.engine.Trends(ctx)); err != nil {
		return nil
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(h.engine.Trends(ctx)); err != nil {
				h.logger.Debug("live trends client gone", xlogger.Error(err))
				return nil
			}
		}
	}
}
