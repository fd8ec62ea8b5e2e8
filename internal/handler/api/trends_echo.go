package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"demandcast/internal/domain/models"
	domrepo "demandcast/internal/domain/repository"
	"demandcast/internal/usecase"
	xhttp "demandcast/pkg/http"
)

// TrendsHandler serves the trend scoring and social signal endpoints.
// Every response is recomputed from the current datasets; dataset failures
// surface as empty collections, never 5xx.
type TrendsHandler struct {
	engine  *usecase.TrendEngine
	metrics domrepo.Metrics
}

func NewTrendsHandler(engine *usecase.TrendEngine, metrics domrepo.Metrics) *TrendsHandler {
	return &TrendsHandler{engine: engine, metrics: metrics}
}

func (h *TrendsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/trends", h.GetTrends)
	g.GET("/sku-mappings", h.GetSkuMappings)
	g.GET("/trends/signals", h.GetSignals)
	g.GET("/social", h.GetSocial)
	g.GET("/sources", h.GetSources)

	e.GET("/healthz", h.Healthz)
}

// GetTrends handles GET /api/trends
func (h *TrendsHandler) GetTrends(c echo.Context) error {
	h.metrics.RecordRequest("trends")
	return xhttp.SuccessResponse(c, h.engine.Trends(c.Request().Context()))
}

// GetSkuMappings handles GET /api/sku-mappings
func (h *TrendsHandler) GetSkuMappings(c echo.Context) error {
	h.metrics.RecordRequest("sku_mappings")
	return xhttp.SuccessResponse(c, h.engine.SkuMappings(c.Request().Context()))
}

// GetSignals handles GET /api/trends/signals
func (h *TrendsHandler) GetSignals(c echo.Context) error {
	h.metrics.RecordRequest("signals")
	return xhttp.SuccessResponse(c, h.engine.Signals(c.Request().Context()))
}

// GetSocial handles GET /api/social?hashtag=&top_n=
func (h *TrendsHandler) GetSocial(c echo.Context) error {
	var req models.SocialRequest
	if verrs := xhttp.ReadAndValidateRequest(c, &req); verrs != nil {
		return xhttp.BadRequestResponse(c, verrs)
	}
	h.metrics.RecordRequest("social")
	return xhttp.SuccessResponse(c, h.engine.SocialFeed(c.Request().Context(), req.Hashtag, req.TopN))
}

// GetSources handles GET /api/sources
func (h *TrendsHandler) GetSources(c echo.Context) error {
	h.metrics.RecordRequest("sources")
	return xhttp.SuccessResponse(c, h.engine.SourceShares(c.Request().Context()))
}

// Healthz handles GET /healthz
func (h *TrendsHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
