package api

import (
	"github.com/labstack/echo/v4"

	"demandcast/internal/domain/models"
	domrepo "demandcast/internal/domain/repository"
	"demandcast/internal/usecase"
	xhttp "demandcast/pkg/http"
)

// ForecastHandler serves the historic series and forecast endpoints.
type ForecastHandler struct {
	engine  *usecase.ForecastEngine
	metrics domrepo.Metrics
}

func NewForecastHandler(engine *usecase.ForecastEngine, metrics domrepo.Metrics) *ForecastHandler {
	return &ForecastHandler{engine: engine, metrics: metrics}
}

func (h *ForecastHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/historic", h.GetHistoric)
	g.GET("/forecast", h.GetForecast)
}

// GetHistoric handles GET /api/historic?sku=
func (h *ForecastHandler) GetHistoric(c echo.Context) error {
	var req models.HistoricRequest
	if verrs := xhttp.ReadAndValidateRequest(c, &req); verrs != nil {
		return xhttp.BadRequestResponse(c, verrs)
	}
	h.metrics.RecordRequest("historic")

	resp, err := h.engine.Historic(c.Request().Context(), req.SKU)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, resp)
}

// GetForecast handles GET /api/forecast?sku=&horizon=&region=&start_date=
func (h *ForecastHandler) GetForecast(c echo.Context) error {
	var req models.ForecastRequest
	if verrs := xhttp.ReadAndValidateRequest(c, &req); verrs != nil {
		return xhttp.BadRequestResponse(c, verrs)
	}
	h.metrics.RecordRequest("forecast")

	resp, err := h.engine.Forecast(c.Request().Context(), req)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, resp)
}
