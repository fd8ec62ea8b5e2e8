package api

import (
	"github.com/labstack/echo/v4"

	"demandcast/internal/service/ratelimit"
	"demandcast/pkg/http/middleware"
)

// Router aggregates the API handlers behind a single route registrar and
// applies the per-client rate limit to the /api surface.
type Router struct {
	forecast *ForecastHandler
	trends   *TrendsHandler
	live     *LiveTrendsHandler
	limiter  *ratelimit.Limiter
}

func NewRouter(forecast *ForecastHandler, trends *TrendsHandler, live *LiveTrendsHandler) *Router {
	return &Router{
		forecast: forecast,
		trends:   trends,
		live:     live,
		limiter:  ratelimit.New(),
	}
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	e.Use(middleware.RateLimit(r.limiter, 50, 25))

	r.forecast.RegisterRoutes(e)
	r.trends.RegisterRoutes(e)
	r.live.RegisterRoutes(e)
}
