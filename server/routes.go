package server

import "github.com/prometheus/client_golang/prometheus/promhttp"

const (
	RouteAuthCallback = "/auth/callback"
	RouteEvents       = "/events"
	RouteHealth       = "/healthz"
	RouteMetrics      = "/metrics"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteAuthCallback, s.AuthCallbackHandler())
	s.RegisterRouteFunc("POST "+RouteEvents, s.EventsHandler())
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())
}
