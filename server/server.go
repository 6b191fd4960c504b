// Package server exposes the bot's HTTP surface: the identity provider's
// authorization callback, the transport adapter's event webhook, health and
// metrics.
package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/stocksense/procurebot/conversation"
	"github.com/stocksense/procurebot/correlator"
	"github.com/stocksense/procurebot/internal/config"
	"github.com/stocksense/procurebot/provider"
	"github.com/stocksense/procurebot/tokenstore"
)

type Server struct {
	env     string // Environment (e.g., "development", "production")
	mux     *http.ServeMux
	routes  []string
	config  config.Config
	machine *conversation.Machine
	broker  correlator.Broker
	idp     provider.Client
	tokens  tokenstore.Repo
}

func New(
	config config.Config,
	machine *conversation.Machine,
	broker correlator.Broker,
	idp provider.Client,
	tokens tokenstore.Repo,
) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		config:  config,
		machine: machine,
		broker:  broker,
		idp:     idp,
		tokens:  tokens,
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		log.Info().Str("route", route).Msg("registered route")
	}
}
