package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/stocksense/procurebot/authgate"
	"github.com/stocksense/procurebot/backend"
	"github.com/stocksense/procurebot/conversation"
	"github.com/stocksense/procurebot/correlator"
	"github.com/stocksense/procurebot/internal/config"
	"github.com/stocksense/procurebot/internal/metrics"
	"github.com/stocksense/procurebot/notify"
	"github.com/stocksense/procurebot/provider"
	"github.com/stocksense/procurebot/server"
	"github.com/stocksense/procurebot/tokenstore"
	"github.com/stocksense/procurebot/transport"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("error running bot")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("bot stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, notifier, err := buildComponents(ctx, c)
	if err != nil {
		return err
	}

	if notifier != nil {
		go notifier.Run(ctx)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	cancel()
	returnError = shutdown(httpServer)
	return returnError
}

func buildComponents(ctx context.Context, c config.Config) (*server.Server, *notify.Notifier, error) {
	copyCatalog, err := conversation.LoadCopy(c.GetCopyFile())
	if err != nil {
		return nil, nil, fmt.Errorf("load reply catalog: %w", err)
	}

	tokens := tokenstore.NewInMemoryRepo()
	broker := correlator.NewInMemoryBroker()
	recorder := metrics.NewPrometheusRecorder()

	idp, err := provider.NewOIDCClient(ctx, c)
	if err != nil {
		return nil, nil, fmt.Errorf("create identity provider client: %w", err)
	}

	gate, err := authgate.New(tokens, idp, authgate.WithRecorder(recorder), authgate.WithLogger(log.Logger))
	if err != nil {
		return nil, nil, fmt.Errorf("create auth gate: %w", err)
	}

	backendClient, err := backend.NewHTTPClient(c.GetBackendURL(), c.GetTempDir(), backend.WithLogger(log.Logger))
	if err != nil {
		return nil, nil, fmt.Errorf("create backend client: %w", err)
	}

	machine, err := conversation.NewMachine(
		conversation.NewInMemoryStore(),
		gate,
		broker,
		idp,
		backendClient,
		c.GetTempDir(),
		conversation.WithCopy(copyCatalog),
		conversation.WithRecorder(recorder),
		conversation.WithAdminRole(c.GetAdminRole()),
		conversation.WithLogger(log.Logger),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create conversation machine: %w", err)
	}

	var notifier *notify.Notifier
	if pushURL := c.GetTransportPushURL(); pushURL != "" {
		pusher, err := transport.NewPusher(pushURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create push transport: %w", err)
		}
		interval, err := time.ParseDuration(c.GetNotifyInterval())
		if err != nil {
			return nil, nil, fmt.Errorf("parse notify interval: %w", err)
		}
		notifier, err = notify.New(interval, backendClient, tokens, pusher, notify.WithLogger(log.Logger))
		if err != nil {
			return nil, nil, fmt.Errorf("create notifier: %w", err)
		}
	}

	return server.New(c, machine, broker, idp, tokens), notifier, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
