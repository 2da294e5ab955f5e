// Package server exposes the transcription pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/meloscribe/meloscribe/engine"
	"github.com/meloscribe/meloscribe/logging"
)

// Config holds server configuration
type Config struct {
	Addr          string        // listen address, e.g. ":8080"
	FallbackTempo float64       // BPM applied when a clip has too few onsets; 0 disables
	MaxUploadSize int64         // request body cap in bytes
	ReadTimeout   time.Duration // per-request read deadline
	WriteTimeout  time.Duration // per-request write deadline
}

// DefaultConfig returns a production-ready server configuration
func DefaultConfig() Config {
	return Config{
		Addr:          ":8080",
		FallbackTempo: 120,
		MaxUploadSize: 100 * 1024 * 1024,
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  2 * time.Minute,
	}
}

// Server is the HTTP front end over a transcription engine
type Server struct {
	config Config
	engine *engine.Engine
	router *mux.Router
	log    logging.Logger
}

// New creates a server around an existing engine
func New(cfg Config, eng *engine.Engine) *Server {
	s := &Server{
		config: cfg,
		engine: eng,
		router: mux.NewRouter().StrictSlash(true),
		log:    logging.GetGlobalLogger().WithFields(logging.Fields{"component": "server"}),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/v1/transcribe", s.handleTranscribe).Methods("POST")
}

// Handler returns the complete middleware-wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return cors.Default().Handler(s.router)
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		s.log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			s.log.Error(err, "shutdown error")
		}
		close(done)
	}()

	s.log.Info("listening", logging.Fields{"addr": s.config.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}

	<-done
	return nil
}
