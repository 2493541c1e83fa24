// Package server exposes evaluated properties over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/proplife/internal/finance"
	"github.com/theirongolddev/proplife/internal/lifecycle"
	"github.com/theirongolddev/proplife/internal/model"
	"github.com/theirongolddev/proplife/internal/portfolio"
)

// Repository is the persistence the server reads and writes.
type Repository interface {
	portfolio.Reader
	GetProperty(ctx context.Context, id string) (model.Property, error)
	ListStages(ctx context.Context, propertyID string, kind model.PipelineKind) ([]model.PipelineStageData, error)
	SaveStages(ctx context.Context, stages []model.PipelineStageData) error
	Ledger(ctx context.Context, propertyID string) (finance.Ledger, error)
}

// Config controls the server runtime behavior.
type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	EventsBuffer      int
}

// Event is emitted whenever a stage status changes.
type Event struct {
	ID         int64          `json:"id"`
	Type       string         `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	PropertyID string         `json:"property_id"`
	StageID    int            `json:"stage_id"`
	Status     string         `json:"status"`
	Snapshot   model.Snapshot `json:"snapshot"`
}

// Service provides the HTTP API.
type Service struct {
	cfg    Config
	repo   Repository
	engine *lifecycle.Engine
	log    *slog.Logger
	now    func() time.Time

	mu          sync.RWMutex
	startedAt   time.Time
	nextEventID int64
	events      []Event
	nextSubID   int
	subs        map[int]chan Event
}

// New returns a new service with the provided config.
func New(cfg Config, repo Repository, engine *lifecycle.Engine, logger *slog.Logger) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8790"
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = 5 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		repo:      repo,
		engine:    engine,
		log:       logger,
		now:       time.Now,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("server listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("server shutting down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) recentEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
