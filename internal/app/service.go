// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	repository "github.com/okian/songs/internal/adapters/repository"
	"github.com/okian/songs/internal/config"
	"github.com/okian/songs/internal/domain/model"
	"github.com/okian/songs/pkg/logger"
	"github.com/okian/songs/pkg/metrics"
)

// ErrNotStarted is returned by track operations before Start.
var ErrNotStarted = errors.New("service not started")

// Service owns the track store for the lifetime of the process and
// implements the API dependencies on top of it.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	client *mongo.Client

	// injected is true when the store came from WithStore and must not be
	// replaced or disconnected by the service.
	injected bool

	// Configuration
	backend        string
	mongoURI       string
	database       string
	collection     string
	connectTimeout time.Duration

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore uses store instead of building one on Start.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
			s.injected = true
		}
	}
}

// WithBackend selects the store built on Start: "mongo" or "memory".
func WithBackend(backend string) Option {
	return func(s *Service) {
		if backend != "" {
			s.backend = backend
		}
	}
}

// WithMongoURI sets the database connection string.
func WithMongoURI(uri string) Option {
	return func(s *Service) {
		if uri != "" {
			s.mongoURI = uri
		}
	}
}

// WithDatabase sets the database holding the track collection.
func WithDatabase(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.database = name
		}
	}
}

// WithCollection sets the track collection name.
func WithCollection(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.collection = name
		}
	}
}

// WithConnectTimeout bounds connecting to the database on Start.
func WithConnectTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.connectTimeout = d
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	defaults := config.New()
	s := &Service{
		backend:        defaults.StoreBackend,
		mongoURI:       defaults.MongoURI,
		database:       defaults.MongoDatabase,
		collection:     defaults.MongoCollection,
		connectTimeout: time.Duration(defaults.MongoConnectTimeoutMS) * time.Millisecond,
		logger:         nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the track store, connecting to the database when needed.
// Calling Start on a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting songs service...", logger.String("backend", s.backend))

	if !s.injected {
		switch s.backend {
		case config.BackendMemory:
			s.store = repository.NewMemoryStore()
		case config.BackendMongo:
			client, err := repository.Connect(ctx, s.mongoURI, s.connectTimeout)
			if err != nil {
				return fmt.Errorf("start service: %w", err)
			}
			s.client = client
			coll := client.Database(s.database).Collection(s.collection)
			s.store = repository.NewMongoStore(coll, repository.WithLogger(s.logger.Named("repository")))
		default:
			return fmt.Errorf("start service: %w: %q", repository.ErrUnknownBackend, s.backend)
		}
	}

	s.started = true
	s.logger.Info(ctx, "songs service started",
		logger.String("backend", s.backend),
		logger.String("database", s.database),
		logger.String("collection", s.collection),
	)
	return nil
}

// Stop releases the database client. The service can be started again.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping songs service...")

	var err error
	if s.client != nil {
		if derr := s.client.Disconnect(ctx); derr != nil {
			err = fmt.Errorf("disconnect track store: %w", derr)
		}
		s.client = nil
	}
	if !s.injected {
		s.store = nil
	}

	s.started = false
	s.logger.Info(ctx, "songs service stopped")
	return err
}

func (s *Service) activeStore() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// ListTracks returns every track.
func (s *Service) ListTracks(ctx context.Context) ([]model.Track, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	tracks, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "listed tracks", logger.Int("count", len(tracks)))
	return tracks, nil
}

// CreateTrack stores a new track built from fields.
func (s *Service) CreateTrack(ctx context.Context, fields model.TrackFields) (model.Track, error) {
	store, err := s.activeStore()
	if err != nil {
		return model.Track{}, err
	}
	track, err := store.Insert(ctx, fields)
	if err != nil {
		return model.Track{}, err
	}
	metrics.RecordTrackCreated()
	s.logger.Debug(ctx, "created track",
		logger.String("id", track.ID.String()),
		logger.String("artist", track.Artist),
		logger.String("title", track.Title),
	)
	return track, nil
}

// UpdateTrack replaces the fields of the track with id. ok is false when
// no such track exists.
func (s *Service) UpdateTrack(ctx context.Context, id model.TrackID, fields model.TrackFields) (model.Track, bool, error) {
	store, err := s.activeStore()
	if err != nil {
		return model.Track{}, false, err
	}
	track, ok, err := store.UpdateByID(ctx, id, fields)
	if err != nil {
		return model.Track{}, false, err
	}
	if ok {
		metrics.RecordTrackUpdated()
	}
	s.logger.Debug(ctx, "update track", logger.String("id", id.String()), logger.Bool("found", ok))
	return track, ok, nil
}

// DeleteTrack removes the track with id. ok is false when none matched.
func (s *Service) DeleteTrack(ctx context.Context, id model.TrackID) (bool, error) {
	store, err := s.activeStore()
	if err != nil {
		return false, err
	}
	ok, err := store.DeleteByID(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		metrics.RecordTrackDeleted()
	}
	s.logger.Debug(ctx, "delete track", logger.String("id", id.String()), logger.Bool("found", ok))
	return ok, nil
}

// Ping reports whether the track store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	store, err := s.activeStore()
	if err != nil {
		return err
	}
	return store.Ping(ctx)
}

// GetStats returns current service statistics.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":    s.started,
		"backend":    s.backend,
		"database":   s.database,
		"collection": s.collection,
	}
}
