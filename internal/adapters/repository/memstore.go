package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/songs/internal/domain/model"
)

// MemoryStore is an in-process Store. Tracks are listed in insertion order.
type MemoryStore struct {
	mu     sync.RWMutex
	order  []model.TrackID
	tracks map[model.TrackID]model.Track
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tracks: make(map[model.TrackID]model.Track)}
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) ([]model.Track, error) {
	start := time.Now()
	s.mu.RLock()
	out := make([]model.Track, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tracks[id])
	}
	s.mu.RUnlock()
	observe(opList, start, nil)
	return out, nil
}

// Insert implements Store.
func (s *MemoryStore) Insert(_ context.Context, fields model.TrackFields) (model.Track, error) {
	start := time.Now()
	track := fields.WithID(model.NewTrackID())
	s.mu.Lock()
	s.tracks[track.ID] = track
	s.order = append(s.order, track.ID)
	s.mu.Unlock()
	observe(opInsert, start, nil)
	return track, nil
}

// UpdateByID implements Store.
func (s *MemoryStore) UpdateByID(_ context.Context, id model.TrackID, fields model.TrackFields) (model.Track, bool, error) {
	start := time.Now()
	defer observe(opUpdate, start, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tracks[id]; !ok {
		return model.Track{}, false, nil
	}
	track := fields.WithID(id)
	s.tracks[id] = track
	return track, true, nil
}

// DeleteByID implements Store.
func (s *MemoryStore) DeleteByID(_ context.Context, id model.TrackID) (bool, error) {
	start := time.Now()
	defer observe(opDelete, start, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tracks[id]; !ok {
		return false, nil
	}
	delete(s.tracks, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Ping implements Store. The memory store is always reachable.
func (s *MemoryStore) Ping(_ context.Context) error {
	observe(opPing, time.Now(), nil)
	return nil
}

// Len returns the number of stored tracks.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tracks)
}
