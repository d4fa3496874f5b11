package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okian/songs/internal/domain/model"
	"github.com/okian/songs/pkg/logger"
)

// SongsDependencies defines the track operations behind /songs.
type SongsDependencies interface {
	ListTracks(ctx context.Context) ([]model.Track, error)
	CreateTrack(ctx context.Context, fields model.TrackFields) (model.Track, error)
	UpdateTrack(ctx context.Context, id model.TrackID, fields model.TrackFields) (model.Track, bool, error)
	DeleteTrack(ctx context.Context, id model.TrackID) (bool, error)
}

// SongsHandler handles the /songs routes.
type SongsHandler struct {
	deps   SongsDependencies
	logger logger.Logger
}

// NewSongsHandler creates a new songs handler.
func NewSongsHandler(deps SongsDependencies, l logger.Logger) *SongsHandler {
	return &SongsHandler{deps: deps, logger: l}
}

// HandleList handles GET /songs requests.
func (h *SongsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_songs"
	tracks, err := h.deps.ListTracks(r.Context())
	if err != nil {
		h.internalError(w, r, op, err)
		return
	}
	if tracks == nil {
		tracks = []model.Track{}
	}
	writeJSON(w, http.StatusOK, tracks)
}

// HandleCreate handles POST /songs requests. Any id in the body is ignored.
func (h *SongsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_song"
	fields, err := decodeFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	track, err := h.deps.CreateTrack(r.Context(), fields)
	if err != nil {
		h.internalError(w, r, op, err)
		return
	}
	w.Header().Set("Location", "/songs/"+track.ID.String())
	writeJSON(w, http.StatusCreated, track)
}

// HandleUpdate handles PUT /songs/{id} requests.
func (h *SongsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_song"
	id, err := model.ParseTrackID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	fields, err := decodeFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	track, ok, err := h.deps.UpdateTrack(r.Context(), id, fields)
	if err != nil {
		h.internalError(w, r, op, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", songNotFound(id))
		return
	}
	writeJSON(w, http.StatusOK, track)
}

// HandleDelete handles DELETE /songs/{id} requests.
func (h *SongsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_song"
	id, err := model.ParseTrackID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	ok, err := h.deps.DeleteTrack(r.Context(), id)
	if err != nil {
		h.internalError(w, r, op, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", songNotFound(id))
		return
	}
	w.WriteHeader(http.StatusOK)
}

// errEmptyBody is returned for a JSON null body.
var errEmptyBody = errors.New("request body is null")

// decodeFields reads exactly one JSON object from the body.
func decodeFields(r *http.Request) (model.TrackFields, error) {
	dec := json.NewDecoder(r.Body)
	var fields *model.TrackFields
	if err := dec.Decode(&fields); err != nil {
		return model.TrackFields{}, fmt.Errorf("decode track: %w", err)
	}
	if fields == nil {
		return model.TrackFields{}, fmt.Errorf("decode track: %w", errEmptyBody)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return model.TrackFields{}, errors.New("decode track: unexpected data after JSON object")
	}
	return *fields, nil
}

func songNotFound(id model.TrackID) error {
	return fmt.Errorf("Song with id %s not found.", id) //nolint:stylecheck // client-facing message
}

// internalError logs err and answers 500 without leaking driver details.
func (h *SongsHandler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, ErrInternal))
}
