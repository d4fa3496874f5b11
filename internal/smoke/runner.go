package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/okian/songs/internal/domain/model"
	"github.com/okian/songs/pkg/logger"
)

// malformedID is never a valid 24-hex-character id.
const malformedID = "not-an-object-id"

var (
	waterloo = model.TrackFields{
		Artist:          "Abba",
		Title:           "Waterloo",
		LengthInSeconds: 166,
		Category:        "Pop",
	}
	remastered = model.TrackFields{
		Artist:          "Abba",
		Title:           "Waterloo (Remastered)",
		LengthInSeconds: 166,
		Category:        "Pop",
	}
)

type runner struct {
	cfg     Config
	client  *httpClient
	log     logger.Logger
	report  *Report
	created model.Track
}

type step struct {
	name   string
	method string
	path   func() string
	body   any
	want   int
	check  func(*response) error
}

// Run executes the scenario and stops at the first failing step. The
// returned report is never nil.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	r := &runner{
		cfg:    cfg,
		client: newHTTPClient(cfg.BaseURL, cfg.Timeout),
		log:    logger.Named("smoke"),
		report: &Report{StartTime: time.Now()},
	}

	r.log.Info(ctx, "starting smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Duration("timeout", cfg.Timeout))

	var runErr error
	for _, s := range r.steps() {
		if err := r.run(ctx, s); err != nil {
			runErr = fmt.Errorf("%w: %s: %w", ErrStepFailed, s.name, err)
			break
		}
	}

	r.report.EndTime = time.Now()
	r.report.Duration = r.report.EndTime.Sub(r.report.StartTime)

	if runErr != nil {
		r.log.Error(ctx, "smoke run failed", logger.Error(runErr))
		return r.report, runErr
	}
	r.log.Info(ctx, "smoke run passed",
		logger.Int("steps", len(r.report.Steps)),
		logger.Duration("duration", r.report.Duration))
	return r.report, nil
}

func (r *runner) trackPath() string { return "/songs/" + r.created.ID.String() }

func fixed(p string) func() string { return func() string { return p } }

func (r *runner) steps() []step {
	return []step{
		{name: "health", method: http.MethodGet, path: fixed("/healthz"), want: http.StatusOK},
		{name: "create", method: http.MethodPost, path: fixed("/songs"), body: waterloo, want: http.StatusCreated, check: r.checkCreated},
		{name: "list", method: http.MethodGet, path: fixed("/songs"), want: http.StatusOK, check: r.checkListed},
		{name: "update", method: http.MethodPut, path: r.trackPath, body: remastered, want: http.StatusOK, check: r.checkUpdated},
		{name: "delete", method: http.MethodDelete, path: r.trackPath, want: http.StatusOK},
		{name: "delete_again", method: http.MethodDelete, path: r.trackPath, want: http.StatusNotFound},
		{name: "update_malformed_id", method: http.MethodPut, path: fixed("/songs/" + malformedID), body: remastered, want: http.StatusBadRequest},
		{name: "delete_malformed_id", method: http.MethodDelete, path: fixed("/songs/" + malformedID), want: http.StatusBadRequest},
	}
}

func (r *runner) run(ctx context.Context, s step) error {
	path := s.path()
	start := time.Now()
	resp, err := r.client.do(ctx, s.method, path, s.body)

	result := StepResult{Name: s.name, Method: s.method, Path: path, Duration: time.Since(start)}
	switch {
	case err != nil:
	case resp.status != s.want:
		result.Status = resp.status
		err = fmt.Errorf("status %d, want %d", resp.status, s.want)
	default:
		result.Status = resp.status
		if s.check != nil {
			err = s.check(resp)
		}
	}
	result.Err = err
	r.report.Steps = append(r.report.Steps, result)

	fields := []logger.Field{
		logger.String("step", s.name),
		logger.String("method", s.method),
		logger.String("path", path),
		logger.Int("status", result.Status),
		logger.Duration("duration", result.Duration),
	}
	if r.cfg.Verbose {
		r.log.Info(ctx, "smoke step", fields...)
	} else {
		r.log.Debug(ctx, "smoke step", fields...)
	}
	return err
}

func (r *runner) checkCreated(resp *response) error {
	var t model.Track
	if err := json.Unmarshal(resp.body, &t); err != nil {
		return fmt.Errorf("decode created track: %w", err)
	}
	if t.ID.IsZero() {
		return fmt.Errorf("created track has no id")
	}
	if t.Fields() != waterloo {
		return fmt.Errorf("created track %+v does not match request", t.Fields())
	}
	if loc := resp.header.Get("Location"); loc != "/songs/"+t.ID.String() {
		return fmt.Errorf("unexpected Location %q", loc)
	}
	r.created = t
	r.report.TrackID = t.ID.String()
	return nil
}

func (r *runner) checkListed(resp *response) error {
	var tracks []model.Track
	if err := json.Unmarshal(resp.body, &tracks); err != nil {
		return fmt.Errorf("decode track list: %w", err)
	}
	if !slices.Contains(tracks, r.created) {
		return fmt.Errorf("track %s missing from list", r.created.ID)
	}
	return nil
}

func (r *runner) checkUpdated(resp *response) error {
	var t model.Track
	if err := json.Unmarshal(resp.body, &t); err != nil {
		return fmt.Errorf("decode updated track: %w", err)
	}
	if t.ID != r.created.ID {
		return fmt.Errorf("update changed id from %s to %s", r.created.ID, t.ID)
	}
	if t.Fields() != remastered {
		return fmt.Errorf("updated track %+v does not match request", t.Fields())
	}
	return nil
}
