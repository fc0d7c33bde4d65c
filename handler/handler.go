package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pyama86/breachtracker/domain/analytics"
	"github.com/pyama86/breachtracker/domain/classification"
	"github.com/pyama86/breachtracker/domain/entity"
	"github.com/pyama86/breachtracker/domain/repository"
)

var ErrIncidentNotFound = errors.New("incident not found")

type Handler struct {
	ctx        context.Context
	out        io.Writer
	repository repository.Repository
	classifier *classification.Engine
	analytics  *analytics.Engine
	now        func() time.Time
}

type Option func(*Handler)

func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

func NewHandler(ctx context.Context, out io.Writer, repo repository.Repository, classifier *classification.Engine, engine *analytics.Engine, opts ...Option) *Handler {
	h := &Handler{
		ctx:        ctx,
		out:        out,
		repository: repo,
		classifier: classifier,
		analytics:  engine,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Bootstrap wires config, persistence, classification and analytics.
func Bootstrap(ctx context.Context, configPath string, out io.Writer) (*Handler, error) {
	cfg, err := repository.NewConfigRepository(configPath)
	if err != nil {
		return nil, err
	}
	setLogLevel(cfg.Log.Level)

	store := repository.NewFileSnapshotRepository(cfg.Storage.Path)
	repo, err := repository.NewIncidentRepository(ctx, store, cfg.RepositoryOptions()...)
	if err != nil {
		return nil, err
	}
	slog.Debug("state loaded", slog.String("path", store.Path()), slog.Time("updated_at", repo.LastModified()))

	var evaluator analytics.Evaluator
	if cfg.Query.Enabled {
		evaluator = analytics.NewSQLiteEvaluator()
	}
	engine := analytics.NewEngine(evaluator, analytics.WithCacheTTL(cfg.Query.CacheTTL))

	return NewHandler(ctx, out, repo, classification.New(cfg.EngineConfig()), engine), nil
}

func setLogLevel(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return
	}
	slog.SetLogLoggerLevel(l)
}

// lookup resolves an incident or draft by code, then by internal id.
func (h *Handler) lookup(ref string) (*entity.Incident, error) {
	ref = strings.TrimSpace(ref)
	if i := h.repository.FindByCode(ref); i != nil {
		return i, nil
	}
	if i := h.repository.GetIncident(ref); i != nil {
		return i, nil
	}
	if i := h.repository.GetDraft(ref); i != nil {
		return i, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrIncidentNotFound, ref)
}

// lookupDraft is lookup with drafts searched first, so a code shared by a
// draft and an incident resolves to the draft.
func (h *Handler) lookupDraft(ref string) (*entity.Incident, error) {
	ref = strings.TrimSpace(ref)
	if d := h.repository.FindDraftByCode(ref); d != nil {
		return d, nil
	}
	if d := h.repository.GetDraft(ref); d != nil {
		return d, nil
	}
	return h.lookup(ref)
}

// lookupIncident is lookup restricted to submitted incidents.
func (h *Handler) lookupIncident(ref string) (*entity.Incident, error) {
	i, err := h.lookup(ref)
	if err != nil {
		return nil, err
	}
	if i.Status == entity.StatusDraft {
		return nil, fmt.Errorf("%w: %s is a draft", ErrIncidentNotFound, i.IncidentID)
	}
	return i, nil
}

func (h *Handler) printf(format string, args ...any) {
	fmt.Fprintf(h.out, format, args...)
}
