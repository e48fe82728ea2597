package media

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/reelforge/reelforge-agent/internal/apperrors"
)

type MediaService interface {
	AddItem(ctx context.Context, kind Kind, name string, displaySeconds float64) (*Item, error)
	RemoveItem(ctx context.Context, id string) error
	Reorder(ctx context.Context, orderedIDs []string) error
	ListItems(ctx context.Context) ([]Item, error)
	OnChange(fn func(items []Item))
}

// Service keeps the registered media sequence and tells observers about every
// addition, removal or reordering. Observers receive a copy of the sequence.
// Mutations are serialized together with their notification, so observers
// see the sequence versions in commit order.
type Service struct {
	repo            Repository
	logger          *slog.Logger
	defaultDuration float64

	writeMu sync.Mutex

	mu        sync.Mutex
	observers []func(items []Item)
}

func NewService(repo Repository, defaultDuration float64, logger *slog.Logger) *Service {
	if defaultDuration <= 0 {
		defaultDuration = DefaultDisplayDurationSeconds
	}
	return &Service{repo: repo, defaultDuration: defaultDuration, logger: logger}
}

func (s *Service) AddItem(ctx context.Context, kind Kind, name string, displaySeconds float64) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Input("media name is required").WithField("name")
	}
	if kind == "" {
		guessed, ok := KindFromFilename(name)
		if !ok {
			return nil, apperrors.Input("media kind must be image or video").WithField("kind")
		}
		kind = guessed
	}
	if kind != KindImage && kind != KindVideo {
		return nil, apperrors.Input("media kind must be image or video").WithField("kind")
	}
	if displaySeconds < 0 {
		return nil, apperrors.Input("display duration must not be negative").WithField("display_duration_s")
	}
	if displaySeconds == 0 {
		displaySeconds = s.defaultDuration
	}

	item := &Item{
		ID:                     NewID(),
		Kind:                   kind,
		Name:                   name,
		DisplayDurationSeconds: displaySeconds,
		CreatedAt:              time.Now().UTC(),
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.repo.AppendItem(ctx, item); err != nil {
		return nil, apperrors.Database("failed to add media").Wrap(err)
	}

	if s.logger != nil {
		s.logger.Info("media added", "media_id", item.ID, "kind", item.Kind, "position", item.Position)
	}
	s.publish(ctx)
	return item, nil
}

func (s *Service) RemoveItem(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	found, err := s.repo.DeleteItem(ctx, id)
	if err != nil {
		return apperrors.Database("failed to remove media").Wrap(err)
	}
	if !found {
		return apperrors.NotFound("media item not found")
	}

	if s.logger != nil {
		s.logger.Info("media removed", "media_id", id)
	}
	s.publish(ctx)
	return nil
}

// Reorder requires the full set of current ids, each exactly once.
func (s *Service) Reorder(ctx context.Context, orderedIDs []string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, err := s.repo.ListItems(ctx)
	if err != nil {
		return apperrors.Database("failed to reorder media").Wrap(err)
	}
	if len(orderedIDs) != len(current) {
		return apperrors.Input(fmt.Sprintf("order must list all %d media items", len(current))).WithField("ids")
	}

	known := make(map[string]bool, len(current))
	for _, it := range current {
		known[it.ID] = true
	}
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !known[id] {
			return apperrors.Input("unknown media id " + id).WithField("ids")
		}
		if seen[id] {
			return apperrors.Input("duplicate media id " + id).WithField("ids")
		}
		seen[id] = true
	}

	if err := s.repo.UpdatePositions(ctx, orderedIDs); err != nil {
		return apperrors.Database("failed to reorder media").Wrap(err)
	}
	s.publish(ctx)
	return nil
}

func (s *Service) ListItems(ctx context.Context) ([]Item, error) {
	ptrs, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, apperrors.Database("failed to list media").Wrap(err)
	}
	items := make([]Item, len(ptrs))
	for i, p := range ptrs {
		items[i] = *p
	}
	return items, nil
}

func (s *Service) OnChange(fn func(items []Item)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Service) publish(ctx context.Context) {
	items, err := s.ListItems(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to load media for change notification", "error", err)
		}
		return
	}

	s.mu.Lock()
	observers := append([]func([]Item){}, s.observers...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(append([]Item(nil), items...))
	}
}
