package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mudgear/qlineup_bot/internal/model"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// MemberSource loads the community member directory.
type MemberSource interface {
	ListActive(ctx context.Context) ([]*model.Member, error)
}

// LocationSource loads the configured locations.
type LocationSource interface {
	ListActive(ctx context.Context) ([]*model.Location, error)
}

// Directory is a read-mostly snapshot of members and locations, refreshed
// on a cron schedule and handed to the renderer and dispatcher explicitly.
// It replaces mutation of shared maps behind ambient locks; readers only
// ever see a complete snapshot. Implements lineup.Board.
type Directory struct {
	members   MemberSource
	locations LocationSource
	logger    *zap.Logger
	cron      *cron.Cron

	mu      sync.RWMutex
	byName  map[string]string
	bySlug  map[string]model.Location
	ordered []model.Location
}

func NewDirectory(members MemberSource, locations LocationSource, logger *zap.Logger) *Directory {
	return &Directory{
		members:   members,
		locations: locations,
		logger:    logger,
		cron:      cron.New(),
		byName:    make(map[string]string),
		bySlug:    make(map[string]model.Location),
	}
}

// Refresh reloads both snapshots from the database. The swap is atomic from
// a reader's point of view.
func (d *Directory) Refresh(ctx context.Context) error {
	members, err := d.members.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("refresh directory: %w", err)
	}

	locations, err := d.locations.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("refresh directory: %w", err)
	}

	byName := make(map[string]string, len(members))
	for _, m := range members {
		byName[strings.ToLower(m.Name)] = m.PlatformID
	}

	bySlug := make(map[string]model.Location, len(locations))
	ordered := make([]model.Location, 0, len(locations))
	for _, loc := range locations {
		bySlug[loc.Slug] = *loc
		ordered = append(ordered, *loc)
	}

	d.mu.Lock()
	d.byName = byName
	d.bySlug = bySlug
	d.ordered = ordered
	d.mu.Unlock()

	d.logger.Info("Directory refreshed",
		zap.Int("members", len(members)),
		zap.Int("locations", len(locations)))

	return nil
}

// Start schedules periodic refreshes, e.g. spec "@every 1h".
func (d *Directory) Start(spec string) error {
	_, err := d.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := d.Refresh(ctx); err != nil {
			d.logger.Error("Scheduled directory refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule directory refresh: %w", err)
	}

	d.cron.Start()
	d.logger.Info("Directory refresh scheduled", zap.String("spec", spec))
	return nil
}

// Stop halts the refresh schedule and waits for a running refresh.
func (d *Directory) Stop() {
	<-d.cron.Stop().Done()
}

// Lookup resolves a community nickname to a platform user id.
func (d *Directory) Lookup(name string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byName[strings.ToLower(name)]
	return id, ok
}

// Locations returns the configured locations in slug order.
func (d *Directory) Locations() []model.Location {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ordered
}

// Location returns one configured location by slug.
func (d *Directory) Location(slug string) (model.Location, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	loc, ok := d.bySlug[slug]
	return loc, ok
}
