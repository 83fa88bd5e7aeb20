package lineup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mudgear/qlineup_bot/internal/chat"
	"github.com/mudgear/qlineup_bot/internal/model"
)

// memStore is an in-memory SlotStore with the same winner semantics as the
// database-backed store.
type memStore struct {
	mu    sync.Mutex
	slots map[string]*model.Slot

	failWith error // when set, every operation fails
}

func newMemStore() *memStore {
	return &memStore{slots: make(map[string]*model.Slot)}
}

func (s *memStore) FindBySlot(_ context.Context, location string, date time.Time) (*model.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	slot, ok := s.slots[slotKey(location, date)]
	if !ok {
		return nil, nil
	}
	copied := *slot
	return &copied, nil
}

func (s *memStore) FindRange(_ context.Context, start, end time.Time) ([]*model.Slot, error) {
	return s.findRange("", start, end)
}

func (s *memStore) FindRangeByLocation(_ context.Context, location string, start, end time.Time) ([]*model.Slot, error) {
	return s.findRange(location, start, end)
}

func (s *memStore) findRange(location string, start, end time.Time) ([]*model.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []*model.Slot
	for _, slot := range s.slots {
		if location != "" && slot.Location != location {
			continue
		}
		if slot.Date.Before(start) || !slot.Date.Before(end) {
			continue
		}
		copied := *slot
		out = append(out, &copied)
	}
	return out, nil
}

func (s *memStore) Claim(_ context.Context, location string, date time.Time, claimants []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	key := slotKey(location, date)
	if _, ok := s.slots[key]; ok {
		return fmt.Errorf("%w: %s", ErrSlotTaken, key)
	}
	s.slots[key] = &model.Slot{
		Location:  location,
		Date:      date,
		Claimants: model.JoinClaimants(claimants),
	}
	return nil
}

func (s *memStore) Close(_ context.Context, location string, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.slots[slotKey(location, date)] = &model.Slot{
		Location:  location,
		Date:      date,
		Claimants: model.ClosedMarker,
		Closed:    true,
	}
	return nil
}

func (s *memStore) Clear(_ context.Context, location string, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	delete(s.slots, slotKey(location, date))
	return nil
}

// fakeBoard implements Board over fixed locations and members.
type fakeBoard struct {
	locations []model.Location
	members   map[string]string
}

func (b *fakeBoard) Lookup(name string) (string, bool) {
	id, ok := b.members[name]
	return id, ok
}

func (b *fakeBoard) Locations() []model.Location {
	return b.locations
}

func (b *fakeBoard) Location(slug string) (model.Location, bool) {
	for _, loc := range b.locations {
		if loc.Slug == slug {
			return loc, true
		}
	}
	return model.Location{}, false
}

// fakeClient records outbound platform calls.
type fakeClient struct {
	names map[string]string // user id -> display name

	posted  []chat.Document
	updated []chat.Document
	updRefs []chat.MessageRef
	postErr error
	updErr  error
	nameErr error
}

func (c *fakeClient) PostDocument(_ context.Context, channel string, doc chat.Document) (chat.MessageRef, error) {
	if c.postErr != nil {
		return chat.MessageRef{}, c.postErr
	}
	c.posted = append(c.posted, doc)
	return chat.MessageRef{Channel: channel, Timestamp: "1664000000.000100"}, nil
}

func (c *fakeClient) UpdateDocument(_ context.Context, ref chat.MessageRef, doc chat.Document) error {
	if c.updErr != nil {
		return c.updErr
	}
	c.updated = append(c.updated, doc)
	c.updRefs = append(c.updRefs, ref)
	return nil
}

func (c *fakeClient) ResolveUserName(_ context.Context, userID string) (string, error) {
	if c.nameErr != nil {
		return "", c.nameErr
	}
	name, ok := c.names[userID]
	if !ok {
		return "", fmt.Errorf("user %s not found", userID)
	}
	return name, nil
}
