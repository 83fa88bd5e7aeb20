package lineup

import (
	"context"
	"fmt"
	"time"

	"github.com/mudgear/qlineup_bot/internal/chat"
	"github.com/mudgear/qlineup_bot/internal/model"
	"go.uber.org/zap"
)

// maxDocumentRows is the platform's hard cap on blocks per message. The
// renderer truncates rather than exceed it, always leaving room for the
// footer row.
const maxDocumentRows = 50

const displayDateLayout = "Mon 01/02"

// Overflow option values are an exact external contract; downstream
// handling matches these strings literally.
const (
	OptionClear = "Clear"
	OptionClose = "Close"
)

const emptySlotText = "EMPTY"

// Renderer builds the sign-up board document from store contents: one row
// per open weekday/location in a date range, plus the trailing footer.
type Renderer struct {
	store  SlotStore
	logger *zap.Logger
}

func NewRenderer(store SlotStore, logger *zap.Logger) *Renderer {
	return &Renderer{store: store, logger: logger}
}

// Render walks each calendar day in [start, end) and emits a row for every
// (day, location) pair whose weekly schedule meets that weekday. Scope is a
// location slug for a single-location board or ScopeAll for every location
// in locations.
func (r *Renderer) Render(ctx context.Context, locations []model.Location, dir Directory, scope string, start, end time.Time) (chat.Document, error) {
	slots, err := r.fetch(ctx, scope, start, end)
	if err != nil {
		return chat.Document{}, err
	}

	bySlot := make(map[string]*model.Slot, len(slots))
	for _, slot := range slots {
		bySlot[slotKey(slot.Location, slot.Date)] = slot
	}

	builder := chat.NewBuilder()
	truncated := false

days:
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		for i := range locations {
			loc := locations[i]
			if scope != ScopeAll && loc.Slug != scope {
				continue
			}
			if !loc.MeetsOn(day.Weekday()) {
				continue
			}
			if builder.Len() >= maxDocumentRows-1 {
				truncated = true
				break days
			}

			text, control := rowContent(scope, loc, day, bySlot[slotKey(loc.Slug, day)], dir)
			builder.Row(text, control)
		}
	}

	if truncated {
		r.logger.Warn("Line-up truncated at platform row limit",
			zap.String("scope", scope),
			zap.Time("start", start),
			zap.Time("end", end),
			zap.Int("rows", builder.Len()))
	}

	builder.TextRow(EncodeFooter(Footer{Scope: scope, Start: start, End: end}))

	return builder.Build(), nil
}

func (r *Renderer) fetch(ctx context.Context, scope string, start, end time.Time) ([]*model.Slot, error) {
	if scope == ScopeAll {
		slots, err := r.store.FindRange(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("render line-up: %w", err)
		}
		return slots, nil
	}

	slots, err := r.store.FindRangeByLocation(ctx, scope, start, end)
	if err != nil {
		return nil, fmt.Errorf("render line-up: %w", err)
	}
	return slots, nil
}

// rowContent produces the display text and control for one (location, day)
// slot. An open slot gets a claim button; a claimed or closed slot gets the
// Clear/Close overflow menu. In the all-locations view the location name is
// prefixed inline; in a single-location view the header already implies it.
func rowContent(scope string, loc model.Location, day time.Time, slot *model.Slot, dir Directory) (string, *chat.Control) {
	prefix := ""
	if scope == ScopeAll {
		prefix = loc.Name + " "
	}

	claimToken := EncodeToken(KindClaim, day, loc.Slug)

	if slot == nil {
		text := fmt.Sprintf("%s%s - %s", prefix, day.Format(displayDateLayout), emptySlotText)
		return text, chat.Button("Sign Up", claimToken)
	}

	display := slot.Claimants
	if !slot.Closed {
		display = Linkify(slot.Claimants, dir)
	}
	text := fmt.Sprintf("%s%s - %s", prefix, day.Format(displayDateLayout), display)

	menu := chat.Overflow(claimToken,
		chat.Option{Label: OptionClear, Value: OptionClear},
		chat.Option{Label: OptionClose, Value: OptionClose},
	)
	return text, menu
}

func slotKey(location string, date time.Time) string {
	return location + "|" + date.Format(dateLayout)
}
