package lineup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mudgear/qlineup_bot/internal/chat"
	"github.com/mudgear/qlineup_bot/internal/model"
	"go.uber.org/zap"
)

// Board provides the configured locations plus the member directory, as a
// read-mostly snapshot injected into the dispatcher and renderer.
type Board interface {
	Directory
	Locations() []model.Location
	Location(slug string) (model.Location, bool)
}

// Dispatcher processes sign-up callbacks end to end: decode the token,
// mutate the store, patch the one changed row of the live document.
type Dispatcher struct {
	store    SlotStore
	client   chat.Client
	board    Board
	renderer *Renderer
	patcher  *Patcher
	logger   *zap.Logger
}

func NewDispatcher(
	store SlotStore,
	client chat.Client,
	board Board,
	renderer *Renderer,
	patcher *Patcher,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		store:    store,
		client:   client,
		board:    board,
		renderer: renderer,
		patcher:  patcher,
		logger:   logger,
	}
}

func (d *Dispatcher) codec() TokenCodec {
	return TokenCodec{
		KnownLocation: func(slug string) bool {
			_, ok := d.board.Location(slug)
			return ok
		},
	}
}

// PostLineup renders the board for a scope and date range and sends it to a
// conversation. The returned reference addresses the message for later
// patches.
func (d *Dispatcher) PostLineup(ctx context.Context, channel, scope string, start, end time.Time) (chat.MessageRef, error) {
	doc, err := d.renderer.Render(ctx, d.board.Locations(), d.board, scope, start, end)
	if err != nil {
		return chat.MessageRef{}, err
	}

	ref, err := d.client.PostDocument(ctx, channel, doc)
	if err != nil {
		return chat.MessageRef{}, fmt.Errorf("post line-up: %w", err)
	}

	d.logger.Info("Line-up posted",
		zap.String("channel", channel),
		zap.String("scope", scope),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("rows", len(doc.Rows)))

	return ref, nil
}

// HandleCallback processes one interaction callback. The store mutation
// always happens before the document patch; if the mutation fails the
// document is left alone and the error is surfaced so the platform can show
// a transient failure to the user.
func (d *Dispatcher) HandleCallback(ctx context.Context, cb chat.Callback) error {
	log := d.logger.With(
		zap.String("interaction_id", uuid.NewString()),
		zap.String("user_id", cb.UserID),
		zap.String("action_id", cb.ActionID))

	token := d.codec().Decode(tokenString(cb))
	if token.Kind == KindUnknown {
		// Untrusted input; drop it rather than fail the callback.
		log.Warn("Ignoring callback with unparseable token",
			zap.String("option", cb.OptionValue))
		return nil
	}

	loc, ok := d.board.Location(token.Location)
	if !ok {
		log.Warn("Ignoring callback for unconfigured location",
			zap.String("location", token.Location))
		return nil
	}

	log = log.With(
		zap.String("kind", token.Kind.String()),
		zap.String("location", token.Location),
		zap.Time("date", token.Date))

	actor, err := d.client.ResolveUserName(ctx, cb.UserID)
	if err != nil {
		log.Error("Failed to resolve acting user", zap.Error(err))
		return fmt.Errorf("%w: %s", ErrUnknownActor, cb.UserID)
	}

	slot, err := d.mutate(ctx, token, actor)
	if err != nil {
		log.Warn("Store mutation rejected; document left unpatched", zap.Error(err))
		return err
	}

	log.Info("Slot mutated", zap.String("actor", actor))

	patched, ok := d.patcher.Apply(cb.Document, cb.BlockID, loc, token.Date, slot, d.board)
	if !ok {
		// Store is already correct; the board reconciles on the next render.
		return nil
	}

	if err := d.client.UpdateDocument(ctx, cb.Ref, patched); err != nil {
		log.Error("Store updated but document update failed; board is stale until the next render",
			zap.Error(err))
		return fmt.Errorf("update document: %w", err)
	}

	return nil
}

// mutate applies the token's operation to the store and returns the slot's
// new state for patching: nil means the slot is open again.
func (d *Dispatcher) mutate(ctx context.Context, token Token, actor string) (*model.Slot, error) {
	switch token.Kind {
	case KindClaim:
		// Pre-check for the common case; the insert inside Claim remains
		// the final arbiter under concurrent callbacks.
		existing, err := d.store.FindBySlot(ctx, token.Location, token.Date)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: %s %s", ErrSlotTaken, token.Location, token.Date.Format(dateLayout))
		}

		if err := d.store.Claim(ctx, token.Location, token.Date, []string{actor}); err != nil {
			return nil, err
		}
		return &model.Slot{
			Location:  token.Location,
			Date:      token.Date,
			Claimants: actor,
		}, nil

	case KindClearOverflow:
		if err := d.store.Clear(ctx, token.Location, token.Date); err != nil {
			return nil, err
		}
		return nil, nil

	case KindCloseOverflow:
		if err := d.store.Close(ctx, token.Location, token.Date); err != nil {
			return nil, err
		}
		return &model.Slot{
			Location:  token.Location,
			Date:      token.Date,
			Claimants: model.ClosedMarker,
			Closed:    true,
		}, nil

	default:
		return nil, fmt.Errorf("unhandled token kind %s", token.Kind)
	}
}

// tokenString reassembles the full token for overflow selections, whose
// option value ("Clear"/"Close") arrives separately from the action id.
func tokenString(cb chat.Callback) string {
	if cb.OptionValue == "" {
		return cb.ActionID
	}
	return strings.ToLower(cb.OptionValue) + tokenDelim + cb.ActionID
}
