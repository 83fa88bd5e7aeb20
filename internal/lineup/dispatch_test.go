package lineup

import (
	"context"
	"errors"
	"testing"

	"github.com/mudgear/qlineup_bot/internal/chat"
	"github.com/mudgear/qlineup_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDispatcher(store SlotStore, client chat.Client) *Dispatcher {
	board := &fakeBoard{
		locations: []model.Location{forgeLocation(), gemLocation()},
		members:   map[string]string{"stinger": "U200", "backslash": "U300"},
	}
	logger := zap.NewNop()
	return NewDispatcher(store, client, board, NewRenderer(store, logger), NewPatcher(logger), logger)
}

func claimCallback(userID string) chat.Callback {
	return chat.Callback{
		UserID:   userID,
		ActionID: "q_line_up::2022-10-06::gem",
		BlockID:  "b1",
		Ref:      chat.MessageRef{Channel: "C1", Timestamp: "1664000000.000100"},
		Document: postedDoc("gem"),
	}
}

func overflowCallback(userID, option string) chat.Callback {
	cb := claimCallback(userID)
	cb.OptionValue = option
	return cb
}

func TestHandleCallbackClaim(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	client := &fakeClient{names: map[string]string{"U200": "stinger"}}
	d := newTestDispatcher(store, client)

	err := d.HandleCallback(ctx, claimCallback("U200"))
	require.NoError(t, err)

	slot, err := store.FindBySlot(ctx, "gem", date(2022, 10, 6))
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, "stinger", slot.Claimants)
	assert.False(t, slot.Closed)

	require.Len(t, client.updated, 1)
	row := client.updated[0].Rows[0]
	assert.Equal(t, "Thu 10/06 - <@U200>", row.Text)
	assert.Equal(t, chat.ControlOverflow, row.Control.Type)

	// Untouched rows and footer survive byte-identical.
	assert.Equal(t, "Sat 10/08 - EMPTY", client.updated[0].Rows[1].Text)
	assert.Equal(t, "gem::2022-09-29::2022-10-19", client.updated[0].Rows[2].Text)
}

func TestHandleCallbackClaimTaken(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.Claim(ctx, "gem", date(2022, 10, 6), []string{"stinger"}))

	client := &fakeClient{names: map[string]string{"U300": "backslash"}}
	d := newTestDispatcher(store, client)

	err := d.HandleCallback(ctx, claimCallback("U300"))
	require.ErrorIs(t, err, ErrSlotTaken)

	// The loser does not patch, and the winner's claim stands.
	assert.Empty(t, client.updated)
	slot, _ := store.FindBySlot(ctx, "gem", date(2022, 10, 6))
	assert.Equal(t, "stinger", slot.Claimants)
}

func TestHandleCallbackClear(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.Claim(ctx, "gem", date(2022, 10, 6), []string{"stinger"}))

	client := &fakeClient{names: map[string]string{"U200": "stinger"}}
	d := newTestDispatcher(store, client)

	err := d.HandleCallback(ctx, overflowCallback("U200", OptionClear))
	require.NoError(t, err)

	slot, err := store.FindBySlot(ctx, "gem", date(2022, 10, 6))
	require.NoError(t, err)
	assert.Nil(t, slot)

	require.Len(t, client.updated, 1)
	row := client.updated[0].Rows[0]
	assert.Equal(t, "Thu 10/06 - EMPTY", row.Text)
	assert.Equal(t, chat.ControlButton, row.Control.Type)
}

func TestHandleCallbackCloseOverwritesClaimants(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.Claim(ctx, "gem", date(2022, 10, 6), []string{"stinger"}))

	client := &fakeClient{names: map[string]string{"U200": "stinger"}}
	d := newTestDispatcher(store, client)

	err := d.HandleCallback(ctx, overflowCallback("U200", OptionClose))
	require.NoError(t, err)

	slot, err := store.FindBySlot(ctx, "gem", date(2022, 10, 6))
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, model.ClosedMarker, slot.Claimants)
	assert.True(t, slot.Closed)

	require.Len(t, client.updated, 1)
	assert.Equal(t, "Thu 10/06 - closed", client.updated[0].Rows[0].Text)
}

func TestHandleCallbackGarbageTokenIgnored(t *testing.T) {
	store := newMemStore()
	client := &fakeClient{names: map[string]string{"U200": "stinger"}}
	d := newTestDispatcher(store, client)

	cb := claimCallback("U200")
	cb.ActionID = "garbage"

	err := d.HandleCallback(context.Background(), cb)
	require.NoError(t, err)

	assert.Empty(t, store.slots)
	assert.Empty(t, client.updated)
}

func TestHandleCallbackUnknownActor(t *testing.T) {
	store := newMemStore()
	client := &fakeClient{names: map[string]string{}}
	d := newTestDispatcher(store, client)

	err := d.HandleCallback(context.Background(), claimCallback("U999"))
	require.ErrorIs(t, err, ErrUnknownActor)

	assert.Empty(t, store.slots)
	assert.Empty(t, client.updated)
}

func TestHandleCallbackStoreFailureLeavesDocumentUnpatched(t *testing.T) {
	store := newMemStore()
	store.failWith = errors.New("connection refused")
	client := &fakeClient{names: map[string]string{"U200": "stinger"}}
	d := newTestDispatcher(store, client)

	err := d.HandleCallback(context.Background(), claimCallback("U200"))
	require.Error(t, err)
	assert.Empty(t, client.updated)
}

func TestHandleCallbackPatchTargetMissing(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	client := &fakeClient{names: map[string]string{"U200": "stinger"}}
	d := newTestDispatcher(store, client)

	cb := claimCallback("U200")
	cb.BlockID = "b99"

	// The mutation holds even though there is nothing to patch.
	err := d.HandleCallback(ctx, cb)
	require.NoError(t, err)

	slot, _ := store.FindBySlot(ctx, "gem", date(2022, 10, 6))
	require.NotNil(t, slot)
	assert.Empty(t, client.updated)
}

func TestHandleCallbackUpdateFailureSurfaced(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	client := &fakeClient{
		names:  map[string]string{"U200": "stinger"},
		updErr: errors.New("platform unavailable"),
	}
	d := newTestDispatcher(store, client)

	err := d.HandleCallback(ctx, claimCallback("U200"))
	require.Error(t, err)

	// The store stays correct; the board is stale until the next render.
	slot, _ := store.FindBySlot(ctx, "gem", date(2022, 10, 6))
	require.NotNil(t, slot)
	assert.Equal(t, "stinger", slot.Claimants)
}

func TestHandleCallbackUnconfiguredLocationIgnored(t *testing.T) {
	store := newMemStore()
	client := &fakeClient{names: map[string]string{"U200": "stinger"}}
	d := newTestDispatcher(store, client)

	cb := claimCallback("U200")
	cb.ActionID = "q_line_up::2022-10-06::atlantis"

	err := d.HandleCallback(context.Background(), cb)
	require.NoError(t, err)
	assert.Empty(t, store.slots)
	assert.Empty(t, client.updated)
}

func TestPostLineup(t *testing.T) {
	store := newMemStore()
	client := &fakeClient{names: map[string]string{}}
	d := newTestDispatcher(store, client)

	ref, err := d.PostLineup(context.Background(), "C1", ScopeAll, date(2022, 10, 6), date(2022, 10, 7))
	require.NoError(t, err)
	assert.Equal(t, "C1", ref.Channel)

	require.Len(t, client.posted, 1)
	doc := client.posted[0]
	// Forge and Gem both meet on Thursday, plus the footer.
	require.Len(t, doc.Rows, 3)
	assert.Equal(t, "all::2022-10-06::2022-10-07", doc.Rows[2].Text)
}

func TestPostLineupSendFailure(t *testing.T) {
	store := newMemStore()
	client := &fakeClient{postErr: errors.New("channel_not_found")}
	d := newTestDispatcher(store, client)

	_, err := d.PostLineup(context.Background(), "C1", ScopeAll, date(2022, 10, 6), date(2022, 10, 7))
	require.Error(t, err)
}
