package chat

import "context"

// Client is the outbound chat platform boundary. All calls are fallible
// remote calls; callers decide what a failure means for their own state.
type Client interface {
	// PostDocument sends a new document to a conversation and returns the
	// reference needed to update it later.
	PostDocument(ctx context.Context, channel string, doc Document) (MessageRef, error)

	// UpdateDocument replaces the content of an already-posted message.
	UpdateDocument(ctx context.Context, ref MessageRef, doc Document) error

	// ResolveUserName resolves a platform user id to a display name.
	ResolveUserName(ctx context.Context, userID string) (string, error)
}

// Callback is the payload of a user interaction with a posted document, as
// delivered by the platform. The document snapshot is the platform's current
// view, not ours; the action and option values carry the entire interaction
// context.
type Callback struct {
	UserID      string
	ActionID    string
	OptionValue string // selected overflow option value; empty for buttons
	BlockID     string // row the actioned control lives on
	Ref         MessageRef
	Document    Document
}
