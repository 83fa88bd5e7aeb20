package chat

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryingClient decorates a Client with bounded exponential backoff on the
// outbound message calls. User resolution is a cheap point lookup inside a
// callback deadline and is not retried.
type RetryingClient struct {
	inner       Client
	maxRetries  uint64
	baseBackoff time.Duration
}

func NewRetryingClient(inner Client) *RetryingClient {
	return &RetryingClient{
		inner:       inner,
		maxRetries:  3,
		baseBackoff: 200 * time.Millisecond,
	}
}

func (c *RetryingClient) backoff() retry.Backoff {
	return retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.baseBackoff))
}

func (c *RetryingClient) PostDocument(ctx context.Context, channel string, doc Document) (MessageRef, error) {
	var ref MessageRef
	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		var err error
		ref, err = c.inner.PostDocument(ctx, channel, doc)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	return ref, err
}

func (c *RetryingClient) UpdateDocument(ctx context.Context, ref MessageRef, doc Document) error {
	return retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		if err := c.inner.UpdateDocument(ctx, ref, doc); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (c *RetryingClient) ResolveUserName(ctx context.Context, userID string) (string, error) {
	return c.inner.ResolveUserName(ctx, userID)
}
