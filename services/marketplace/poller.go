package marketplace

import (
	"context"
	"time"
)

// MessagePoller re-fetches a chat's messages on a fixed interval. Run blocks
// until ctx is cancelled; cancelling is the caller's "unmount". Once Run
// returns, the callback is guaranteed not to fire again, so a slow fetch
// racing a navigation away can never apply a stale response.
type MessagePoller struct {
	client   *Client
	interval time.Duration
}

func NewMessagePoller(client *Client, interval time.Duration) *MessagePoller {
	return &MessagePoller{client: client, interval: interval}
}

func (p *MessagePoller) Run(ctx context.Context, token, chatID string, apply func([]Message, error)) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			msgs, err := p.client.Messages(ctx, token, chatID)
			select {
			case <-ctx.Done():
				return
			default:
			}
			apply(msgs, err)
		}
	}
}
