package discord

import (
	"context"

	"github.com/disgoorg/disgo/gateway"
	"github.com/robalyx/tribunal/internal/worker/status"
)

// PresenceClient updates the gateway presence. bot.Client satisfies it.
type PresenceClient interface {
	SetPresence(ctx context.Context, opts ...gateway.PresenceOpt) error
}

// Presence shows activities through the gateway.
type Presence struct {
	client PresenceClient
}

// NewPresence creates a presence updater.
func NewPresence(client PresenceClient) *Presence {
	return &Presence{client: client}
}

// SetActivity implements status.Presence.
func (p *Presence) SetActivity(ctx context.Context, kind status.ActivityKind, name string) error {
	opt := gateway.WithPlayingActivity(name)
	if kind == status.ActivityWatching {
		opt = gateway.WithWatchingActivity(name)
	}
	return p.client.SetPresence(ctx, opt)
}
