package appeal

import (
	"context"
	"time"

	"github.com/robalyx/tribunal/internal/database/types/enum"
)

// Dispatcher sends messages and reads poll reactions on the chat platform.
type Dispatcher interface {
	// PostMessage sends text to a channel and returns the new message ID.
	PostMessage(ctx context.Context, channelID uint64, text string) (uint64, error)
	// AddReaction reacts to a message with a unicode emoji.
	AddReaction(ctx context.Context, channelID, messageID uint64, emoji string) error
	// ReactionCounts returns the number of users per emoji on a message,
	// not counting the bot's own reactions. An error wrapping
	// types.ErrPollGone means the message will never be readable again.
	ReactionCounts(ctx context.Context, channelID, messageID uint64) (map[string]int, error)
	// SendDirectMessage sends text to a user. Delivery is best effort.
	SendDirectMessage(ctx context.Context, userID uint64, text string) error
	// FindMessage searches recent bot messages in a channel, sent at or after
	// since, for one containing text.
	FindMessage(ctx context.Context, channelID uint64, contains string, since time.Time) (uint64, bool, error)
}

// Moderator performs moderation actions on the chat platform.
type Moderator interface {
	// Unban lifts a platform ban. Unbanning a user who is not banned succeeds.
	Unban(ctx context.Context, guildID, userID uint64, reason string) error
	// Ban bans a user, deleting their recent message history.
	Ban(ctx context.Context, guildID, userID uint64, deleteHistory time.Duration, reason string) error
	// Kick removes a member from the guild.
	Kick(ctx context.Context, guildID, userID uint64, reason string) error
	// Timeout prevents a member from interacting until the given time.
	Timeout(ctx context.Context, guildID, userID uint64, until time.Time, reason string) error
	// IsBanned reports whether the user is currently banned on the platform.
	IsBanned(ctx context.Context, guildID, userID uint64) (bool, error)
}

// ChannelResolver maps a logical channel role to a channel ID.
type ChannelResolver interface {
	ResolveChannel(ctx context.Context, guildID uint64, role enum.ChannelRole) (uint64, bool)
}
