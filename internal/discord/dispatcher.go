package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/tribunal/internal/database/types"
	"github.com/robalyx/tribunal/pkg/utils"
	"go.uber.org/zap"
)

// historyLimit is how many recent messages are searched for an existing poll.
const historyLimit = 100

// Dispatcher posts messages and reads reactions over the REST API.
type Dispatcher struct {
	api    API
	selfID func() snowflake.ID
	retry  utils.RetryOptions
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher. selfID returns the bot's user ID and is
// used to tell the bot's own messages apart.
func NewDispatcher(api API, selfID func() snowflake.ID, logger *zap.Logger) *Dispatcher {
	logger = logger.Named("discord_dispatcher")
	return &Dispatcher{
		api:    api,
		selfID: selfID,
		retry:  retryOptions(logger),
		logger: logger,
	}
}

// PostMessage sends text to a channel. Mentions in the text do not ping.
func (d *Dispatcher) PostMessage(ctx context.Context, channelID uint64, text string) (uint64, error) {
	create := discord.NewMessageCreateBuilder().
		SetContent(text).
		SetAllowedMentions(&discord.AllowedMentions{}).
		Build()

	message, err := utils.WithRetry(ctx, func() (*discord.Message, error) {
		message, err := d.api.CreateMessage(snowflake.ID(channelID), create, rest.WithCtx(ctx))
		return message, classify(err)
	}, d.retry)
	if err != nil {
		return 0, fmt.Errorf("failed to post message to channel %d: %w", channelID, err)
	}

	return uint64(message.ID), nil
}

// AddReaction reacts to a message with a unicode emoji.
func (d *Dispatcher) AddReaction(ctx context.Context, channelID, messageID uint64, emoji string) error {
	err := utils.Retry(ctx, func() error {
		return classify(d.api.AddReaction(snowflake.ID(channelID), snowflake.ID(messageID), emoji, rest.WithCtx(ctx)))
	}, d.retry)
	if err != nil {
		return fmt.Errorf("failed to add reaction to message %d: %w", messageID, err)
	}
	return nil
}

// ReactionCounts returns the number of users per emoji on a message, not
// counting the bot's own reactions. A deleted or unreadable message yields
// an error wrapping types.ErrPollGone.
func (d *Dispatcher) ReactionCounts(ctx context.Context, channelID, messageID uint64) (map[string]int, error) {
	message, err := utils.WithRetry(ctx, func() (*discord.Message, error) {
		message, err := d.api.GetMessage(snowflake.ID(channelID), snowflake.ID(messageID), rest.WithCtx(ctx))
		return message, classify(err)
	}, d.retry)
	if isErrorCode(err, ErrorCodeUnknownMessage, ErrorCodeUnknownChannel, ErrorCodeMissingAccess) {
		return nil, fmt.Errorf("failed to fetch message %d: %w: %w", messageID, types.ErrPollGone, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message %d: %w", messageID, err)
	}

	counts := make(map[string]int, len(message.Reactions))
	for _, reaction := range message.Reactions {
		if reaction.Emoji.Name == "" {
			continue
		}

		count := reaction.Count
		if reaction.Me {
			count--
		}
		counts[reaction.Emoji.Name] += max(count, 0)
	}

	return counts, nil
}

// SendDirectMessage sends text to a user. Users with closed DMs are logged
// and not treated as an error.
func (d *Dispatcher) SendDirectMessage(ctx context.Context, userID uint64, text string) error {
	channel, err := d.api.CreateDMChannel(snowflake.ID(userID), rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel with %d: %w", userID, err)
	}

	_, err = d.api.CreateMessage(channel.ID(), discord.NewMessageCreateBuilder().SetContent(text).Build(), rest.WithCtx(ctx))
	if isErrorCode(err, ErrorCodeCannotMessageUser) {
		d.logger.Debug("User does not accept direct messages", zap.Uint64("userID", userID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to send DM to %d: %w", userID, err)
	}

	return nil
}

// FindMessage searches the recent messages of a channel for one sent by the
// bot at or after since that contains the given text.
func (d *Dispatcher) FindMessage(
	ctx context.Context, channelID uint64, contains string, since time.Time,
) (uint64, bool, error) {
	messages, err := utils.WithRetry(ctx, func() ([]discord.Message, error) {
		messages, err := d.api.GetMessages(snowflake.ID(channelID), 0, 0, 0, historyLimit, rest.WithCtx(ctx))
		return messages, classify(err)
	}, d.retry)
	if err != nil {
		return 0, false, fmt.Errorf("failed to fetch history of channel %d: %w", channelID, err)
	}

	self := d.selfID()
	for _, message := range messages {
		if message.Author.ID != self || message.ID.Time().Before(since) {
			continue
		}
		if strings.Contains(message.Content, contains) {
			return uint64(message.ID), true, nil
		}
	}

	return 0, false, nil
}
