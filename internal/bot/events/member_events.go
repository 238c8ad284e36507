package events

import (
	"context"
	"fmt"

	"github.com/robalyx/tribunal/internal/database/types/enum"
	"github.com/robalyx/tribunal/internal/worker/appeal"
	"go.uber.org/zap"
)

// MemberEventHandler greets members and says goodbye in the main channel.
type MemberEventHandler struct {
	channels   appeal.ChannelResolver
	dispatcher appeal.Dispatcher
	moderator  appeal.Moderator
	logger     *zap.Logger
}

// NewMemberEventHandler creates a new member event handler.
func NewMemberEventHandler(
	channels appeal.ChannelResolver,
	dispatcher appeal.Dispatcher,
	moderator appeal.Moderator,
	logger *zap.Logger,
) *MemberEventHandler {
	return &MemberEventHandler{
		channels:   channels,
		dispatcher: dispatcher,
		moderator:  moderator,
		logger:     logger.Named("member_events"),
	}
}

// WelcomeText greets a member who joined.
func WelcomeText(userID uint64) string {
	return appeal.Mention(userID) + " Welcome!"
}

// FarewellText says goodbye to a member who left.
func FarewellText(userID uint64) string {
	return fmt.Sprintf("%s has left our server. We hope to see you again.", appeal.Mention(userID))
}

// OnMemberJoin welcomes a member in the main channel.
func (h *MemberEventHandler) OnMemberJoin(ctx context.Context, guildID, userID uint64) {
	h.postMain(ctx, guildID, WelcomeText(userID))
}

// OnMemberLeave says goodbye unless the member left because of a ban. When
// the ban list cannot be read no message is sent.
func (h *MemberEventHandler) OnMemberLeave(ctx context.Context, guildID, userID uint64) {
	banned, err := h.moderator.IsBanned(ctx, guildID, userID)
	if err != nil {
		h.logger.Warn("Failed to check ban for departed member",
			zap.Uint64("guildID", guildID),
			zap.Uint64("userID", userID),
			zap.Error(err))
		return
	}

	if banned {
		return
	}

	h.postMain(ctx, guildID, FarewellText(userID))
}

func (h *MemberEventHandler) postMain(ctx context.Context, guildID uint64, text string) {
	channelID, ok := h.channels.ResolveChannel(ctx, guildID, enum.ChannelRoleMain)
	if !ok {
		return
	}

	if _, err := h.dispatcher.PostMessage(ctx, channelID, text); err != nil {
		h.logger.Warn("Failed to post member message",
			zap.Uint64("guildID", guildID),
			zap.Uint64("channelID", channelID),
			zap.Error(err))
	}
}
