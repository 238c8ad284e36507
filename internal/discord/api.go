package discord

import (
	"errors"
	"net/http"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/tribunal/pkg/utils"
)

// API is the part of the Discord REST client used for moderation and
// notifications. rest.Rest satisfies it.
type API interface {
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
	GetMessage(channelID, messageID snowflake.ID, opts ...rest.RequestOpt) (*discord.Message, error)
	GetMessages(channelID, around, before, after snowflake.ID, limit int, opts ...rest.RequestOpt) ([]discord.Message, error)
	AddReaction(channelID, messageID snowflake.ID, emoji string, opts ...rest.RequestOpt) error
	CreateDMChannel(userID snowflake.ID, opts ...rest.RequestOpt) (*discord.DMChannel, error)
	AddBan(guildID, userID snowflake.ID, deleteMessageDuration time.Duration, opts ...rest.RequestOpt) error
	DeleteBan(guildID, userID snowflake.ID, opts ...rest.RequestOpt) error
	GetBan(guildID, userID snowflake.ID, opts ...rest.RequestOpt) (*discord.Ban, error)
	RemoveMember(guildID, userID snowflake.ID, opts ...rest.RequestOpt) error
	UpdateMember(guildID, userID snowflake.ID, memberUpdate discord.MemberUpdate, opts ...rest.RequestOpt) (*discord.Member, error)
}

// Discord JSON error codes handled by this package.
const (
	ErrorCodeUnknownChannel     rest.JSONErrorCode = 10003
	ErrorCodeUnknownMessage     rest.JSONErrorCode = 10008
	ErrorCodeUnknownBan         rest.JSONErrorCode = 10026
	ErrorCodeMissingAccess      rest.JSONErrorCode = 50001
	ErrorCodeCannotMessageUser  rest.JSONErrorCode = 50007
	ErrorCodeMissingPermissions rest.JSONErrorCode = 50013
)

// isErrorCode reports whether err is a Discord JSON error with one of the codes.
func isErrorCode(err error, codes ...rest.JSONErrorCode) bool {
	var restErr *rest.Error
	if !errors.As(err, &restErr) {
		return false
	}

	for _, code := range codes {
		if restErr.Code == code {
			return true
		}
	}
	return false
}

// classify marks client errors as permanent so they are not retried.
// Rate limits are retried by the REST client itself.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var restErr *rest.Error
	if !errors.As(err, &restErr) {
		return err
	}

	if restErr.Code != 0 {
		return utils.Permanent(err)
	}
	if restErr.Response != nil &&
		restErr.Response.StatusCode >= http.StatusBadRequest &&
		restErr.Response.StatusCode < http.StatusInternalServerError {
		return utils.Permanent(err)
	}

	return err
}
