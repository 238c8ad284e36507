package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/robalyx/tribunal/internal/bot/constants"
	"github.com/robalyx/tribunal/internal/database/types/enum"
	"github.com/robalyx/tribunal/internal/worker/appeal"
)

const (
	infoType        = "info"
	maxReasonLength = 400
)

// channelRoleOrder lists the roles in the order shown to users.
var channelRoleOrder = []enum.ChannelRole{
	enum.ChannelRoleMain,
	enum.ChannelRoleAnnouncement,
	enum.ChannelRoleStaff,
	enum.ChannelRoleLogging,
	enum.ChannelRoleRules,
}

var channelRoleUsage = map[enum.ChannelRole]string{
	enum.ChannelRoleMain:         "welcomes, farewells and ban announcements",
	enum.ChannelRoleAnnouncement: "server announcements",
	enum.ChannelRoleStaff:        "appeal polls and their results",
	enum.ChannelRoleLogging:      "moderation logs",
	enum.ChannelRoleRules:        "server rules",
}

// ParseChannelRole maps a /set type to a channel role. Only the first
// letter counts, so "m", "main" and "mod" all select the main channel.
func ParseChannelRole(kind string) (enum.ChannelRole, bool) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return 0, false
	}

	for _, role := range channelRoleOrder {
		if role.String()[0] == kind[0] {
			return role, true
		}
	}
	return 0, false
}

// InfoText lists the channel roles accepted by /set.
func InfoText() string {
	var b strings.Builder
	b.WriteString("Use `/set <type> <channel>` with one of the following types:")
	for _, role := range channelRoleOrder {
		name := role.String()
		fmt.Fprintf(&b, "\n`%c` %s: %s", name[0], name, channelRoleUsage[role])
	}
	return b.String()
}

// AppealDelayErrorText is the reply to an out of range /banappealset value.
func AppealDelayErrorText(days int) string {
	return fmt.Sprintf(
		"Erroneous duration - %d is not a valid duration. Input a number between 0 and %d.",
		days, constants.MaxAppealDays,
	)
}

func reasonSuffix(reason string) string {
	if reason == "" {
		return ". No reason was provided."
	}
	return ". Reason: " + reason
}

func banDMText(guildName string, moderatorID uint64, reason string) string {
	return fmt.Sprintf("You have been banned from %s by %s%s",
		guildName, appeal.Mention(moderatorID), reasonSuffix(reason))
}

func kickDMText(guildName string, moderatorID uint64, reason string) string {
	return fmt.Sprintf("You have been kicked from %s by %s%s",
		guildName, appeal.Mention(moderatorID), reasonSuffix(reason))
}

func timeoutDMText(guildName string, moderatorID uint64, d time.Duration, reason string) string {
	return fmt.Sprintf("You have been timed out in %s for %s by %s%s",
		guildName, d, appeal.Mention(moderatorID), reasonSuffix(reason))
}

func unbanDMText(guildName string) string {
	return fmt.Sprintf("You have been unbanned from %s. Welcome back!", guildName)
}

func banAnnouncementText(userID uint64, guildName string) string {
	return fmt.Sprintf("The user %s has been banned from %s.", appeal.Mention(userID), guildName)
}

func auditReason(action string, moderatorID uint64, reason string) string {
	if reason == "" {
		return fmt.Sprintf("%s by %d", action, moderatorID)
	}
	return fmt.Sprintf("%s by %d: %s", action, moderatorID, reason)
}
