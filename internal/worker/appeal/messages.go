package appeal

import (
	"fmt"
	"time"

	"github.com/robalyx/tribunal/internal/database/types"
	"github.com/robalyx/tribunal/internal/database/types/enum"
)

// Mention formats a user mention.
func Mention(userID uint64) string {
	return fmt.Sprintf("<@%d>", userID)
}

// pollMarker is the prefix shared by every poll for a user.
func pollMarker(userID uint64) string {
	return fmt.Sprintf("Automatic Appeal\nUser %s was banned", Mention(userID))
}

// pollText is the poll posted to the staff channel.
func pollText(ban *types.GuildBan, now time.Time) string {
	days := int(now.Sub(ban.BannedAt) / (24 * time.Hour))

	reason := ""
	if ban.Reason != "" {
		reason = " for " + ban.Reason
	}

	return fmt.Sprintf("%s %d days ago%s. Vote for appeal:", pollMarker(ban.UserID), days, reason)
}

// verdictText is the staff announcement of a closed poll.
func verdictText(verdict enum.Verdict, userID uint64) string {
	switch verdict {
	case enum.VerdictUnban:
		return fmt.Sprintf("Appeal successful. %s has been unbanned.", Mention(userID))
	case enum.VerdictUphold:
		return fmt.Sprintf("Appeal unsuccessful. %s will not be unbanned.", Mention(userID))
	default:
		return fmt.Sprintf("Not enough votes. %s not unbanned.", Mention(userID))
	}
}

func pollGoneText(userID uint64) string {
	return fmt.Sprintf("The appeal poll for %s is no longer available. A new poll will be opened.", Mention(userID))
}

func unbanFailedText(userID uint64) string {
	return fmt.Sprintf("Failed to unban %s after the appeal. The unban will be retried.", Mention(userID))
}

func manualUnbanText(userID uint64) string {
	return fmt.Sprintf("Unban of %s failed again. A manual unban is required.", Mention(userID))
}

func retrySucceededText(userID uint64) string {
	return fmt.Sprintf("Retried unban of %s succeeded.", Mention(userID))
}

func mainAnnouncementText(userID uint64) string {
	return fmt.Sprintf("%s has been unbanned after a successful appeal.", Mention(userID))
}

const directMessageText = "Your ban appeal was successful and you have been unbanned."
