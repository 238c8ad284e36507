package types

import (
	"time"

	"github.com/robalyx/tribunal/internal/database/types/enum"
)

const (
	// SettingDisabled is reported for settings that are missing or unreadable.
	SettingDisabled int64 = -1
	// MaxAppealDelay is the longest accepted appeal delay.
	MaxAppealDelay = 366 * 24 * time.Hour
)

// GuildSettings holds the per-guild moderation settings.
type GuildSettings struct {
	GuildID            uint64        // Guild the settings belong to
	AppealDelay        time.Duration // Time after a ban before an appeal opens, 0 disables appeals
	AnnounceInMain     bool          // Whether unbans are announced in the main channel
	NotifyByDM         bool          // Whether unbanned users are sent a direct message
	VerificationDelay  time.Duration // Time before a new member is verified
	VerificationRoleID uint64        // Role granted on verification
}

// MarshalRow encodes the settings as
// appealDelay,announceMain,notifyDM,verificationDelay,verificationRoleId.
func (s *GuildSettings) MarshalRow() []string {
	return []string{
		formatSeconds(s.AppealDelay),
		formatFlag(s.AnnounceInMain),
		formatFlag(s.NotifyByDM),
		formatSeconds(s.VerificationDelay),
		formatID(s.VerificationRoleID),
	}
}

// UnmarshalRow decodes a settings row. Three-column rows written before the
// verification fields existed decode with those fields zero. Stored delays
// are clamped to [0, MaxAppealDelay].
func (s *GuildSettings) UnmarshalRow(guildID uint64, fields []string) error {
	if err := requireFields(fields, 3); err != nil {
		return err
	}

	next := GuildSettings{GuildID: guildID}

	var err error
	if next.AppealDelay, err = parseSeconds(fields[0], MaxAppealDelay); err != nil {
		return err
	}
	if next.AnnounceInMain, err = parseFlag(fields[1]); err != nil {
		return err
	}
	if next.NotifyByDM, err = parseFlag(fields[2]); err != nil {
		return err
	}

	if len(fields) > 3 {
		if next.VerificationDelay, err = parseSeconds(fields[3], MaxAppealDelay); err != nil {
			return err
		}
	}
	if len(fields) > 4 {
		if next.VerificationRoleID, err = parseID(fields[4]); err != nil {
			return err
		}
	}

	*s = next
	return nil
}

// Field returns the raw integer value of a settings column.
// Unknown fields report SettingDisabled.
func (s *GuildSettings) Field(field enum.SettingField) int64 {
	switch field {
	case enum.SettingFieldAppealDelay:
		return int64(s.AppealDelay / time.Second)
	case enum.SettingFieldAnnounceInMain:
		return boolToInt(s.AnnounceInMain)
	case enum.SettingFieldNotifyByDM:
		return boolToInt(s.NotifyByDM)
	case enum.SettingFieldVerificationDelay:
		return int64(s.VerificationDelay / time.Second)
	case enum.SettingFieldVerificationRole:
		return int64(s.VerificationRoleID) //nolint:gosec // role ids fit in int64
	default:
		return SettingDisabled
	}
}

// AppealsEnabled reports whether automatic appeals are turned on.
func (s *GuildSettings) AppealsEnabled() bool {
	return s.AppealDelay > 0
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
