package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/robalyx/tribunal/internal/database/types/enum"
)

// GuildBan represents a ban recorded by the bot in a guild.
type GuildBan struct {
	GuildID  uint64         // Guild the ban belongs to
	UserID   uint64         // Banned user
	Reason   string         // Free-text reason, may be empty
	BannedAt time.Time      // When the ban was issued
	Status   enum.BanStatus // Where the ban is in the unban flow
}

// MarshalRow encodes the ban as userId,reason,bannedAt[,status].
// The status column is only written when the ban is not active.
func (b *GuildBan) MarshalRow() []string {
	row := []string{formatID(b.UserID), b.Reason, formatUnix(b.BannedAt)}
	if b.Status != enum.BanStatusActive {
		row = append(row, b.Status.String())
	}
	return row
}

// UnmarshalRow decodes a ban row.
func (b *GuildBan) UnmarshalRow(guildID uint64, fields []string) error {
	if err := requireFields(fields, 3); err != nil {
		return err
	}

	userID, err := parseID(fields[0])
	if err != nil {
		return err
	}
	if userID == 0 {
		return fmt.Errorf("%w: missing user id", ErrMalformedRow)
	}

	bannedAt, err := parseUnix(fields[2])
	if err != nil {
		return err
	}

	status := enum.BanStatusActive
	if len(fields) > 3 && strings.TrimSpace(fields[3]) != "" {
		status, err = enum.BanStatusString(strings.TrimSpace(fields[3]))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedRow, err)
		}
	}

	*b = GuildBan{
		GuildID:  guildID,
		UserID:   userID,
		Reason:   fields[1],
		BannedAt: bannedAt,
		Status:   status,
	}
	return nil
}

// EligibleAt returns when the ban becomes eligible for an appeal under the given delay.
func (b *GuildBan) EligibleAt(delay time.Duration) time.Time {
	return b.BannedAt.Add(delay)
}

// IsAppealable reports whether a new appeal may be opened for this ban.
func (b *GuildBan) IsAppealable() bool {
	return b.Status == enum.BanStatusActive
}
