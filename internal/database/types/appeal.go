package types

import (
	"fmt"
	"time"
)

// GuildAppeal represents an open appeal poll for a banned user.
type GuildAppeal struct {
	GuildID       uint64    // Guild the appeal belongs to
	UserID        uint64    // User being appealed
	PollMessageID uint64    // Poll message in the staff channel, 0 while the poll is not yet posted
	ExpiresAt     time.Time // When voting closes
}

// MarshalRow encodes the appeal as pollMessageId,expiresAt,userId.
func (a *GuildAppeal) MarshalRow() []string {
	return []string{formatID(a.PollMessageID), formatUnix(a.ExpiresAt), formatID(a.UserID)}
}

// UnmarshalRow decodes an appeal row.
func (a *GuildAppeal) UnmarshalRow(guildID uint64, fields []string) error {
	if err := requireFields(fields, 3); err != nil {
		return err
	}

	pollID, err := parseID(fields[0])
	if err != nil {
		return err
	}

	expiresAt, err := parseUnix(fields[1])
	if err != nil {
		return err
	}

	userID, err := parseID(fields[2])
	if err != nil {
		return err
	}
	if userID == 0 {
		return fmt.Errorf("%w: missing user id", ErrMalformedRow)
	}

	*a = GuildAppeal{
		GuildID:       guildID,
		UserID:        userID,
		PollMessageID: pollID,
		ExpiresAt:     expiresAt,
	}
	return nil
}

// IsTentative reports whether the appeal was persisted before its poll was posted.
func (a *GuildAppeal) IsTentative() bool {
	return a.PollMessageID == 0
}

// IsExpired reports whether voting has closed at the given time.
func (a *GuildAppeal) IsExpired(now time.Time) bool {
	return !a.ExpiresAt.After(now)
}
