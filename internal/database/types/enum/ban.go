package enum

// BanStatus tracks where a ban record is in the unban flow.
//
//go:generate go tool enumer -type=BanStatus -trimprefix=BanStatus -transform=snake
type BanStatus int

const (
	// BanStatusActive is a ban that can still be appealed.
	BanStatusActive BanStatus = iota
	// BanStatusUnbanFailed is a ban whose appeal passed but the platform unban failed once.
	BanStatusUnbanFailed
	// BanStatusManualUnban is a ban that needs a moderator to unban by hand.
	BanStatusManualUnban
	// BanStatusUpheld is a ban whose appeal was voted down or lacked votes.
	BanStatusUpheld
)
