package enum

// Kind identifies one of the record containers kept per guild.
//
//go:generate go tool enumer -type=Kind -trimprefix=Kind -transform=snake
type Kind int

const (
	// KindBan holds the guild's live bans.
	KindBan Kind = iota
	// KindAppeal holds the guild's open appeal polls.
	KindAppeal
	// KindSettings holds the single guild settings row.
	KindSettings
	// KindChannels holds the single channel-role mapping row.
	KindChannels
)
