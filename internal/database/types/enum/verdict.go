package enum

// Verdict is the outcome of a closed appeal poll.
//
//go:generate go tool enumer -type=Verdict -trimprefix=Verdict -transform=snake
type Verdict int

const (
	// VerdictUnban lifts the ban.
	VerdictUnban Verdict = iota
	// VerdictUphold keeps the ban after a decisive vote.
	VerdictUphold
	// VerdictInsufficientVotes keeps the ban because quorum was not reached.
	VerdictInsufficientVotes
)
