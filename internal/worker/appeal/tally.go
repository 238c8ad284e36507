package appeal

import (
	"time"

	"github.com/robalyx/tribunal/internal/database/types/enum"
)

const (
	// VotingWindow is how long an appeal poll stays open.
	VotingWindow = 86375 * time.Second
	// MinimumVotes is the number of votes needed for a decisive verdict.
	MinimumVotes = 5
	// SweepInterval is the time between two appeal sweeps.
	SweepInterval = 43200 * time.Second
	// SweepInitialDelay is the time before the first sweep after startup.
	SweepInitialDelay = 10 * time.Second

	// UpvoteEmoji is the reaction counted in favour of lifting the ban.
	UpvoteEmoji = "\U0001F44D"
	// DownvoteEmoji is the reaction counted against lifting the ban.
	DownvoteEmoji = "\U0001F44E"
)

// Tally decides the outcome of a poll. Fewer than MinimumVotes in total is
// never decisive; otherwise the ban is lifted only on a strict majority and
// a tie upholds it.
func Tally(up, down int) enum.Verdict {
	if up+down < MinimumVotes {
		return enum.VerdictInsufficientVotes
	}
	if up > down {
		return enum.VerdictUnban
	}
	return enum.VerdictUphold
}
