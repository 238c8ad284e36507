package status

import (
	"errors"
	"fmt"
	"os"

	"github.com/robalyx/tribunal/pkg/utils"
)

// ErrNoActivities is returned when an activities file has no usable entry.
var ErrNoActivities = errors.New("no activities configured")

// watchingSeparator divides playing entries from watching entries.
const watchingSeparator = "WATCHING"

// ActivityKind is how an activity is shown next to the bot's name.
type ActivityKind int

const (
	// ActivityPlaying shows as "Playing <name>".
	ActivityPlaying ActivityKind = iota
	// ActivityWatching shows as "Watching <name>".
	ActivityWatching
)

func (k ActivityKind) String() string {
	switch k {
	case ActivityPlaying:
		return "playing"
	case ActivityWatching:
		return "watching"
	default:
		return fmt.Sprintf("ActivityKind(%d)", int(k))
	}
}

// Activity is a single presence entry.
type Activity struct {
	Kind ActivityKind
	Name string
}

// ParseActivities reads an activities list. Lines before a line reading
// WATCHING are playing entries, lines after it are watching entries.
// Blank lines are ignored.
func ParseActivities(data []byte) ([]Activity, error) {
	kind := ActivityPlaying

	var activities []Activity
	for _, line := range utils.SplitLines(string(data)) {
		if line == watchingSeparator {
			kind = ActivityWatching
			continue
		}
		activities = append(activities, Activity{Kind: kind, Name: line})
	}

	if len(activities) == 0 {
		return nil, ErrNoActivities
	}

	return activities, nil
}

// LoadActivities reads and parses an activities file.
func LoadActivities(path string) ([]Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read activities file: %w", err)
	}
	return ParseActivities(data)
}
