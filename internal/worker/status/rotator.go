package status

import (
	"context"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"
)

// Presence changes the activity shown for the bot.
type Presence interface {
	SetActivity(ctx context.Context, kind ActivityKind, name string) error
}

// Rotator shows a random activity each time it runs.
type Rotator struct {
	presence   Presence
	activities []Activity
	pick       func(n int) int
	mu         sync.Mutex
	logger     *zap.Logger
}

// Option customizes a Rotator.
type Option func(*Rotator)

// WithPicker replaces the random index source.
func WithPicker(pick func(n int) int) Option {
	return func(r *Rotator) {
		r.pick = pick
	}
}

// NewRotator creates a rotator over a non-empty list of activities.
func NewRotator(presence Presence, activities []Activity, logger *zap.Logger, opts ...Option) (*Rotator, error) {
	if len(activities) == 0 {
		return nil, ErrNoActivities
	}

	r := &Rotator{
		presence:   presence,
		activities: activities,
		pick:       rand.IntN,
		logger:     logger.Named("status_rotator"),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Reload swaps the activity list. An empty list is rejected.
func (r *Rotator) Reload(activities []Activity) error {
	if len(activities) == 0 {
		return ErrNoActivities
	}

	r.mu.Lock()
	r.activities = activities
	r.mu.Unlock()

	r.logger.Info("Activities reloaded", zap.Int("count", len(activities)))
	return nil
}

// Rotate sets a randomly chosen activity.
func (r *Rotator) Rotate(ctx context.Context) {
	r.mu.Lock()
	activity := r.activities[r.pick(len(r.activities))]
	r.mu.Unlock()

	if err := r.presence.SetActivity(ctx, activity.Kind, activity.Name); err != nil {
		r.logger.Warn("Failed to change status",
			zap.String("kind", activity.Kind.String()),
			zap.String("name", activity.Name),
			zap.Error(err))
		return
	}

	r.logger.Info("Status changed",
		zap.String("kind", activity.Kind.String()),
		zap.String("name", activity.Name))
}
