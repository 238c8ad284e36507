package appeal_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/robalyx/tribunal/internal/database"
	"github.com/robalyx/tribunal/internal/database/backend/file"
	"github.com/robalyx/tribunal/internal/database/types"
	"github.com/robalyx/tribunal/internal/database/types/enum"
	"github.com/robalyx/tribunal/internal/worker/appeal"
	"github.com/robalyx/tribunal/internal/worker/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errPlatform = errors.New("platform unavailable")

type postedMessage struct {
	ChannelID uint64
	ID        uint64
	Text      string
	Sent      time.Time
}

type fakeDispatcher struct {
	mu         sync.Mutex
	nextID     uint64
	messages   []postedMessage
	reactions  map[uint64][]string
	counts     map[uint64]map[string]int
	dms        []uint64
	failPolls  bool
	countsErr  error
	clock      func() time.Time
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{
		nextID:    1000,
		reactions: make(map[uint64][]string),
		counts:    make(map[uint64]map[string]int),
	}
}

func (d *fakeDispatcher) PostMessage(_ context.Context, channelID uint64, text string) (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failPolls && strings.HasPrefix(text, "Automatic Appeal") {
		return 0, errPlatform
	}

	var sent time.Time
	if d.clock != nil {
		sent = d.clock()
	}

	d.nextID++
	d.messages = append(d.messages, postedMessage{ChannelID: channelID, ID: d.nextID, Text: text, Sent: sent})
	return d.nextID, nil
}

func (d *fakeDispatcher) AddReaction(_ context.Context, _, messageID uint64, emoji string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.reactions[messageID] = append(d.reactions[messageID], emoji)
	return nil
}

func (d *fakeDispatcher) ReactionCounts(_ context.Context, _, messageID uint64) (map[string]int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.countsErr != nil {
		return nil, d.countsErr
	}
	return d.counts[messageID], nil
}

func (d *fakeDispatcher) SendDirectMessage(_ context.Context, userID uint64, _ string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dms = append(d.dms, userID)
	return nil
}

func (d *fakeDispatcher) FindMessage(
	_ context.Context, channelID uint64, contains string, since time.Time,
) (uint64, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, msg := range d.messages {
		if msg.Sent.Before(since) {
			continue
		}
		if msg.ChannelID == channelID && strings.Contains(msg.Text, contains) {
			return msg.ID, true, nil
		}
	}
	return 0, false, nil
}

func (d *fakeDispatcher) setCounts(messageID uint64, up, down int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.counts[messageID] = map[string]int{appeal.UpvoteEmoji: up, appeal.DownvoteEmoji: down}
}

func (d *fakeDispatcher) pollsIn(channelID uint64) []postedMessage {
	d.mu.Lock()
	defer d.mu.Unlock()

	var polls []postedMessage
	for _, msg := range d.messages {
		if msg.ChannelID == channelID && strings.HasPrefix(msg.Text, "Automatic Appeal") {
			polls = append(polls, msg)
		}
	}
	return polls
}

func (d *fakeDispatcher) textsIn(channelID uint64) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var texts []string
	for _, msg := range d.messages {
		if msg.ChannelID == channelID {
			texts = append(texts, msg.Text)
		}
	}
	return texts
}

type fakeModerator struct {
	mu            sync.Mutex
	unbanAttempts []uint64
	failUnbans    int
	notBanned     map[uint64]bool
}

func (m *fakeModerator) Unban(_ context.Context, _, userID uint64, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unbanAttempts = append(m.unbanAttempts, userID)
	if m.failUnbans > 0 {
		m.failUnbans--
		return errPlatform
	}
	return nil
}

func (m *fakeModerator) Ban(context.Context, uint64, uint64, time.Duration, string) error {
	return nil
}

func (m *fakeModerator) Kick(context.Context, uint64, uint64, string) error {
	return nil
}

func (m *fakeModerator) Timeout(context.Context, uint64, uint64, time.Time, string) error {
	return nil
}

func (m *fakeModerator) IsBanned(_ context.Context, _, userID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return !m.notBanned[userID], nil
}

func (m *fakeModerator) attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.unbanAttempts)
}

// failingBackend fails settings reads for a single guild.
type failingBackend struct {
	*file.Backend
	guildID uint64
}

func (b *failingBackend) Load(ctx context.Context, kind enum.Kind, guildID uint64) ([][]string, error) {
	if kind == enum.KindSettings && guildID == b.guildID {
		return nil, errPlatform
	}
	return b.Backend.Load(ctx, kind, guildID)
}

type harness struct {
	client     database.Client
	dispatcher *fakeDispatcher
	moderator  *fakeModerator
	worker     *appeal.Worker
	now        time.Time
}

func newHarness(t *testing.T, config appeal.Config, failGuild uint64) *harness {
	t.Helper()

	b, err := file.New(t.TempDir())
	require.NoError(t, err)

	client := database.NewClient(&failingBackend{Backend: b, guildID: failGuild}, zap.NewNop())
	t.Cleanup(func() { _ = client.Close() })

	h := &harness{
		client:     client,
		dispatcher: newFakeDispatcher(),
		moderator:  &fakeModerator{notBanned: make(map[uint64]bool)},
		now:        time.Unix(1_750_000_000, 0),
	}

	h.dispatcher.clock = func() time.Time { return h.now }

	reporter := core.NewStatusReporter(nil, "appeal", "sweep", zap.NewNop())
	h.worker = appeal.New(
		client, h.dispatcher, h.moderator, client.Service().Channel(), reporter, config, zap.NewNop(),
		appeal.WithClock(func() time.Time { return h.now }),
	)

	return h
}

func staffChannel(guildID uint64) uint64 { return 500 + guildID }
func mainChannel(guildID uint64) uint64  { return 600 + guildID }

// setupGuild configures channels and an appeal delay for a guild.
func (h *harness) setupGuild(t *testing.T, guildID uint64, delay time.Duration, announce bool) {
	t.Helper()

	ctx := context.Background()
	channels := h.client.Service().Channel()
	require.NoError(t, channels.SetChannel(ctx, guildID, enum.ChannelRoleStaff, staffChannel(guildID)))
	require.NoError(t, channels.SetChannel(ctx, guildID, enum.ChannelRoleMain, mainChannel(guildID)))

	settings := h.client.Service().Setting()
	_, err := settings.SetAppealDelay(ctx, guildID, delay)
	require.NoError(t, err)
	require.NoError(t, settings.SetBanMessages(ctx, guildID, announce, announce))
}

func (h *harness) ban(t *testing.T, guildID, userID uint64, reason string, age time.Duration) {
	t.Helper()

	require.NoError(t, h.client.Service().Ban().RecordBan(context.Background(), guildID, userID, reason, h.now.Add(-age)))
}

func (h *harness) appeals(t *testing.T, guildID uint64) []*types.GuildAppeal {
	t.Helper()

	appeals, err := h.client.Model().Appeal().List(context.Background(), guildID)
	require.NoError(t, err)
	return appeals
}

func (h *harness) bans(t *testing.T, guildID uint64) []*types.GuildBan {
	t.Helper()

	bans, err := h.client.Model().Ban().List(context.Background(), guildID)
	require.NoError(t, err)
	return bans
}

// openPoll runs a sweep that opens exactly one poll and returns its message ID.
func (h *harness) openPoll(t *testing.T, guildID uint64) uint64 {
	t.Helper()

	result := h.worker.Sweep(context.Background())
	require.Equal(t, 1, result.Opened)

	appeals := h.appeals(t, guildID)
	require.Len(t, appeals, 1)
	require.NotZero(t, appeals[0].PollMessageID)

	return appeals[0].PollMessageID
}

func TestSweepOpensAppealOnceEligible(t *testing.T) {
	t.Parallel()

	h := newHarness(t, appeal.Config{}, 0)
	h.setupGuild(t, 1, 24*time.Hour, false)
	h.ban(t, 1, 10, "spam", 25*time.Hour)
	h.ban(t, 1, 11, "", time.Hour)

	result := h.worker.Sweep(context.Background())
	assert.Equal(t, 1, result.Guilds)
	assert.Equal(t, 1, result.Opened)
	assert.Zero(t, result.Failed)

	appeals := h.appeals(t, 1)
	require.Len(t, appeals, 1)
	assert.Equal(t, uint64(10), appeals[0].UserID)
	assert.NotZero(t, appeals[0].PollMessageID)
	assert.Equal(t, h.now.Add(appeal.VotingWindow), appeals[0].ExpiresAt)

	assert.Equal(t,
		[]string{"Automatic Appeal\nUser <@10> was banned 1 days ago for spam. Vote for appeal:"},
		h.dispatcher.textsIn(staffChannel(1)))
	assert.Equal(t,
		[]string{appeal.UpvoteEmoji, appeal.DownvoteEmoji},
		h.dispatcher.reactions[appeals[0].PollMessageID])

	// A second sweep must not open another poll for the same ban.
	result = h.worker.Sweep(context.Background())
	assert.Zero(t, result.Opened)
	assert.Len(t, h.appeals(t, 1), 1)
	assert.Len(t, h.dispatcher.textsIn(staffChannel(1)), 1)
}

func TestSweepEligibilityGating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		delay   time.Duration
		age     time.Duration
		opened  int
		appeals int
	}{
		{name: "appeals disabled", delay: 0, age: 1000 * time.Hour, opened: 0, appeals: 0},
		{name: "delay not elapsed", delay: 2 * time.Hour, age: time.Hour, opened: 0, appeals: 0},
		{name: "delay elapsed exactly", delay: 2 * time.Hour, age: 2 * time.Hour, opened: 1, appeals: 1},
		{name: "delay long past", delay: time.Hour, age: 100 * time.Hour, opened: 1, appeals: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, appeal.Config{}, 0)
			h.setupGuild(t, 1, tt.delay, false)
			h.ban(t, 1, 10, "", tt.age)

			result := h.worker.Sweep(context.Background())
			assert.Equal(t, tt.opened, result.Opened)
			assert.Len(t, h.appeals(t, 1), tt.appeals)
		})
	}
}

func TestSweepUnbansAfterSuccessfulVote(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, appeal.Config{}, 0)
	h.setupGuild(t, 1, time.Hour, true)
	h.ban(t, 1, 10, "", 2*time.Hour)

	pollID := h.openPoll(t, 1)
	h.dispatcher.setCounts(pollID, 6, 2)

	// Not yet expired.
	h.now = h.now.Add(appeal.VotingWindow - time.Second)
	result := h.worker.Sweep(ctx)
	assert.Zero(t, result.Resolved)
	assert.Len(t, h.appeals(t, 1), 1)

	h.now = h.now.Add(time.Second)
	result = h.worker.Sweep(ctx)
	assert.Equal(t, 1, result.Resolved)
	assert.Equal(t, 1, result.Unbanned)
	assert.Zero(t, result.Opened)

	assert.Equal(t, []uint64{10}, h.moderator.unbanAttempts)
	assert.Empty(t, h.appeals(t, 1))
	assert.Empty(t, h.bans(t, 1))
	assert.Contains(t, h.dispatcher.textsIn(staffChannel(1)), "Appeal successful. <@10> has been unbanned.")
	assert.Equal(t,
		[]string{"<@10> has been unbanned after a successful appeal."},
		h.dispatcher.textsIn(mainChannel(1)))
	assert.Equal(t, []uint64{10}, h.dispatcher.dms)

	// Resolution happens only once.
	result = h.worker.Sweep(ctx)
	assert.Zero(t, result.Resolved)
	assert.Equal(t, 1, h.moderator.attempts())
}

func TestSweepKeepsBanWhenVoteFails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		up   int
		down int
		text string
	}{
		{name: "upheld", up: 2, down: 3, text: "Appeal unsuccessful. <@10> will not be unbanned."},
		{name: "tie", up: 3, down: 3, text: "Appeal unsuccessful. <@10> will not be unbanned."},
		{name: "insufficient votes", up: 2, down: 1, text: "Not enough votes. <@10> not unbanned."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			h := newHarness(t, appeal.Config{}, 0)
			h.setupGuild(t, 1, time.Hour, true)
			h.ban(t, 1, 10, "", 2*time.Hour)

			pollID := h.openPoll(t, 1)
			h.dispatcher.setCounts(pollID, tt.up, tt.down)
			h.now = h.now.Add(appeal.VotingWindow)

			result := h.worker.Sweep(ctx)
			assert.Equal(t, 1, result.Resolved)
			assert.Zero(t, result.Unbanned)
			assert.Zero(t, result.Opened)

			assert.Zero(t, h.moderator.attempts())
			assert.Empty(t, h.appeals(t, 1))
			assert.Contains(t, h.dispatcher.textsIn(staffChannel(1)), tt.text)
			assert.Empty(t, h.dispatcher.textsIn(mainChannel(1)))

			bans := h.bans(t, 1)
			require.Len(t, bans, 1)
			assert.Equal(t, enum.BanStatusUpheld, bans[0].Status)

			// A decided vote is never reopened.
			h.now = h.now.Add(30 * 24 * time.Hour)
			result = h.worker.Sweep(ctx)
			assert.Zero(t, result.Opened)
			assert.Empty(t, h.appeals(t, 1))
		})
	}
}

func TestSweepRetriesFailedUnbanOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, appeal.Config{}, 0)
	h.setupGuild(t, 1, time.Hour, false)
	h.ban(t, 1, 10, "", 2*time.Hour)
	h.moderator.failUnbans = 1

	pollID := h.openPoll(t, 1)
	h.dispatcher.setCounts(pollID, 5, 0)
	h.now = h.now.Add(appeal.VotingWindow)

	result := h.worker.Sweep(ctx)
	assert.Equal(t, 1, result.Resolved)
	assert.Equal(t, 1, result.UnbanFailed)
	assert.Zero(t, result.Unbanned)
	assert.Equal(t, 1, h.moderator.attempts(), "retry must wait for the next sweep")
	assert.Empty(t, h.appeals(t, 1))
	assert.Contains(t, h.dispatcher.textsIn(staffChannel(1)),
		"Failed to unban <@10> after the appeal. The unban will be retried.")

	bans := h.bans(t, 1)
	require.Len(t, bans, 1)
	assert.Equal(t, enum.BanStatusUnbanFailed, bans[0].Status)

	result = h.worker.Sweep(ctx)
	assert.Equal(t, 1, result.Unbanned)
	assert.Zero(t, result.Opened)
	assert.Equal(t, 2, h.moderator.attempts())
	assert.Empty(t, h.bans(t, 1))
	assert.Contains(t, h.dispatcher.textsIn(staffChannel(1)), "Retried unban of <@10> succeeded.")
}

func TestSweepRequiresManualUnbanAfterSecondFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, appeal.Config{}, 0)
	h.setupGuild(t, 1, time.Hour, false)
	h.ban(t, 1, 10, "", 2*time.Hour)
	h.moderator.failUnbans = 2

	pollID := h.openPoll(t, 1)
	h.dispatcher.setCounts(pollID, 5, 0)
	h.now = h.now.Add(appeal.VotingWindow)

	h.worker.Sweep(ctx)
	result := h.worker.Sweep(ctx)
	assert.Equal(t, 1, result.UnbanFailed)
	assert.Equal(t, 2, h.moderator.attempts())
	assert.Contains(t, h.dispatcher.textsIn(staffChannel(1)),
		"Unban of <@10> failed again. A manual unban is required.")

	bans := h.bans(t, 1)
	require.Len(t, bans, 1)
	assert.Equal(t, enum.BanStatusManualUnban, bans[0].Status)

	result = h.worker.Sweep(ctx)
	assert.Zero(t, result.Opened)
	assert.Equal(t, 2, h.moderator.attempts())
}

func TestSweepRecoversOrphanedPoll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, appeal.Config{}, 0)
	h.setupGuild(t, 1, time.Hour, false)
	h.ban(t, 1, 10, "", 2*time.Hour)

	// A previous run created the appeal and posted the poll but never recorded it.
	require.NoError(t, h.client.Model().Appeal().Create(ctx, &types.GuildAppeal{
		GuildID:   1,
		UserID:    10,
		ExpiresAt: h.now.Add(appeal.VotingWindow),
	}))
	orphanID, err := h.dispatcher.PostMessage(ctx, staffChannel(1),
		"Automatic Appeal\nUser <@10> was banned 0 days ago. Vote for appeal:")
	require.NoError(t, err)

	result := h.worker.Sweep(ctx)
	assert.Equal(t, 1, result.Opened)
	assert.Len(t, h.dispatcher.textsIn(staffChannel(1)), 1)

	appeals := h.appeals(t, 1)
	require.Len(t, appeals, 1)
	assert.Equal(t, orphanID, appeals[0].PollMessageID)
}

func TestSweepOpensNewPollAfterReban(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, appeal.Config{}, 0)
	h.setupGuild(t, 1, time.Hour, false)
	h.ban(t, 1, 10, "", 2*time.Hour)

	firstPoll := h.openPoll(t, 1)
	h.dispatcher.setCounts(firstPoll, 1, 5)
	h.now = h.now.Add(appeal.VotingWindow)

	result := h.worker.Sweep(ctx)
	require.Equal(t, 1, result.Resolved)

	cleared, err := h.client.Service().Ban().ClearBan(ctx, 1, 10)
	require.NoError(t, err)
	require.True(t, cleared)

	h.now = h.now.Add(30 * 24 * time.Hour)
	h.ban(t, 1, 10, "", 2*time.Hour)

	result = h.worker.Sweep(ctx)
	assert.Equal(t, 1, result.Opened)
	assert.Len(t, h.dispatcher.pollsIn(staffChannel(1)), 2)

	appeals := h.appeals(t, 1)
	require.Len(t, appeals, 1)
	assert.NotEqual(t, firstPoll, appeals[0].PollMessageID)
	assert.Empty(t, h.dispatcher.counts[appeals[0].PollMessageID])
}

func TestSweepLeftoverAppealIgnoresEarlierPolls(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, appeal.Config{}, 0)
	h.setupGuild(t, 1, time.Hour, false)

	// A poll from a ban that was resolved long ago.
	oldPoll, err := h.dispatcher.PostMessage(ctx, staffChannel(1),
		"Automatic Appeal\nUser <@10> was banned 3 days ago. Vote for appeal:")
	require.NoError(t, err)

	h.now = h.now.Add(30 * 24 * time.Hour)
	h.ban(t, 1, 10, "", 2*time.Hour)
	require.NoError(t, h.client.Model().Appeal().Create(ctx, &types.GuildAppeal{
		GuildID:   1,
		UserID:    10,
		ExpiresAt: h.now.Add(appeal.VotingWindow),
	}))

	result := h.worker.Sweep(ctx)
	assert.Equal(t, 1, result.Opened)
	assert.Len(t, h.dispatcher.pollsIn(staffChannel(1)), 2)

	appeals := h.appeals(t, 1)
	require.Len(t, appeals, 1)
	assert.NotEqual(t, oldPoll, appeals[0].PollMessageID)
}

func TestSweepReopensAppealWhenPollIsGone(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, appeal.Config{}, 0)
	h.setupGuild(t, 1, time.Hour, false)
	h.ban(t, 1, 10, "", 2*time.Hour)

	firstPoll := h.openPoll(t, 1)
	h.dispatcher.countsErr = fmt.Errorf("failed to fetch message %d: %w", firstPoll, types.ErrPollGone)
	h.now = h.now.Add(appeal.VotingWindow)

	result := h.worker.Sweep(ctx)
	assert.Equal(t, 1, result.Abandoned)
	assert.Zero(t, result.Resolved)
	assert.Equal(t, 1, result.Opened)
	assert.Zero(t, h.moderator.attempts())
	assert.Contains(t, h.dispatcher.textsIn(staffChannel(1)),
		"The appeal poll for <@10> is no longer available. A new poll will be opened.")

	appeals := h.appeals(t, 1)
	require.Len(t, appeals, 1)
	assert.NotEqual(t, firstPoll, appeals[0].PollMessageID)
	assert.Equal(t, h.now.Add(appeal.VotingWindow), appeals[0].ExpiresAt)

	bans := h.bans(t, 1)
	require.Len(t, bans, 1)
	assert.Equal(t, enum.BanStatusActive, bans[0].Status)
}

func TestSweepPostFailureRemovesTentativeAppeal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, appeal.Config{}, 0)
	h.setupGuild(t, 1, time.Hour, false)
	h.ban(t, 1, 10, "", 2*time.Hour)
	h.dispatcher.failPolls = true

	result := h.worker.Sweep(ctx)
	assert.Zero(t, result.Opened)
	assert.Zero(t, result.Failed)
	assert.Empty(t, h.appeals(t, 1))

	h.dispatcher.failPolls = false
	result = h.worker.Sweep(ctx)
	assert.Equal(t, 1, result.Opened)
	assert.Len(t, h.appeals(t, 1), 1)
}

func TestSweepLeavesAppealWhenReactionsUnavailable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, appeal.Config{}, 0)
	h.setupGuild(t, 1, time.Hour, false)
	h.ban(t, 1, 10, "", 2*time.Hour)

	h.openPoll(t, 1)
	h.dispatcher.countsErr = errPlatform
	h.now = h.now.Add(appeal.VotingWindow)

	result := h.worker.Sweep(ctx)
	assert.Zero(t, result.Resolved)
	assert.Zero(t, result.Opened)
	assert.Len(t, h.appeals(t, 1), 1)
}

func TestSweepSkipsGuildWithoutStaffChannel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, appeal.Config{}, 0)
	_, err := h.client.Service().Setting().SetAppealDelay(ctx, 1, time.Hour)
	require.NoError(t, err)
	h.ban(t, 1, 10, "", 2*time.Hour)

	result := h.worker.Sweep(ctx)
	assert.Equal(t, 1, result.Guilds)
	assert.Zero(t, result.Failed)
	assert.Zero(t, result.Opened)
	assert.Empty(t, h.appeals(t, 1))
	assert.Empty(t, h.dispatcher.messages)
}

func TestSweepRemovesStaleBans(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, appeal.Config{VerifyPlatformBans: true}, 0)
	h.setupGuild(t, 1, time.Hour, false)
	h.ban(t, 1, 10, "", 2*time.Hour)
	h.ban(t, 1, 11, "", 2*time.Hour)
	h.moderator.notBanned[10] = true

	result := h.worker.Sweep(ctx)
	assert.Equal(t, 1, result.StaleRemoved)
	assert.Equal(t, 1, result.Opened)

	bans := h.bans(t, 1)
	require.Len(t, bans, 1)
	assert.Equal(t, uint64(11), bans[0].UserID)
}

func TestSweepIsolatesGuildFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, appeal.Config{Concurrency: 4}, 2)
	for guildID := uint64(1); guildID <= 3; guildID++ {
		if guildID != 2 {
			h.setupGuild(t, guildID, time.Hour, false)
		}
		h.ban(t, guildID, 10, fmt.Sprintf("guild %d", guildID), 2*time.Hour)
	}

	result := h.worker.Sweep(ctx)
	assert.Equal(t, 3, result.Guilds)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.Opened)

	assert.Len(t, h.appeals(t, 1), 1)
	assert.Empty(t, h.appeals(t, 2))
	assert.Len(t, h.appeals(t, 3), 1)
}
