package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/tribunal/internal/bot/commands"
	"github.com/robalyx/tribunal/internal/bot/constants"
	botEvents "github.com/robalyx/tribunal/internal/bot/events"
	"github.com/robalyx/tribunal/internal/database"
	tdiscord "github.com/robalyx/tribunal/internal/discord"
	"github.com/robalyx/tribunal/internal/worker/core"
	"go.uber.org/zap"
)

// Bot connects the command and event handlers to the Discord gateway.
// Handlers run on the shared scheduler pool so the gateway is never blocked.
type Bot struct {
	client          bot.Client
	scheduler       *core.Scheduler
	dispatcher      *tdiscord.Dispatcher
	moderator       *tdiscord.Moderator
	commands        *commands.Handler
	guildEvents     *botEvents.GuildEventHandler
	memberEvents    *botEvents.MemberEventHandler
	commandGuildIDs []uint64
	logger          *zap.Logger
}

// New creates the Discord client and the handlers. Commands are registered
// in commandGuildIDs when set, globally otherwise.
func New(
	token string,
	commandGuildIDs []uint64,
	db database.Client,
	scheduler *core.Scheduler,
	logger *zap.Logger,
) (*Bot, error) {
	b := &Bot{
		scheduler:       scheduler,
		commandGuildIDs: commandGuildIDs,
		logger:          logger.Named("bot"),
	}

	// Configure Discord client with required gateway intents and event handlers
	client, err := disgo.New(token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMembers,
			),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnApplicationCommandInteraction: b.handleApplicationCommandInteraction,
			OnGuildJoin:                     b.handleGuildJoin,
			OnGuildMemberJoin:               b.handleGuildMemberJoin,
			OnGuildMemberLeave:              b.handleGuildMemberLeave,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}

	b.client = client
	b.dispatcher = tdiscord.NewDispatcher(client.Rest(), client.ID, logger)
	b.moderator = tdiscord.NewModerator(client.Rest(), logger)
	b.commands = commands.NewHandler(db, b.dispatcher, b.moderator, logger)
	b.guildEvents = botEvents.NewGuildEventHandler(db.Service().Guild(), logger)
	b.memberEvents = botEvents.NewMemberEventHandler(db.Service().Channel(), b.dispatcher, b.moderator, logger)

	return b, nil
}

// Dispatcher returns the message dispatcher backed by this client.
func (b *Bot) Dispatcher() *tdiscord.Dispatcher {
	return b.dispatcher
}

// Moderator returns the moderation client backed by this client.
func (b *Bot) Moderator() *tdiscord.Moderator {
	return b.moderator
}

// Presence returns a presence updater for this client's gateway.
func (b *Bot) Presence() *tdiscord.Presence {
	return tdiscord.NewPresence(b.client)
}

// OnReload sets the hook run by /reload.
func (b *Bot) OnReload(fn func(ctx context.Context) error) {
	b.commands.SetReloadHook(fn)
}

// Start registers the commands and opens the gateway connection.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Registering commands")

	definitions := commands.Definitions()
	if len(b.commandGuildIDs) == 0 {
		if _, err := b.client.Rest().SetGlobalCommands(b.client.ApplicationID(), definitions); err != nil {
			return fmt.Errorf("failed to register commands: %w", err)
		}
	} else {
		for _, guildID := range b.commandGuildIDs {
			_, err := b.client.Rest().SetGuildCommands(b.client.ApplicationID(), snowflake.ID(guildID), definitions)
			if err != nil {
				return fmt.Errorf("failed to register commands in guild %d: %w", guildID, err)
			}
		}
	}

	b.logger.Info("Starting bot")
	return b.client.OpenGateway(ctx)
}

// Close gracefully shuts down the Discord gateway connection.
func (b *Bot) Close(ctx context.Context) {
	b.logger.Info("Closing bot")
	b.client.Close(ctx)
}

// handleApplicationCommandInteraction defers the response right away, then
// runs the command on the scheduler and edits the deferred reply.
func (b *Bot) handleApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	data, ok := event.Data.(discord.SlashCommandInteractionData)
	if !ok {
		return
	}

	// Defer response to prevent Discord timeout while processing
	if err := event.DeferCreateMessage(true); err != nil {
		b.logger.Error("Failed to defer create message", zap.Error(err))
		return
	}

	submitted := b.scheduler.Submit("command_"+data.CommandName(), func(ctx context.Context) {
		b.runCommand(ctx, event, data)
	})
	if !submitted {
		b.respond(event, constants.CommandUnavailable)
	}
}

func (b *Bot) runCommand(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData,
) {
	ctx, cancel := context.WithTimeout(ctx, constants.CommandTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Panic in application command interaction handler", zap.Any("panic", r))
			b.respond(event, constants.UnexpectedError)
		}
		b.logger.Debug("Application command interaction handled",
			zap.String("command", data.CommandName()),
			zap.Duration("duration", time.Since(start)))
	}()

	guildID := event.GuildID()
	member := event.Member()
	if guildID == nil || member == nil {
		b.respond(event, constants.GuildOnly)
		return
	}

	inv := commands.Invocation{
		GuildID:     uint64(*guildID),
		GuildName:   b.guildName(*guildID),
		ActorID:     uint64(event.User().ID),
		Permissions: member.Permissions,
	}

	b.respond(event, b.dispatchCommand(ctx, inv, data))
}

// dispatchCommand reads the options of a command and runs it.
func (b *Bot) dispatchCommand(
	ctx context.Context, inv commands.Invocation, data discord.SlashCommandInteractionData,
) string {
	target := uint64(data.Snowflake(constants.UserOptionName))
	reason := data.String(constants.ReasonOptionName)

	switch data.CommandName() {
	case constants.SetCommandName:
		return b.commands.Set(ctx, inv,
			data.String(constants.TypeOptionName),
			uint64(data.Snowflake(constants.ChannelOptionName)))
	case constants.BanCommandName:
		hours, ok := data.OptInt(constants.DeletionTimeOptionName)
		if !ok {
			hours = constants.DefaultDeletionHours
		}
		return b.commands.Ban(ctx, inv, target, reason, hours)
	case constants.UnbanCommandName:
		return b.commands.Unban(ctx, inv, target)
	case constants.KickCommandName:
		return b.commands.Kick(ctx, inv, target, reason)
	case constants.TimeoutCommandName:
		return b.commands.Timeout(ctx, inv, target, data.String(constants.DurationOptionName), reason)
	case constants.BanAppealSetCommandName:
		return b.commands.BanAppealSet(ctx, inv, data.Int(constants.DaysOptionName))
	case constants.BanMessageSetCommandName:
		return b.commands.BanMessageSet(ctx, inv,
			optBool(data, constants.MainOptionName),
			optBool(data, constants.DMOptionName))
	case constants.VerificationSetCommandName:
		return b.commands.VerificationSet(ctx, inv,
			data.String(constants.DelayOptionName),
			uint64(data.Snowflake(constants.RoleOptionName)))
	case constants.ReloadCommandName:
		return b.commands.Reload(ctx, inv)
	default:
		return constants.CommandUnavailable
	}
}

// respond replaces the deferred reply with text.
func (b *Bot) respond(event *events.ApplicationCommandInteractionCreate, text string) {
	messageUpdate := discord.NewMessageUpdateBuilder().
		SetContent(text).
		SetAllowedMentions(&discord.AllowedMentions{}).
		Build()

	_, err := event.Client().Rest().UpdateInteractionResponse(event.ApplicationID(), event.Token(), messageUpdate)
	if err != nil {
		b.logger.Error("Failed to update interaction response", zap.Error(err))
	}
}

func (b *Bot) guildName(guildID snowflake.ID) string {
	if guild, ok := b.client.Caches().Guild(guildID); ok {
		return guild.Name
	}
	return "the server"
}

func (b *Bot) handleGuildJoin(event *events.GuildJoin) {
	guildID, guildName := uint64(event.Guild.ID), event.Guild.Name
	b.scheduler.Submit("guild_join", func(ctx context.Context) {
		if err := b.guildEvents.OnGuildJoin(ctx, guildID, guildName); err != nil {
			b.logger.Error("Failed to initialize guild",
				zap.Uint64("guildID", guildID),
				zap.Error(err))
		}
	})
}

func (b *Bot) handleGuildMemberJoin(event *events.GuildMemberJoin) {
	guildID, userID := uint64(event.GuildID), uint64(event.Member.User.ID)
	b.scheduler.Submit("member_join", func(ctx context.Context) {
		b.memberEvents.OnMemberJoin(ctx, guildID, userID)
	})
}

func (b *Bot) handleGuildMemberLeave(event *events.GuildMemberLeave) {
	guildID, userID := uint64(event.GuildID), uint64(event.User.ID)
	b.scheduler.Submit("member_leave", func(ctx context.Context) {
		b.memberEvents.OnMemberLeave(ctx, guildID, userID)
	})
}

func optBool(data discord.SlashCommandInteractionData, name string) *bool {
	if v, ok := data.OptBool(name); ok {
		return &v
	}
	return nil
}
