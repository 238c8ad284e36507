package constants

import "time"

const (
	// Commands.
	SetCommandName             = "set"
	BanCommandName             = "ban"
	UnbanCommandName           = "unban"
	KickCommandName            = "kick"
	TimeoutCommandName         = "timeout"
	BanAppealSetCommandName    = "banappealset"
	BanMessageSetCommandName   = "banmessageset"
	ReloadCommandName          = "reload"
	VerificationSetCommandName = "verificationset"

	// Options.
	TypeOptionName         = "type"
	ChannelOptionName      = "channel"
	UserOptionName         = "user"
	ReasonOptionName       = "reason"
	DeletionTimeOptionName = "deletiontime"
	DurationOptionName     = "duration"
	DaysOptionName         = "days"
	MainOptionName         = "main"
	DMOptionName           = "dm"
	DelayOptionName        = "delay"
	RoleOptionName         = "role"

	// Limits.
	DefaultDeletionHours = 168
	MaxDeletionHours     = 168
	MaxAppealDays        = 366

	// Replies.
	InsufficientPermissions = "Insufficient permissions!"
	ChangeApplied           = "The change has been successfully applied."
	WrongArgument           = "Wrong argument!"
	UnexpectedError         = "An unexpected error has occurred. Please try again later."
	BanSelfRefused          = "You cannot ban yourself."
	BanSuccessful           = "Ban successful."
	BanNotRecorded          = "The user was banned, but the ban could not be recorded for appeals."
	UnbanSuccessful         = "Unban successful."
	KickSuccessful          = "Kick successful."
	TimeoutSuccessful       = "User successfully timed out."
	TimeoutInvalid          = "Incorrect duration. User cannot be timed out."
	ReloadSuccessful        = "Successfully reloaded!"
	VerificationInvalid     = "Incorrect delay. Use a duration such as 10m, 2h or 0s to disable verification."
	CommandUnavailable      = "This command is not available."
	GuildOnly               = "This command can only be used in a server."
)

// CommandTimeout bounds a single command after it has been deferred.
const CommandTimeout = 30 * time.Second
