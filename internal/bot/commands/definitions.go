package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/json"
	"github.com/robalyx/tribunal/internal/bot/constants"
)

// Definitions returns the slash commands registered with Discord.
func Definitions() []discord.ApplicationCommandCreate {
	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:                     constants.SetCommandName,
			Description:              "Assign a channel to a role, or list the roles",
			DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionManageChannels),
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        constants.TypeOptionName,
					Description: "Channel role",
					Required:    true,
					Choices:     channelRoleChoices(),
				},
				discord.ApplicationCommandOptionChannel{
					Name:        constants.ChannelOptionName,
					Description: "Channel to assign",
					ChannelTypes: []discord.ChannelType{
						discord.ChannelTypeGuildText,
						discord.ChannelTypeGuildNews,
					},
				},
			},
		},
		discord.SlashCommandCreate{
			Name:                     constants.BanCommandName,
			Description:              "Ban a user",
			DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionBanMembers),
			Options: []discord.ApplicationCommandOption{
				userOption("User to ban"),
				reasonOption(),
				discord.ApplicationCommandOptionInt{
					Name:        constants.DeletionTimeOptionName,
					Description: "Hours of message history to delete",
					MinValue:    intPtr(0),
					MaxValue:    intPtr(constants.MaxDeletionHours),
				},
			},
		},
		discord.SlashCommandCreate{
			Name:                     constants.UnbanCommandName,
			Description:              "Unban a user",
			DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionBanMembers),
			Options: []discord.ApplicationCommandOption{
				userOption("User to unban"),
			},
		},
		discord.SlashCommandCreate{
			Name:                     constants.KickCommandName,
			Description:              "Kick a member",
			DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionKickMembers),
			Options: []discord.ApplicationCommandOption{
				userOption("Member to kick"),
				reasonOption(),
			},
		},
		discord.SlashCommandCreate{
			Name:                     constants.TimeoutCommandName,
			Description:              "Time out a member",
			DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionModerateMembers),
			Options: []discord.ApplicationCommandOption{
				userOption("Member to time out"),
				discord.ApplicationCommandOptionString{
					Name:        constants.DurationOptionName,
					Description: "Duration such as 30s, 15m, 2h or 7d",
					Required:    true,
				},
				reasonOption(),
			},
		},
		discord.SlashCommandCreate{
			Name:                     constants.BanAppealSetCommandName,
			Description:              "Set the days after a ban before an appeal opens, 0 disables appeals",
			DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionBanMembers),
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        constants.DaysOptionName,
					Description: "Days before an appeal opens",
					Required:    true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:                     constants.BanMessageSetCommandName,
			Description:              "Choose where ban and unban messages are sent",
			DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionBanMembers),
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionBool{
					Name:        constants.MainOptionName,
					Description: "Announce in the main channel",
				},
				discord.ApplicationCommandOptionBool{
					Name:        constants.DMOptionName,
					Description: "Notify the user by direct message",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:                     constants.VerificationSetCommandName,
			Description:              "Set the delay before new members receive the verification role",
			DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionManageRoles),
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        constants.DelayOptionName,
					Description: "Delay such as 10m or 2h, 0s disables verification",
					Required:    true,
				},
				discord.ApplicationCommandOptionRole{
					Name:        constants.RoleOptionName,
					Description: "Role granted after the delay",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:                     constants.ReloadCommandName,
			Description:              "Recreate missing guild stores and reload activities",
			DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionManageGuild | discord.PermissionManageChannels),
		},
	}
}

func userOption(description string) discord.ApplicationCommandOptionUser {
	return discord.ApplicationCommandOptionUser{
		Name:        constants.UserOptionName,
		Description: description,
		Required:    true,
	}
}

func reasonOption() discord.ApplicationCommandOptionString {
	return discord.ApplicationCommandOptionString{
		Name:        constants.ReasonOptionName,
		Description: "Reason shown in the audit log and the notification",
		MaxLength:   intPtr(maxReasonLength),
	}
}

func channelRoleChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := []discord.ApplicationCommandOptionChoiceString{
		{Name: infoType, Value: infoType},
	}
	for _, role := range channelRoleOrder {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{
			Name:  role.String(),
			Value: role.String(),
		})
	}
	return choices
}

func intPtr(v int) *int {
	return &v
}
