package types

import (
	"github.com/robalyx/tribunal/internal/database/types/enum"
)

// GuildChannels maps the logical channel roles of a guild to channel IDs.
// A zero ID means the role is unset.
type GuildChannels struct {
	GuildID      uint64
	Main         uint64
	Announcement uint64
	Staff        uint64
	Logging      uint64
	Rules        uint64
}

// MarshalRow encodes the mapping as main,announcement,staff,logging,rules.
func (c *GuildChannels) MarshalRow() []string {
	return []string{
		formatID(c.Main),
		formatID(c.Announcement),
		formatID(c.Staff),
		formatID(c.Logging),
		formatID(c.Rules),
	}
}

// UnmarshalRow decodes a channel row. Missing trailing columns read as unset.
func (c *GuildChannels) UnmarshalRow(guildID uint64, fields []string) error {
	if err := requireFields(fields, 1); err != nil {
		return err
	}

	next := GuildChannels{GuildID: guildID}
	for i, role := range enum.ChannelRoleValues() {
		if i >= len(fields) {
			break
		}

		id, err := parseID(fields[i])
		if err != nil {
			return err
		}
		next.Set(role, id)
	}

	*c = next
	return nil
}

// Get returns the channel configured for a role.
func (c *GuildChannels) Get(role enum.ChannelRole) uint64 {
	switch role {
	case enum.ChannelRoleMain:
		return c.Main
	case enum.ChannelRoleAnnouncement:
		return c.Announcement
	case enum.ChannelRoleStaff:
		return c.Staff
	case enum.ChannelRoleLogging:
		return c.Logging
	case enum.ChannelRoleRules:
		return c.Rules
	default:
		return 0
	}
}

// Set assigns the channel for a role.
func (c *GuildChannels) Set(role enum.ChannelRole, channelID uint64) {
	switch role {
	case enum.ChannelRoleMain:
		c.Main = channelID
	case enum.ChannelRoleAnnouncement:
		c.Announcement = channelID
	case enum.ChannelRoleStaff:
		c.Staff = channelID
	case enum.ChannelRoleLogging:
		c.Logging = channelID
	case enum.ChannelRoleRules:
		c.Rules = channelID
	}
}
