package enum

// ChannelRole is a logical channel slot configured per guild.
// The order matches the column order of the stored channel row.
//
//go:generate go tool enumer -type=ChannelRole -trimprefix=ChannelRole -transform=snake
type ChannelRole int

const (
	ChannelRoleMain ChannelRole = iota
	ChannelRoleAnnouncement
	ChannelRoleStaff
	ChannelRoleLogging
	ChannelRoleRules
)
