package enum

// SettingField names a column of the guild settings row.
//
//go:generate go tool enumer -type=SettingField -trimprefix=SettingField -transform=snake
type SettingField int

const (
	SettingFieldAppealDelay SettingField = iota
	SettingFieldAnnounceInMain
	SettingFieldNotifyByDM
	SettingFieldVerificationDelay
	SettingFieldVerificationRole
)
