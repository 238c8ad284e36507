package types

import "errors"

var (
	// ErrAppealExists is returned when a user already has an open appeal in the guild.
	ErrAppealExists = errors.New("appeal already exists")
	// ErrNoStaffChannel is returned when a guild has no staff channel configured.
	ErrNoStaffChannel = errors.New("no staff channel configured")
	// ErrMalformedRow is returned when a stored row cannot be decoded.
	ErrMalformedRow = errors.New("malformed row")
	// ErrSettingOutOfRange is returned when a setting value is outside its allowed range.
	ErrSettingOutOfRange = errors.New("setting out of range")
	// ErrPollGone is returned when an appeal poll was deleted or can no longer be read.
	ErrPollGone = errors.New("appeal poll is gone")
)
