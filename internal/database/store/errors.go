package store

import "errors"

// ErrNoChange is returned by an Update callback to skip the write.
var ErrNoChange = errors.New("no change")
