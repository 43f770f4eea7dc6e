package api

import "errors"

// ErrInvalidUserID is reported for non-numeric or zero user ids.
var ErrInvalidUserID = errors.New("user id must be a positive integer")
