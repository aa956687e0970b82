package session

import "errors"

var (
	// ErrNotFound is returned by Store.Get when either session entry is absent.
	ErrNotFound = errors.New("session not found")
)

// Key suffixes for the two entries every store implementation keeps per session.
const (
	KeyToken   = "token"
	KeyProfile = "profile"
)
