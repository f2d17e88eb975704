package client

import "errors"

var (
	ErrUnavailable = errors.New("remote store unavailable")
	ErrBadStatus   = errors.New("unexpected response status")
	ErrDecode      = errors.New("malformed response body")
)
