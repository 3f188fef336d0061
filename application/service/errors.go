package service

import "errors"

var (
	// ErrClientClosed indicates the client has been closed.
	ErrClientClosed = errors.New("fundmatch: client is closed")

	// ErrIndexNotReady indicates no catalog has been indexed yet.
	ErrIndexNotReady = errors.New("fundmatch: index not ready")

	// ErrNoSource indicates a reload was requested without a catalog source.
	ErrNoSource = errors.New("fundmatch: no catalog source configured")
)
