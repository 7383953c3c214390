package domain

import "errors"

// Sentinel errors shared by services and repositories. Controllers map them to HTTP codes with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNoValidEmails = errors.New("no valid email addresses provided")
	ErrEventFull     = errors.New("event has reached maximum capacity")
	ErrInviteExpired = errors.New("invite link has expired")
	ErrAlreadyJoined = errors.New("already joined")
)
