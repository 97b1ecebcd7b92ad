package common

import "errors"

// Expected, recoverable failure categories. Services return these (possibly
// wrapped with fmt.Errorf and %w); the HTTP layer matches them with
// errors.Is and maps each to a status code. Anything outside this set is an
// infrastructure failure: logged in full, returned to the client opaquely.
var (
	ErrValidation         = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSelfRequest        = errors.New("cannot send a friend request to yourself")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyFriends     = errors.New("users are already friends")
	ErrDuplicateRequest   = errors.New("a friend request already exists between these users")
	ErrForbidden          = errors.New("not authorized to perform this action")
	ErrInvalidState       = errors.New("friend request is not pending")
)
