package services

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyQuestion        = errors.New("question and answer cannot be empty")
	ErrMissingQuestionID    = errors.New("question id is required")
	ErrQuestionLimitReached = errors.New("question limit reached")
	ErrQuestionIDConflict   = errors.New("question id already exists")
)

var (
	ErrTokenRejected      = errors.New("discord rejected the access token")
	ErrGuildNotManageable = errors.New("guild is not manageable by this user")
	ErrUnknownOAuthState  = errors.New("unknown or expired oauth state")
	ErrMissingOAuthCode   = errors.New("authorization code is required")
)

// StoreError is a non-2xx answer from the question store.
type StoreError struct {
	Op     string
	Status int
	Body   string
}

func (e *StoreError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: question store returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: question store returned status %d: %s", e.Op, e.Status, e.Body)
}

// TokenExchangeError carries the raw body Discord sent back for a failed
// code exchange.
type TokenExchangeError struct {
	Status int
	Body   string
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("token endpoint returned status %d: %s", e.Status, e.Body)
}
