package models

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrStatementNotFound = errors.New("statement not found")
	ErrUnknownCondition  = errors.New("unknown condition")
	ErrUnknownSource     = errors.New("unknown source instrument")
	ErrEmptyStatement    = errors.New("statement text is empty")
)
