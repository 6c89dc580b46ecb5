package views

import "errors"

var (
	ErrBlankPlayerName  = errors.New("Player name must not be blank")
	ErrNoResultSelected = errors.New("Pick a result first.")
	ErrInvalidResult    = errors.New("unknown result code")
	ErrBusy             = errors.New("a request is already in flight")
	ErrDiscarded        = errors.New("component closed, response discarded")
	ErrEmptyResponse    = errors.New("backend returned an empty response")
)
