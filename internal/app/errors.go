package app

import "errors"

var (
	// ErrInvalidState means the operation does not apply in the room's
	// current phase.
	ErrInvalidState = errors.New("operation not valid in current phase")
	// ErrInsufficientPlayers means the roster is below the minimum
	// required to start.
	ErrInsufficientPlayers = errors.New("not enough participants to start")
	// ErrNoContent means the content source produced no usable items.
	ErrNoContent = errors.New("no content available")

	ErrUnknownParticipant = errors.New("unknown participant")
	ErrNotYourTurn        = errors.New("not this participant's turn")
	ErrSelfVote           = errors.New("cannot vote for own submission")
	ErrUnknownSubmission  = errors.New("unknown submission")
	ErrUnknownCell        = errors.New("no such board cell")
	ErrCellAnswered       = errors.New("cell already answered")
	ErrNoCellSelected     = errors.New("no cell selected")
)
