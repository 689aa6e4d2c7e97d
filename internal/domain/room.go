package domain

// Phase represents the lifecycle stage of a room game.
type Phase string

const (
	// PhaseLobby is the pre-game state where participants can be added or removed.
	PhaseLobby Phase = "lobby"
	// PhasePlaying is the active quiz state where the current responder answers.
	PhasePlaying Phase = "playing"
	// PhaseExplain is the state where each participant writes an explanation in turn.
	PhaseExplain Phase = "explain"
	// PhaseVote is the state where each participant votes on the round's explanations.
	PhaseVote Phase = "vote"
	// PhaseResults is the display state for a finished round or game.
	PhaseResults Phase = "results"
	// PhaseEnded is the terminal state after the final round.
	PhaseEnded Phase = "ended"
)

// Item is a single question or term played during one round. Items are
// immutable once a round starts.
type Item struct {
	ID       string   `json:"id"`
	Prompt   string   `json:"prompt"`
	Answer   string   `json:"answer,omitempty"`
	Category string   `json:"category,omitempty"`
	Choices  []string `json:"choices,omitempty"`
}

// Card is the {id, front, back} triple supplied by a deck content source,
// with an optional category used by the board game. Sources must not
// pre-shuffle; all ordering is owned by the engine.
type Card struct {
	ID       string `json:"id"`
	Front    string `json:"front"`
	Back     string `json:"back"`
	Category string `json:"category,omitempty"`
}

// Submission is one explanation written during the explain phase. AuthorID
// stays engine-side until the results phase; only SubmissionView projections
// are exposed before that.
type Submission struct {
	ID       string
	AuthorID string
	Text     string
}

// SubmissionView is the author-less projection of a submission shown to voters.
type SubmissionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Round tracks the item currently in play. A Round is created when an
// act-phase begins and replaced when the next round starts or the game ends.
type Round struct {
	Item      Item
	Index     int
	Remaining int // seconds left on the countdown
	Resolved  bool
}
