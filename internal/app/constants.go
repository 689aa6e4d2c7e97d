package app

const (
	// MinParticipantsToStart is the default roster floor for every variant.
	MinParticipantsToStart = 2

	// PlaceholderExplanation stands in for an author who ran out the clock.
	PlaceholderExplanation = "(No explanation submitted)"

	BoardCategories = 5
	BoardRows       = 5
	MinBoardItems   = BoardCategories * BoardRows
)

// BoardPoints is the point value per row of the trivia board.
var BoardPoints = [BoardRows]int{100, 200, 300, 400, 500}
