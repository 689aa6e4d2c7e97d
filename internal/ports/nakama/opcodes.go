package nakama

// Op codes for client messages and server events. Payloads are JSON.
const (
	// Client -> Server
	OpAddParticipant    int64 = 1
	OpRemoveParticipant int64 = 2
	OpStartGame         int64 = 3
	OpSubmitAnswer      int64 = 4
	OpSubmitExplanation int64 = 5
	OpCastVote          int64 = 6
	OpDeclineVote       int64 = 7
	OpNextRound         int64 = 8
	OpPickCell          int64 = 9
	OpAwardScore        int64 = 10
	OpSkipCell          int64 = 11
	OpReplay            int64 = 12

	// Server -> Client events
	OpParticipantJoined     int64 = 101
	OpParticipantLeft       int64 = 102
	OpGameStarted           int64 = 103
	OpRoundStarted          int64 = 104
	OpAnswerResolved        int64 = 105
	OpParticipantEliminated int64 = 106
	OpGameEnded             int64 = 107
	OpExplanationSubmitted  int64 = 108
	OpVotingStarted         int64 = 109
	OpVoteCast              int64 = 110
	OpRoundResults          int64 = 111
	OpCellPicked            int64 = 112
	OpScoreAwarded          int64 = 113
	OpReturnedToLobby       int64 = 114

	OpGameError int64 = 120
)
