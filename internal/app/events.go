package app

import (
	"studyparty/internal/domain"
	"studyparty/internal/ports"
)

// Event kinds broadcast to room listeners.
const (
	EventParticipantJoined     = "participant_joined"
	EventParticipantLeft       = "participant_left"
	EventGameStarted           = "game_started"
	EventRoundStarted          = "round_started"
	EventAnswerResolved        = "answer_resolved"
	EventParticipantEliminated = "participant_eliminated"
	EventGameEnded             = "game_ended"
	EventExplanationSubmitted  = "explanation_submitted"
	EventVotingStarted         = "voting_started"
	EventVoteCast              = "vote_cast"
	EventRoundResults          = "round_results"
	EventCellPicked            = "cell_picked"
	EventScoreAwarded          = "score_awarded"
	EventReturnedToLobby       = "returned_to_lobby"
)

type ParticipantPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Host bool   `json:"host"`
}

type GameStartedPayload struct {
	Rounds       int      `json:"rounds"`
	Participants []string `json:"participants"`
}

type RoundStartedPayload struct {
	Round       int      `json:"round"`
	Prompt      string   `json:"prompt"`
	Choices     []string `json:"choices,omitempty"`
	ResponderID string   `json:"responder_id,omitempty"`
	Seconds     int      `json:"seconds"`
}

type AnswerResolvedPayload struct {
	ParticipantID string `json:"participant_id"`
	Correct       bool   `json:"correct"`
	TimedOut      bool   `json:"timed_out"`
	Answer        string `json:"answer"`
}

type EliminatedPayload struct {
	ParticipantID string `json:"participant_id"`
	Round         int    `json:"round"`
}

type GameEndedPayload struct {
	WinnerID   string         `json:"winner_id,omitempty"`
	WinnerName string         `json:"winner_name,omitempty"`
	Scores     map[string]int `json:"scores,omitempty"`
}

type VotingStartedPayload struct {
	Term        string                  `json:"term"`
	Submissions []domain.SubmissionView `json:"submissions"`
}

type RoundResultsPayload struct {
	Term         string `json:"term"`
	Definition   string `json:"definition"`
	WinnerID     string `json:"winner_id,omitempty"`
	WinningText  string `json:"winning_text,omitempty"`
	VotesForBest int    `json:"votes_for_best"`
}

type CellPickedPayload struct {
	Category string `json:"category"`
	Row      int    `json:"row"`
	Points   int    `json:"points"`
	Prompt   string `json:"prompt"`
}

type ScoreAwardedPayload struct {
	ParticipantID string `json:"participant_id"`
	Delta         int    `json:"delta"`
	Total         int    `json:"total"`
}

func emit(sync ports.RoomSync, roomID, kind string, payload any) {
	if sync == nil {
		return
	}
	sync.Broadcast(roomID, kind, payload)
}
