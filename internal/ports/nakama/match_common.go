package nakama

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/heroiclabs/nakama-common/runtime"

	"studyparty/internal/app"
	"studyparty/internal/content"
	"studyparty/internal/domain"
	"studyparty/internal/ports"
)

// roomState is the adapter bookkeeping shared by every match variant. The
// owner presence is the pass-and-play device; only its messages mutate the
// game, every other presence is a read-only spectator.
type roomState struct {
	Presences map[string]runtime.Presence `json:"-"`
	OwnerID   string                      `json:"owner_id"`
	Sync      *dispatcherSync             `json:"-"`
	DeckID    string                      `json:"deck_id"`
}

func newRoomState(params map[string]interface{}) *roomState {
	rs := &roomState{
		Presences: make(map[string]runtime.Presence),
		Sync:      &dispatcherSync{},
	}
	if v, ok := params["deck_id"].(string); ok {
		rs.DeckID = v
	}
	return rs
}

func (rs *roomState) join(presences []runtime.Presence) {
	for _, p := range presences {
		rs.Presences[p.GetUserId()] = p
	}
	if rs.OwnerID == "" {
		for _, p := range presences {
			rs.OwnerID = p.GetUserId()
			break
		}
	}
}

// leave drops the presences and reassigns ownership when the owner device
// disconnects. It reports whether any presence remains.
func (rs *roomState) leave(presences []runtime.Presence) bool {
	for _, p := range presences {
		delete(rs.Presences, p.GetUserId())
	}
	if _, ok := rs.Presences[rs.OwnerID]; !ok {
		rs.OwnerID = ""
		for uid := range rs.Presences {
			rs.OwnerID = uid
			break
		}
	}
	return len(rs.Presences) > 0
}

func (rs *roomState) isOwner(userID string) bool {
	return rs.OwnerID != "" && rs.OwnerID == userID
}

// matchLabel is published as JSON so lobby queries can filter on open
// rooms, game variant and phase.
type matchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

func encodeLabel(game string, phase domain.Phase) string {
	open := 0
	if phase == domain.PhaseLobby {
		open = 1
	}
	b, _ := json.Marshal(matchLabel{Open: open, Game: game, Phase: string(phase)})
	return string(b)
}

func updateLabel(dispatcher runtime.MatchDispatcher, logger runtime.Logger, game string, phase domain.Phase) {
	if err := dispatcher.MatchLabelUpdate(encodeLabel(game, phase)); err != nil {
		logger.Error("updateLabel: failed to update: %v", err)
	}
}

type gameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// sendError reports a rejected operation to the sender only.
func sendError(rs *roomState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, err error) {
	presence, ok := rs.Presences[userID]
	if !ok {
		logger.Warn("sendError: presence %s not found", userID)
		return
	}
	data, _ := json.Marshal(gameErrorEvent{Code: 400, Message: err.Error()})
	if err := dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("sendError: failed to send: %v", err)
	}
}

// Client request payloads, all JSON.
type (
	addParticipantRequest struct {
		Name string `json:"name"`
	}
	removeParticipantRequest struct {
		ParticipantID string `json:"participant_id"`
	}
	submitAnswerRequest struct {
		ParticipantID string `json:"participant_id"`
		Choice        string `json:"choice"`
	}
	submitExplanationRequest struct {
		ParticipantID string `json:"participant_id"`
		Text          string `json:"text"`
	}
	castVoteRequest struct {
		ParticipantID string `json:"participant_id"`
		SubmissionID  string `json:"submission_id"`
	}
	declineVoteRequest struct {
		ParticipantID string `json:"participant_id"`
	}
	pickCellRequest struct {
		ParticipantID string `json:"participant_id"`
		Category      int    `json:"category"`
		Row           int    `json:"row"`
	}
	awardScoreRequest struct {
		// ParticipantID names who answered; empty credits the current
		// picker.
		ParticipantID string `json:"participant_id,omitempty"`
		Correct       bool   `json:"correct"`
	}
)

func decode(data []byte, dst any, logger runtime.Logger) bool {
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Warn("decode: invalid payload: %v", err)
		return false
	}
	return true
}

// fetchDeckItems loads the room's deck from the content source. A missing
// or unnamed deck falls back to the built-in demo cards so a room can
// always start.
func fetchDeckItems(ctx context.Context, logger runtime.Logger, source ports.ContentSource, deckID string) []domain.Item {
	if source != nil && deckID != "" {
		cards, err := source.Cards(ctx, deckID)
		if err == nil && len(cards) > 0 {
			return domain.ItemsFromCards(cards)
		}
		if err != nil && !errors.Is(err, content.ErrDeckNotFound) {
			logger.Error("fetchDeckItems: deck %s: %v", deckID, err)
		} else {
			logger.Warn("fetchDeckItems: deck %s unavailable, using demo cards", deckID)
		}
	}
	return domain.ItemsFromCards(content.DemoCards())
}

// handleStartError is the shared policy for a failed start: too few
// participants is a logged no-op, anything else goes back to the sender.
func handleStartError(rs *roomState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, err error) {
	if errors.Is(err, app.ErrInsufficientPlayers) {
		logger.Warn("StartGame: not enough participants, ignoring request")
		return
	}
	logger.Warn("StartGame: %v", err)
	sendError(rs, dispatcher, logger, userID, err)
}
