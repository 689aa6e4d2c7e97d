package nakama

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/heroiclabs/nakama-common/runtime"

	"studyparty/internal/app"
	"studyparty/internal/content"
	"studyparty/internal/domain"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy
// the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	broadcasts   []broadcastCall
	labelUpdates []string
}

type broadcastCall struct {
	opCode    int64
	data      []byte
	presences []runtime.Presence
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcasts = append(md.broadcasts, broadcastCall{
		opCode:    opCode,
		data:      append([]byte(nil), data...),
		presences: presences,
	})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates = append(md.labelUpdates, label)
	return nil
}

func (md *mockDispatcher) lastOp(opCode int64) ([]byte, bool) {
	for i := len(md.broadcasts) - 1; i >= 0; i-- {
		if md.broadcasts[i].opCode == opCode {
			return md.broadcasts[i].data, true
		}
	}
	return nil, false
}

func (md *mockDispatcher) countOp(opCode int64) int {
	n := 0
	for _, b := range md.broadcasts {
		if b.opCode == opCode {
			n++
		}
	}
	return n
}

// mockPresence is a minimal runtime.Presence for join/leave tests.
type mockPresence struct {
	userID string
}

func (mp mockPresence) GetUserId() string                  { return mp.userID }
func (mp mockPresence) GetSessionId() string               { return "session-" + mp.userID }
func (mp mockPresence) GetNodeId() string                  { return "node" }
func (mp mockPresence) GetHidden() bool                    { return false }
func (mp mockPresence) GetPersistence() bool               { return false }
func (mp mockPresence) GetUsername() string                { return mp.userID }
func (mp mockPresence) GetStatus() string                  { return "" }
func (mp mockPresence) GetReason() runtime.PresenceReason  { return runtime.PresenceReasonUnknown }

// mockMatchData carries one client message through MatchLoop.
type mockMatchData struct {
	mockPresence
	opCode int64
	data   []byte
}

func (md mockMatchData) GetOpCode() int64      { return md.opCode }
func (md mockMatchData) GetData() []byte       { return md.data }
func (md mockMatchData) GetReliable() bool     { return true }
func (md mockMatchData) GetReceiveTime() int64 { return 0 }

func message(t *testing.T, userID string, opCode int64, payload any) runtime.MatchData {
	t.Helper()
	var data []byte
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}
	return mockMatchData{mockPresence: mockPresence{userID: userID}, opCode: opCode, data: data}
}

func newSurvivalMatch(t *testing.T) (*survivalHandler, *SurvivalMatchState, *mockDispatcher) {
	t.Helper()
	store := content.NewMemoryDeckStore()
	handler := newSurvivalHandler(store)
	raw, tickRate, label := handler.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{})
	if tickRate != 1 {
		t.Fatalf("tick rate = %d, want 1", tickRate)
	}
	var parsed matchLabel
	if err := json.Unmarshal([]byte(label), &parsed); err != nil {
		t.Fatalf("label is not JSON: %v", err)
	}
	if parsed.Game != "survival" || parsed.Phase != string(domain.PhaseLobby) || parsed.Open != 1 {
		t.Fatalf("unexpected initial label: %s", label)
	}
	state := raw.(*SurvivalMatchState)
	dispatcher := &mockDispatcher{}
	handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{mockPresence{userID: "device-1"}})
	return handler, state, dispatcher
}

func loop(handler *survivalHandler, state *SurvivalMatchState, dispatcher *mockDispatcher, messages ...runtime.MatchData) {
	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, messages)
}

func TestSurvivalMatchLobbyAndStart(t *testing.T) {
	handler, state, dispatcher := newSurvivalMatch(t)

	loop(handler, state, dispatcher,
		message(t, "device-1", OpAddParticipant, addParticipantRequest{Name: "Alice"}),
		message(t, "device-1", OpAddParticipant, addParticipantRequest{Name: "Bob"}),
	)
	if got := state.Game.Roster.Len(); got != 2 {
		t.Fatalf("roster = %d, want 2", got)
	}
	if dispatcher.countOp(OpParticipantJoined) != 2 {
		t.Fatal("expected a participant_joined broadcast per join")
	}

	loop(handler, state, dispatcher, message(t, "device-1", OpStartGame, nil))
	if state.Game.Phase != domain.PhasePlaying {
		t.Fatalf("phase = %s, want playing", state.Game.Phase)
	}
	if _, ok := dispatcher.lastOp(OpRoundStarted); !ok {
		t.Fatal("missing round_started broadcast")
	}
	if len(dispatcher.labelUpdates) == 0 {
		t.Fatal("label should update when phase changes")
	}
	var label matchLabel
	if err := json.Unmarshal([]byte(dispatcher.labelUpdates[len(dispatcher.labelUpdates)-1]), &label); err != nil {
		t.Fatalf("label is not JSON: %v", err)
	}
	if label.Phase != string(domain.PhasePlaying) || label.Open != 0 {
		t.Fatalf("unexpected label after start: %+v", label)
	}
}

// A start request with only one participant is ignored, not an error sent
// back to the device.
func TestSurvivalMatchStartBelowMinimumIsNoOp(t *testing.T) {
	handler, state, dispatcher := newSurvivalMatch(t)

	loop(handler, state, dispatcher,
		message(t, "device-1", OpAddParticipant, addParticipantRequest{Name: "Alice"}),
		message(t, "device-1", OpStartGame, nil),
	)
	if state.Game.Phase != domain.PhaseLobby {
		t.Fatalf("phase = %s, want lobby", state.Game.Phase)
	}
	if dispatcher.countOp(OpGameError) != 0 {
		t.Fatal("below-minimum start should not produce a game error broadcast")
	}
}

func TestSurvivalMatchIgnoresNonOwnerMessages(t *testing.T) {
	handler, state, dispatcher := newSurvivalMatch(t)
	handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{mockPresence{userID: "spectator"}})

	loop(handler, state, dispatcher,
		message(t, "spectator", OpAddParticipant, addParticipantRequest{Name: "Mallory"}),
	)
	if got := state.Game.Roster.Len(); got != 0 {
		t.Fatalf("roster = %d, want 0 after non-owner message", got)
	}
}

func TestSurvivalMatchRejectedOpSendsErrorToSender(t *testing.T) {
	handler, state, dispatcher := newSurvivalMatch(t)
	loop(handler, state, dispatcher,
		message(t, "device-1", OpAddParticipant, addParticipantRequest{Name: "Alice"}),
		message(t, "device-1", OpAddParticipant, addParticipantRequest{Name: "Bob"}),
		message(t, "device-1", OpStartGame, nil),
	)

	// Answering from a participant who is not the responder is rejected.
	responder := state.Game.Rotation.Responder(&state.Game.Roster)
	var other *domain.Participant
	for _, p := range state.Game.Roster.Participants() {
		if p.ID != responder.ID {
			other = p
		}
	}
	loop(handler, state, dispatcher,
		message(t, "device-1", OpSubmitAnswer, submitAnswerRequest{ParticipantID: other.ID, Choice: "x"}),
	)

	data, ok := dispatcher.lastOp(OpGameError)
	if !ok {
		t.Fatal("missing game_error broadcast")
	}
	var ge gameErrorEvent
	if err := json.Unmarshal(data, &ge); err != nil {
		t.Fatalf("game error is not JSON: %v", err)
	}
	if ge.Message != app.ErrNotYourTurn.Error() {
		t.Fatalf("error message = %q, want %q", ge.Message, app.ErrNotYourTurn.Error())
	}
}

func TestSurvivalMatchTerminatesWhenEmpty(t *testing.T) {
	handler, state, dispatcher := newSurvivalMatch(t)
	next := handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{mockPresence{userID: "device-1"}})
	if next != nil {
		t.Fatal("match should terminate when the last presence leaves")
	}
}

func TestRoomStateOwnerReassignment(t *testing.T) {
	rs := newRoomState(map[string]interface{}{"deck_id": "biology"})
	if rs.DeckID != "biology" {
		t.Fatalf("deck id = %q, want biology", rs.DeckID)
	}

	rs.join([]runtime.Presence{mockPresence{userID: "a"}})
	rs.join([]runtime.Presence{mockPresence{userID: "b"}})
	if rs.OwnerID != "a" {
		t.Fatalf("owner = %s, want a", rs.OwnerID)
	}

	if !rs.leave([]runtime.Presence{mockPresence{userID: "a"}}) {
		t.Fatal("room should still have a presence")
	}
	if rs.OwnerID != "b" {
		t.Fatalf("owner = %s, want b after reassignment", rs.OwnerID)
	}
	if rs.leave([]runtime.Presence{mockPresence{userID: "b"}}) {
		t.Fatal("room should report empty after last leave")
	}
}

func TestDispatcherSyncMapsEventsToOpCodes(t *testing.T) {
	dispatcher := &mockDispatcher{}
	sync := &dispatcherSync{}
	sync.update(dispatcher, noopLogger{})

	sync.Broadcast("room-1", app.EventRoundStarted, app.RoundStartedPayload{Round: 2, Prompt: "Q", Seconds: 10})

	data, ok := dispatcher.lastOp(OpRoundStarted)
	if !ok {
		t.Fatal("round_started was not dispatched")
	}
	var p app.RoundStartedPayload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if p.Round != 2 || p.Prompt != "Q" {
		t.Fatalf("unexpected payload: %+v", p)
	}

	sync.Broadcast("room-1", "nonexistent_event", nil)
	if len(dispatcher.broadcasts) != 1 {
		t.Fatal("unknown event kinds must not be dispatched")
	}
}

func TestExplainMatchFlow(t *testing.T) {
	store := content.NewMemoryDeckStore()
	handler := newExplainHandler(store)
	raw, _, _ := handler.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{})
	state := raw.(*ExplainMatchState)
	dispatcher := &mockDispatcher{}
	handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{mockPresence{userID: "device-1"}})

	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.MatchData{
		message(t, "device-1", OpAddParticipant, addParticipantRequest{Name: "Alice"}),
		message(t, "device-1", OpAddParticipant, addParticipantRequest{Name: "Bob"}),
		message(t, "device-1", OpStartGame, nil),
	})
	if state.Game.Phase != domain.PhaseExplain {
		t.Fatalf("phase = %s, want explain", state.Game.Phase)
	}

	for state.Game.Phase == domain.PhaseExplain {
		author := state.Game.CurrentAuthor()
		handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.MatchData{
			message(t, "device-1", OpSubmitExplanation, submitExplanationRequest{ParticipantID: author.ID, Text: "an explanation"}),
		})
	}
	if state.Game.Phase != domain.PhaseVote {
		t.Fatalf("phase = %s, want vote", state.Game.Phase)
	}
	if _, ok := dispatcher.lastOp(OpVotingStarted); !ok {
		t.Fatal("missing voting_started broadcast")
	}
}

func TestBoardMatchStartUsesDemoBoardFallback(t *testing.T) {
	store := content.NewMemoryDeckStore()
	handler := newBoardHandler(store)
	raw, _, _ := handler.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{})
	state := raw.(*BoardMatchState)
	dispatcher := &mockDispatcher{}
	handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{mockPresence{userID: "device-1"}})

	handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.MatchData{
		message(t, "device-1", OpAddParticipant, addParticipantRequest{Name: "Alice"}),
		message(t, "device-1", OpAddParticipant, addParticipantRequest{Name: "Bob"}),
		message(t, "device-1", OpStartGame, nil),
	})
	if state.Game.Phase != domain.PhasePlaying {
		t.Fatalf("phase = %s, want playing", state.Game.Phase)
	}
	for col := 0; col < app.BoardCategories; col++ {
		if state.Game.Categories[col] == "" {
			t.Fatalf("column %d has no category", col)
		}
	}
}
