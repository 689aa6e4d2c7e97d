package nakama

import (
	"context"
	"database/sql"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"studyparty/internal/app"
	"studyparty/internal/config"
	"studyparty/internal/content"
	"studyparty/internal/domain"
	"studyparty/internal/ports"
)

// ExplainMatchState holds the authoritative state for one explanation room.
type ExplainMatchState struct {
	*roomState
	Service *app.ExplainService `json:"-"`
	Game    *app.ExplainGame    `json:"-"`
	Source  ports.ContentSource `json:"-"`
}

func newExplainHandler(source ports.ContentSource) *explainHandler {
	return &explainHandler{source: source}
}

type explainHandler struct {
	source ports.ContentSource
}

func (mh *explainHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	cfg := config.GetGameConfig()
	rs := newRoomState(params)
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	service := app.NewExplainService(rs.Sync, rand.New(rand.NewSource(time.Now().UnixNano())))
	state := &ExplainMatchState{
		roomState: rs,
		Service:   service,
		Source:    mh.source,
		Game: service.NewGame(matchID, app.ExplainConfig{
			MinParticipants: cfg.MinParticipants,
			RoundCap:        cfg.RoundCap,
			TimerSeconds:    cfg.ExplainTimerSeconds,
		}),
	}

	tickRate := 1
	return state, tickRate, encodeLabel("explain", domain.PhaseLobby)
}

func (mh *explainHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	return state, true, ""
}

func (mh *explainHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*ExplainMatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	matchState.Sync.update(dispatcher, logger)
	matchState.join(presences)
	return matchState
}

func (mh *explainHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*ExplainMatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}
	matchState.Sync.update(dispatcher, logger)
	if !matchState.leave(presences) {
		logger.Info("MatchLeave: terminating empty room")
		return nil
	}
	return matchState
}

func (mh *explainHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*ExplainMatchState)
	if !ok {
		return state
	}
	matchState.Sync.update(dispatcher, logger)
	phaseBefore := matchState.Game.Phase

	for _, msg := range messages {
		if !matchState.isOwner(msg.GetUserId()) {
			logger.Warn("MatchLoop: ignoring op %d from non-owner %s", msg.GetOpCode(), msg.GetUserId())
			continue
		}
		mh.handleMessage(ctx, matchState, dispatcher, logger, msg)
	}

	matchState.Service.Tick(matchState.Game)

	if matchState.Game.Phase != phaseBefore {
		updateLabel(dispatcher, logger, "explain", matchState.Game.Phase)
	}
	return matchState
}

// fetchTerms loads term items for the explanation game. Deck cards double
// as terms, with the front as the term and the back as its definition.
func (mh *explainHandler) fetchTerms(ctx context.Context, logger runtime.Logger, state *ExplainMatchState) []domain.Item {
	if state.Source != nil && state.DeckID != "" {
		return fetchDeckItems(ctx, logger, state.Source, state.DeckID)
	}
	return content.DemoTerms()
}

func (mh *explainHandler) handleMessage(ctx context.Context, state *ExplainMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	var err error

	switch msg.GetOpCode() {
	case OpAddParticipant:
		var req addParticipantRequest
		if !decode(msg.GetData(), &req, logger) {
			return
		}
		_, err = state.Service.AddParticipant(state.Game, req.Name)
	case OpRemoveParticipant:
		var req removeParticipantRequest
		if !decode(msg.GetData(), &req, logger) {
			return
		}
		err = state.Service.RemoveParticipant(state.Game, req.ParticipantID)
	case OpStartGame:
		terms := mh.fetchTerms(ctx, logger, state)
		if err = state.Service.Start(state.Game, terms); err != nil {
			handleStartError(state.roomState, dispatcher, logger, senderID, err)
			return
		}
	case OpSubmitExplanation:
		var req submitExplanationRequest
		if !decode(msg.GetData(), &req, logger) {
			return
		}
		err = state.Service.SubmitExplanation(state.Game, req.ParticipantID, req.Text)
	case OpCastVote:
		var req castVoteRequest
		if !decode(msg.GetData(), &req, logger) {
			return
		}
		err = state.Service.CastVote(state.Game, req.ParticipantID, req.SubmissionID)
	case OpDeclineVote:
		var req declineVoteRequest
		if !decode(msg.GetData(), &req, logger) {
			return
		}
		err = state.Service.DeclineVote(state.Game, req.ParticipantID)
	case OpNextRound:
		err = state.Service.NextRound(state.Game)
	case OpReplay:
		err = state.Service.Replay(state.Game)
	default:
		logger.Warn("MatchLoop: unknown opcode received: %d", msg.GetOpCode())
		return
	}

	if err != nil {
		logger.Warn("MatchLoop: op %d from %s rejected: %v", msg.GetOpCode(), senderID, err)
		sendError(state.roomState, dispatcher, logger, senderID, err)
	}
}

func (mh *explainHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: match terminated for reason %d", reason)
	return state
}

func (mh *explainHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
