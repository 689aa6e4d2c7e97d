package nakama

import (
	"context"
	"database/sql"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"studyparty/internal/app"
	"studyparty/internal/config"
	"studyparty/internal/domain"
	"studyparty/internal/ports"
)

// SurvivalMatchState holds the authoritative state for one elimination quiz
// room.
type SurvivalMatchState struct {
	*roomState
	Service *app.SurvivalService `json:"-"`
	Game    *app.SurvivalGame    `json:"-"`
	Source  ports.ContentSource  `json:"-"`
}

func newSurvivalHandler(source ports.ContentSource) *survivalHandler {
	return &survivalHandler{source: source}
}

type survivalHandler struct {
	source ports.ContentSource
}

func (mh *survivalHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	cfg := config.GetGameConfig()
	rs := newRoomState(params)
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	service := app.NewSurvivalService(rs.Sync, rand.New(rand.NewSource(time.Now().UnixNano())))
	state := &SurvivalMatchState{
		roomState: rs,
		Service:   service,
		Source:    mh.source,
		Game: service.NewGame(matchID, app.SurvivalConfig{
			MinParticipants: cfg.MinParticipants,
			RoundCap:        cfg.RoundCap,
			ChoiceCount:     cfg.ChoiceCount,
			Timer: domain.TimerPlan{
				BaseSeconds:  cfg.TimerBaseSeconds,
				StepSeconds:  cfg.TimerStepSeconds,
				FloorSeconds: cfg.TimerFloorSeconds,
			},
			EliminationRate: cfg.EliminationRate,
		}),
	}

	tickRate := 1
	return state, tickRate, encodeLabel("survival", domain.PhaseLobby)
}

func (mh *survivalHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	return state, true, ""
}

func (mh *survivalHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*SurvivalMatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	matchState.Sync.update(dispatcher, logger)
	matchState.join(presences)
	return matchState
}

func (mh *survivalHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*SurvivalMatchState)
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

func (mh *survivalHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*SurvivalMatchState)
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
		updateLabel(dispatcher, logger, "survival", matchState.Game.Phase)
	}
	return matchState
}

func (mh *survivalHandler) handleMessage(ctx context.Context, state *SurvivalMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
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
		items := fetchDeckItems(ctx, logger, state.Source, state.DeckID)
		if err = state.Service.Start(state.Game, items); err != nil {
			handleStartError(state.roomState, dispatcher, logger, senderID, err)
			return
		}
	case OpSubmitAnswer:
		var req submitAnswerRequest
		if !decode(msg.GetData(), &req, logger) {
			return
		}
		err = state.Service.Answer(state.Game, req.ParticipantID, req.Choice)
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

func (mh *survivalHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: match terminated for reason %d", reason)
	return state
}

func (mh *survivalHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
