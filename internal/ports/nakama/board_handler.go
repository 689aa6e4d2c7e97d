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

// BoardMatchState holds the authoritative state for one trivia board room.
type BoardMatchState struct {
	*roomState
	Service *app.BoardService   `json:"-"`
	Game    *app.BoardGame      `json:"-"`
	Source  ports.ContentSource `json:"-"`
}

func newBoardHandler(source ports.ContentSource) *boardHandler {
	return &boardHandler{source: source}
}

type boardHandler struct {
	source ports.ContentSource
}

func (mh *boardHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	cfg := config.GetGameConfig()
	rs := newRoomState(params)
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	service := app.NewBoardService(rs.Sync, rand.New(rand.NewSource(time.Now().UnixNano())))
	state := &BoardMatchState{
		roomState: rs,
		Service:   service,
		Source:    mh.source,
		Game: service.NewGame(matchID, app.BoardConfig{
			MinParticipants: cfg.MinParticipants,
		}),
	}

	tickRate := 1
	return state, tickRate, encodeLabel("board", domain.PhaseLobby)
}

func (mh *boardHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	return state, true, ""
}

func (mh *boardHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*BoardMatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	matchState.Sync.update(dispatcher, logger)
	matchState.join(presences)
	return matchState
}

func (mh *boardHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*BoardMatchState)
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

func (mh *boardHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*BoardMatchState)
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

	if matchState.Game.Phase != phaseBefore {
		updateLabel(dispatcher, logger, "board", matchState.Game.Phase)
	}
	return matchState
}

// fetchBoardItems loads the room's deck, falling back to the categorized
// demo board when the deck is missing or too small to fill the grid.
func (mh *boardHandler) fetchBoardItems(ctx context.Context, logger runtime.Logger, state *BoardMatchState) []domain.Item {
	if state.Source != nil && state.DeckID != "" {
		items := fetchDeckItems(ctx, logger, state.Source, state.DeckID)
		if len(items) >= app.MinBoardItems {
			return items
		}
		logger.Warn("fetchBoardItems: deck %s has %d items, need %d; using demo board", state.DeckID, len(items), app.MinBoardItems)
	}
	return domain.ItemsFromCards(content.DemoBoardCards())
}

func (mh *boardHandler) handleMessage(ctx context.Context, state *BoardMatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
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
		items := mh.fetchBoardItems(ctx, logger, state)
		if err = state.Service.Start(state.Game, items); err != nil {
			handleStartError(state.roomState, dispatcher, logger, senderID, err)
			return
		}
	case OpPickCell:
		var req pickCellRequest
		if !decode(msg.GetData(), &req, logger) {
			return
		}
		err = state.Service.PickCell(state.Game, req.ParticipantID, req.Category, req.Row)
	case OpAwardScore:
		var req awardScoreRequest
		if !decode(msg.GetData(), &req, logger) {
			return
		}
		err = state.Service.Award(state.Game, req.ParticipantID, req.Correct)
	case OpSkipCell:
		err = state.Service.Skip(state.Game)
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

func (mh *boardHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: match terminated for reason %d", reason)
	return state
}

func (mh *boardHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
