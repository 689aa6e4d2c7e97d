package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	"studyparty/internal/config"
	"studyparty/internal/content"
)

// InitModule wires RPCs and match handlers for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("InitModule: could not load game config, using defaults: %v", err)
	}

	store := content.NewMemoryDeckStore()
	store.Put("demo", content.DemoCards())
	store.Put("demo-board", content.DemoBoardCards())

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	matches := map[string]runtime.Match{
		MatchNameSurvival: newSurvivalHandler(store),
		MatchNameExplain:  newExplainHandler(store),
		MatchNameBoard:    newBoardHandler(store),
	}
	for name, handler := range matches {
		h := handler
		if err := initializer.RegisterMatch(name, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
			return h, nil
		}); err != nil {
			return err
		}
	}

	logger.Info("StudyParty Go module loaded.")
	return nil
}

// RegisterRPCs registers the room lifecycle RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcCreateRoom, RpcCreateRoomFn); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcFindRoom, RpcFindRoomFn); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcRoomToken, RpcRoomTokenFn)
}
