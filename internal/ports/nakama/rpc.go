package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"studyparty/internal/app"
	"studyparty/internal/config"
)

var matchNames = map[string]string{
	"survival": MatchNameSurvival,
	"explain":  MatchNameExplain,
	"board":    MatchNameBoard,
}

// CreateRoomRequest picks the game variant and optionally the deck the
// room plays from.
type CreateRoomRequest struct {
	Game   string `json:"game"`
	DeckID string `json:"deck_id,omitempty"`
}

type CreateRoomResponse struct {
	MatchID string `json:"match_id"`
}

// RpcCreateRoomFn creates a new authoritative match for the requested game
// variant and returns its id.
func RpcCreateRoomFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req CreateRoomRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", fmt.Errorf("invalid create_room payload: %w", err)
	}
	moduleName, ok := matchNames[req.Game]
	if !ok {
		return "", fmt.Errorf("unknown game variant: %q", req.Game)
	}

	params := map[string]interface{}{}
	if req.DeckID != "" {
		params["deck_id"] = req.DeckID
	}
	matchID, err := nk.MatchCreate(ctx, moduleName, params)
	if err != nil {
		logger.Error("RpcCreateRoom: MatchCreate error: %v", err)
		return "", err
	}

	b, _ := json.Marshal(CreateRoomResponse{MatchID: matchID})
	return string(b), nil
}

type FindRoomRequest struct {
	Game string `json:"game"`
}

type FindRoomResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RpcFindRoomFn returns a joinable room for the given variant, creating one
// when no open room exists.
func RpcFindRoomFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req FindRoomRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", fmt.Errorf("invalid find_room payload: %w", err)
	}
	moduleName, ok := matchNames[req.Game]
	if !ok {
		return "", fmt.Errorf("unknown game variant: %q", req.Game)
	}

	query := fmt.Sprintf("+label.%s:>=1 +label.%s:%s", MatchLabelKey_Open, MatchLabelKey_Game, req.Game)
	limit := 1
	authoritative := true
	minSize := 0
	maxSize := 100

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("RpcFindRoom: MatchList error: %v", err)
		return "", err
	}
	if len(matches) > 0 {
		b, _ := json.Marshal(FindRoomResponse{MatchID: matches[0].MatchId, IsNew: false})
		return string(b), nil
	}

	matchID, err := nk.MatchCreate(ctx, moduleName, map[string]interface{}{})
	if err != nil {
		logger.Error("RpcFindRoom: MatchCreate error: %v", err)
		return "", err
	}
	b, _ := json.Marshal(FindRoomResponse{MatchID: matchID, IsNew: true})
	return string(b), nil
}

type RoomTokenRequest struct {
	Name   string `json:"name"`
	RoomID string `json:"room_id"`
}

type RoomTokenResponse struct {
	Token string `json:"token"`
}

// RpcRoomTokenFn issues a signed invite token a spectator device presents
// to follow a room.
func RpcRoomTokenFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req RoomTokenRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", fmt.Errorf("invalid room_token payload: %w", err)
	}

	cfg := config.GetGameConfig()
	tokens := app.NewTokenService(cfg.InviteSecret, cfg.InviteIssuer, time.Duration(cfg.InviteTTLMinutes)*time.Minute)
	token, err := tokens.IssueToken(req.Name, req.RoomID)
	if err != nil {
		logger.Warn("RpcRoomToken: %v", err)
		return "", err
	}

	b, _ := json.Marshal(RoomTokenResponse{Token: token})
	return string(b), nil
}
