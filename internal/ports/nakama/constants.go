package nakama

const (
	// RPC ids clients call to create, find or share rooms.
	RpcCreateRoom = "create_room"
	RpcFindRoom   = "find_room"
	RpcRoomToken  = "room_token"

	// Authoritative match handler names registered with Nakama, one per
	// game variant.
	MatchNameSurvival = "survival_match"
	MatchNameExplain  = "explain_match"
	MatchNameBoard    = "board_match"

	MatchLabelKey_Open  = "open"
	MatchLabelKey_Game  = "game"
	MatchLabelKey_Phase = "phase"
)
