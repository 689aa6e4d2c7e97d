package app

import (
	"math/rand"
	"sort"

	"studyparty/internal/domain"
	"studyparty/internal/ports"
)

// BoardConfig tunes the trivia board game.
type BoardConfig struct {
	MinParticipants int
}

// BoardCell is one pickable question on the board.
type BoardCell struct {
	Item     domain.Item
	Points   int
	Answered bool
}

// BoardGame is the state of one trivia board room. The board is a fixed
// 5x5 grid of columns keyed by category.
type BoardGame struct {
	RoomID string
	Phase  domain.Phase
	Roster domain.Roster
	Config BoardConfig

	Categories [BoardCategories]string
	Cells      [BoardCategories][BoardRows]BoardCell

	// Selected points at the cell being answered, or nil between picks.
	Selected *BoardCell
	Rotation domain.TurnRotation
}

// BoardService runs trivia board rooms. All methods mutate the game in
// place and must be called from a single goroutine.
type BoardService struct {
	sync ports.RoomSync
	rng  *rand.Rand
}

func NewBoardService(sync ports.RoomSync, rng *rand.Rand) *BoardService {
	return &BoardService{sync: sync, rng: rng}
}

func (s *BoardService) NewGame(roomID string, cfg BoardConfig) *BoardGame {
	if cfg.MinParticipants <= 0 {
		cfg.MinParticipants = MinParticipantsToStart
	}
	return &BoardGame{
		RoomID: roomID,
		Phase:  domain.PhaseLobby,
		Config: cfg,
	}
}

func (s *BoardService) AddParticipant(g *BoardGame, name string) (*domain.Participant, error) {
	if g.Phase != domain.PhaseLobby {
		return nil, ErrInvalidState
	}
	p, err := g.Roster.Add(name)
	if err != nil {
		return nil, err
	}
	emit(s.sync, g.RoomID, EventParticipantJoined, ParticipantPayload{ID: p.ID, Name: p.Name, Host: p.IsHost})
	return p, nil
}

func (s *BoardService) RemoveParticipant(g *BoardGame, id string) error {
	if g.Phase != domain.PhaseLobby {
		return ErrInvalidState
	}
	if !g.Roster.Remove(id) {
		return ErrUnknownParticipant
	}
	emit(s.sync, g.RoomID, EventParticipantLeft, ParticipantPayload{ID: id})
	return nil
}

// Start fills the board from the first 25 items of the shuffled deck. Row
// values run 100 through 500 down each column.
func (s *BoardService) Start(g *BoardGame, items []domain.Item) error {
	if g.Phase != domain.PhaseLobby {
		return ErrInvalidState
	}
	if g.Roster.Len() < g.Config.MinParticipants {
		return ErrInsufficientPlayers
	}
	if len(items) < MinBoardItems {
		return ErrNoContent
	}

	columns := buildColumns(s.rng, items)
	for col := 0; col < BoardCategories; col++ {
		for row := 0; row < BoardRows; row++ {
			g.Cells[col][row] = BoardCell{Item: columns[col][row], Points: BoardPoints[row]}
		}
		g.Categories[col] = columnLabel(columns[col])
	}
	g.Roster.ResetForStart()
	g.Rotation.Reset()
	g.Selected = nil
	g.Phase = domain.PhasePlaying

	names := make([]string, 0, g.Roster.Len())
	for _, p := range g.Roster.Participants() {
		names = append(names, p.Name)
	}
	emit(s.sync, g.RoomID, EventGameStarted, GameStartedPayload{Rounds: MinBoardItems, Participants: names})
	return nil
}

// buildColumns arranges the deck into five columns of five. When the deck
// carries at least five categories with five items each, each column gets a
// single category; otherwise the shuffled deck fills the board in order.
func buildColumns(rng *rand.Rand, items []domain.Item) [BoardCategories][BoardRows]domain.Item {
	var columns [BoardCategories][BoardRows]domain.Item

	byCategory := make(map[string][]domain.Item)
	for _, item := range items {
		if item.Category == "" {
			continue
		}
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}
	eligible := make([]string, 0, len(byCategory))
	for cat, group := range byCategory {
		if len(group) >= BoardRows {
			eligible = append(eligible, cat)
		}
	}
	sort.Strings(eligible)

	if len(eligible) >= BoardCategories {
		domain.Shuffle(rng, eligible)
		for col := 0; col < BoardCategories; col++ {
			group := domain.Prepare(rng, byCategory[eligible[col]], BoardRows)
			copy(columns[col][:], group)
		}
		return columns
	}

	flat := domain.Prepare(rng, items, MinBoardItems)
	for col := 0; col < BoardCategories; col++ {
		copy(columns[col][:], flat[col*BoardRows:(col+1)*BoardRows])
	}
	return columns
}

func columnLabel(column [BoardRows]domain.Item) string {
	if column[0].Category != "" {
		return column[0].Category
	}
	return "General"
}

// CurrentPicker returns whose turn it is to pick a cell.
func (g *BoardGame) CurrentPicker() *domain.Participant {
	if g.Phase != domain.PhasePlaying {
		return nil
	}
	return g.Rotation.Responder(&g.Roster)
}

// PickCell opens the cell at the given column and row for the current
// picker. A cell already answered cannot be picked again.
func (s *BoardService) PickCell(g *BoardGame, participantID string, col, row int) error {
	if g.Phase != domain.PhasePlaying || g.Selected != nil {
		return ErrInvalidState
	}
	picker := g.Rotation.Responder(&g.Roster)
	if picker == nil || picker.ID != participantID {
		if g.Roster.ByID(participantID) == nil {
			return ErrUnknownParticipant
		}
		return ErrNotYourTurn
	}
	if col < 0 || col >= BoardCategories || row < 0 || row >= BoardRows {
		return ErrUnknownCell
	}
	cell := &g.Cells[col][row]
	if cell.Answered {
		return ErrCellAnswered
	}
	g.Selected = cell
	emit(s.sync, g.RoomID, EventCellPicked, CellPickedPayload{
		Category: g.Categories[col],
		Row:      row,
		Points:   cell.Points,
		Prompt:   cell.Item.Prompt,
	})
	return nil
}

// Award resolves the selected cell for the named participant, so the host
// can credit whoever actually answered. An empty id defaults to the current
// picker. A correct answer adds the cell's points; a wrong one subtracts
// them, never below zero. The cell is closed either way and the turn passes
// on.
func (s *BoardService) Award(g *BoardGame, participantID string, correct bool) error {
	if g.Phase != domain.PhasePlaying {
		return ErrInvalidState
	}
	if g.Selected == nil {
		return ErrNoCellSelected
	}
	target := g.Rotation.Responder(&g.Roster)
	if participantID != "" {
		target = g.Roster.ByID(participantID)
		if target == nil {
			return ErrUnknownParticipant
		}
	}
	cell := g.Selected
	cell.Answered = true
	g.Selected = nil

	if target != nil {
		delta := cell.Points
		if !correct {
			delta = -delta
		}
		target.Score += delta
		if target.Score < 0 {
			target.Score = 0
		}
		emit(s.sync, g.RoomID, EventScoreAwarded, ScoreAwardedPayload{
			ParticipantID: target.ID,
			Delta:         delta,
			Total:         target.Score,
		})
	}

	if g.boardComplete() {
		s.finish(g)
		return nil
	}
	g.Rotation.Advance(&g.Roster)
	return nil
}

// Skip abandons the selected cell without scoring. The cell stays open for
// a later turn.
func (s *BoardService) Skip(g *BoardGame) error {
	if g.Phase != domain.PhasePlaying {
		return ErrInvalidState
	}
	if g.Selected == nil {
		return ErrNoCellSelected
	}
	g.Selected = nil
	g.Rotation.Advance(&g.Roster)
	return nil
}

func (g *BoardGame) boardComplete() bool {
	for col := range g.Cells {
		for row := range g.Cells[col] {
			if !g.Cells[col][row].Answered {
				return false
			}
		}
	}
	return true
}

// Standings returns participants ordered by score, highest first. Roster
// order breaks ties so the result is stable.
func (g *BoardGame) Standings() []*domain.Participant {
	out := make([]*domain.Participant, 0, g.Roster.Len())
	out = append(out, g.Roster.Participants()...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func (s *BoardService) finish(g *BoardGame) {
	g.Phase = domain.PhaseResults
	scores := make(map[string]int, g.Roster.Len())
	for _, p := range g.Roster.Participants() {
		scores[p.ID] = p.Score
	}
	payload := GameEndedPayload{Scores: scores}
	if standings := g.Standings(); len(standings) > 0 {
		payload.WinnerID = standings[0].ID
		payload.WinnerName = standings[0].Name
	}
	emit(s.sync, g.RoomID, EventGameEnded, payload)
}

// Replay returns a finished room to the lobby with its roster intact.
func (s *BoardService) Replay(g *BoardGame) error {
	if g.Phase != domain.PhaseResults {
		return ErrInvalidState
	}
	g.Phase = domain.PhaseLobby
	g.Cells = [BoardCategories][BoardRows]BoardCell{}
	g.Categories = [BoardCategories]string{}
	g.Selected = nil
	g.Roster.ResetForStart()
	emit(s.sync, g.RoomID, EventReturnedToLobby, nil)
	return nil
}
