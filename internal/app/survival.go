package app

import (
	"math/rand"

	"studyparty/internal/domain"
	"studyparty/internal/ports"
)

// SurvivalConfig tunes the elimination quiz.
type SurvivalConfig struct {
	MinParticipants int
	// RoundCap limits the number of rounds; zero or negative plays
	// through every prepared item.
	RoundCap    int
	ChoiceCount int
	Timer       domain.TimerPlan
	// EliminationRate below 1 is accepted but has no effect: partial
	// elimination is not implemented and every wrong answer eliminates.
	EliminationRate float64
}

// SurvivalGame is the state of one elimination quiz room.
type SurvivalGame struct {
	RoomID string
	Phase  domain.Phase
	Roster domain.Roster
	Config SurvivalConfig

	Items    []domain.Item
	Round    domain.Round
	Rotation domain.TurnRotation
	WinnerID string
}

// SurvivalService runs elimination quiz rooms. All methods mutate the game
// in place and must be called from a single goroutine.
type SurvivalService struct {
	sync ports.RoomSync
	rng  *rand.Rand
}

func NewSurvivalService(sync ports.RoomSync, rng *rand.Rand) *SurvivalService {
	return &SurvivalService{sync: sync, rng: rng}
}

// NewGame creates a fresh lobby with sane config defaults filled in.
func (s *SurvivalService) NewGame(roomID string, cfg SurvivalConfig) *SurvivalGame {
	if cfg.MinParticipants <= 0 {
		cfg.MinParticipants = MinParticipantsToStart
	}
	if cfg.ChoiceCount <= 0 {
		cfg.ChoiceCount = 4
	}
	if cfg.Timer == (domain.TimerPlan{}) {
		cfg.Timer = domain.TimerPlan{BaseSeconds: 15, StepSeconds: 1, FloorSeconds: 5}
	}
	if cfg.EliminationRate == 0 {
		cfg.EliminationRate = 1
	}
	return &SurvivalGame{
		RoomID: roomID,
		Phase:  domain.PhaseLobby,
		Config: cfg,
	}
}

func (s *SurvivalService) AddParticipant(g *SurvivalGame, name string) (*domain.Participant, error) {
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

func (s *SurvivalService) RemoveParticipant(g *SurvivalGame, id string) error {
	if g.Phase != domain.PhaseLobby {
		return ErrInvalidState
	}
	if !g.Roster.Remove(id) {
		return ErrUnknownParticipant
	}
	emit(s.sync, g.RoomID, EventParticipantLeft, ParticipantPayload{ID: id})
	return nil
}

// Start moves the room from lobby to play and opens the first round.
func (s *SurvivalService) Start(g *SurvivalGame, items []domain.Item) error {
	if g.Phase != domain.PhaseLobby {
		return ErrInvalidState
	}
	if g.Roster.Len() < g.Config.MinParticipants {
		return ErrInsufficientPlayers
	}
	if len(items) == 0 {
		return ErrNoContent
	}

	g.Items = domain.BuildChoices(s.rng, domain.Prepare(s.rng, items, g.Config.RoundCap), g.Config.ChoiceCount)
	g.Roster.ResetForStart()
	g.Rotation.Reset()
	g.WinnerID = ""
	g.Phase = domain.PhasePlaying

	names := make([]string, 0, g.Roster.Len())
	for _, p := range g.Roster.Participants() {
		names = append(names, p.Name)
	}
	emit(s.sync, g.RoomID, EventGameStarted, GameStartedPayload{Rounds: len(g.Items), Participants: names})

	s.beginRound(g, 0)
	return nil
}

func (s *SurvivalService) beginRound(g *SurvivalGame, index int) {
	item := g.Items[index]
	g.Round = domain.Round{
		Item:      item,
		Index:     index,
		Remaining: g.Config.Timer.DurationForRound(index),
	}
	responder := g.Rotation.Responder(&g.Roster)
	payload := RoundStartedPayload{
		Round:   index,
		Prompt:  item.Prompt,
		Choices: item.Choices,
		Seconds: g.Round.Remaining,
	}
	if responder != nil {
		payload.ResponderID = responder.ID
	}
	emit(s.sync, g.RoomID, EventRoundStarted, payload)
}

// roundAction is how a round ends: a participant answered, or the clock did.
type roundAction struct {
	TimedOut bool
	ActorID  string
	Choice   string
}

// Answer records the current responder's choice and resolves the round.
func (s *SurvivalService) Answer(g *SurvivalGame, participantID, choice string) error {
	if g.Phase != domain.PhasePlaying || g.Round.Resolved {
		return ErrInvalidState
	}
	responder := g.Rotation.Responder(&g.Roster)
	if responder == nil || responder.ID != participantID {
		if g.Roster.ByID(participantID) == nil {
			return ErrUnknownParticipant
		}
		return ErrNotYourTurn
	}
	s.resolveRound(g, roundAction{ActorID: participantID, Choice: choice})
	return nil
}

// Tick advances the round countdown by one second. Expiry resolves the
// round against the current responder as a timeout.
func (s *SurvivalService) Tick(g *SurvivalGame) {
	if g.Phase != domain.PhasePlaying || g.Round.Resolved {
		return
	}
	g.Round.Remaining--
	if g.Round.Remaining > 0 {
		return
	}
	responder := g.Rotation.Responder(&g.Roster)
	if responder == nil {
		s.finish(g)
		return
	}
	s.resolveRound(g, roundAction{TimedOut: true, ActorID: responder.ID})
}

func (s *SurvivalService) resolveRound(g *SurvivalGame, act roundAction) {
	g.Round.Resolved = true
	correct := !act.TimedOut && act.Choice == g.Round.Item.Answer
	emit(s.sync, g.RoomID, EventAnswerResolved, AnswerResolvedPayload{
		ParticipantID: act.ActorID,
		Correct:       correct,
		TimedOut:      act.TimedOut,
		Answer:        g.Round.Item.Answer,
	})
	if !correct {
		if g.Roster.Eliminate(act.ActorID) {
			emit(s.sync, g.RoomID, EventParticipantEliminated, EliminatedPayload{
				ParticipantID: act.ActorID,
				Round:         g.Round.Index,
			})
		}
	}
	s.advance(g)
}

func (s *SurvivalService) advance(g *SurvivalGame) {
	if g.Roster.AliveCount() <= 1 {
		s.finish(g)
		return
	}
	next := g.Round.Index + 1
	if next >= len(g.Items) {
		s.finish(g)
		return
	}
	g.Rotation.Advance(&g.Roster)
	s.beginRound(g, next)
}

func (s *SurvivalService) finish(g *SurvivalGame) {
	g.Phase = domain.PhaseResults
	payload := GameEndedPayload{}
	for _, p := range g.Roster.Alive() {
		g.WinnerID = p.ID
		payload.WinnerID = p.ID
		payload.WinnerName = p.Name
		break
	}
	emit(s.sync, g.RoomID, EventGameEnded, payload)
}

// Replay returns a finished room to the lobby with its roster intact.
func (s *SurvivalService) Replay(g *SurvivalGame) error {
	if g.Phase != domain.PhaseResults {
		return ErrInvalidState
	}
	g.Phase = domain.PhaseLobby
	g.Items = nil
	g.Round = domain.Round{}
	g.WinnerID = ""
	g.Roster.ResetForStart()
	emit(s.sync, g.RoomID, EventReturnedToLobby, nil)
	return nil
}
