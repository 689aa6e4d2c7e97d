package app

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"studyparty/internal/domain"
	"studyparty/internal/ports"
)

// ExplainConfig tunes the anonymous-explanation game.
type ExplainConfig struct {
	MinParticipants int
	RoundCap        int
	// TimerSeconds is the flat countdown each author gets to write.
	TimerSeconds int
}

// ExplainGame is the state of one explanation room.
type ExplainGame struct {
	RoomID string
	Phase  domain.Phase
	Roster domain.Roster
	Config ExplainConfig

	Terms     []domain.Item
	TermIndex int
	Remaining int

	// Submissions is kept in submission order; ties in the tally go to
	// the earliest entry.
	Submissions []domain.Submission
	// Ballots maps each voter to the submission they picked.
	Ballots map[string]string

	authors domain.PassCursor
	voters  domain.PassCursor
}

// ExplainService runs explanation rooms. All methods mutate the game in
// place and must be called from a single goroutine.
type ExplainService struct {
	sync ports.RoomSync
	rng  *rand.Rand
}

func NewExplainService(sync ports.RoomSync, rng *rand.Rand) *ExplainService {
	return &ExplainService{sync: sync, rng: rng}
}

func (s *ExplainService) NewGame(roomID string, cfg ExplainConfig) *ExplainGame {
	if cfg.MinParticipants <= 0 {
		cfg.MinParticipants = MinParticipantsToStart
	}
	if cfg.TimerSeconds <= 0 {
		cfg.TimerSeconds = 20
	}
	return &ExplainGame{
		RoomID: roomID,
		Phase:  domain.PhaseLobby,
		Config: cfg,
	}
}

func (s *ExplainService) AddParticipant(g *ExplainGame, name string) (*domain.Participant, error) {
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

func (s *ExplainService) RemoveParticipant(g *ExplainGame, id string) error {
	if g.Phase != domain.PhaseLobby {
		return ErrInvalidState
	}
	if !g.Roster.Remove(id) {
		return ErrUnknownParticipant
	}
	emit(s.sync, g.RoomID, EventParticipantLeft, ParticipantPayload{ID: id})
	return nil
}

// Start shuffles both the term deck and the seating order, then opens the
// first explanation round.
func (s *ExplainService) Start(g *ExplainGame, terms []domain.Item) error {
	if g.Phase != domain.PhaseLobby {
		return ErrInvalidState
	}
	if g.Roster.Len() < g.Config.MinParticipants {
		return ErrInsufficientPlayers
	}
	if len(terms) == 0 {
		return ErrNoContent
	}

	g.Terms = domain.Prepare(s.rng, terms, g.Config.RoundCap)
	g.Roster.ResetForStart()
	g.Roster.Shuffle(s.rng)
	g.TermIndex = 0

	names := make([]string, 0, g.Roster.Len())
	for _, p := range g.Roster.Participants() {
		names = append(names, p.Name)
	}
	emit(s.sync, g.RoomID, EventGameStarted, GameStartedPayload{Rounds: len(g.Terms), Participants: names})

	s.beginExplain(g)
	return nil
}

func (s *ExplainService) beginExplain(g *ExplainGame) {
	g.Phase = domain.PhaseExplain
	g.Submissions = nil
	g.Ballots = make(map[string]string)
	g.authors.Reset()
	g.Remaining = g.Config.TimerSeconds

	term := g.Terms[g.TermIndex]
	payload := RoundStartedPayload{
		Round:   g.TermIndex,
		Prompt:  term.Prompt,
		Seconds: g.Remaining,
	}
	if author := g.authors.Current(&g.Roster); author != nil {
		payload.ResponderID = author.ID
	}
	emit(s.sync, g.RoomID, EventRoundStarted, payload)
}

// CurrentAuthor returns whose turn it is to write, or nil outside the
// explain phase.
func (g *ExplainGame) CurrentAuthor() *domain.Participant {
	if g.Phase != domain.PhaseExplain {
		return nil
	}
	return g.authors.Current(&g.Roster)
}

// CurrentVoter returns whose turn it is to vote, or nil outside the vote
// phase.
func (g *ExplainGame) CurrentVoter() *domain.Participant {
	if g.Phase != domain.PhaseVote {
		return nil
	}
	return g.voters.Current(&g.Roster)
}

// SubmitExplanation records the current author's text and passes the device
// to the next author. Blank text is stored as the placeholder.
func (s *ExplainService) SubmitExplanation(g *ExplainGame, authorID, text string) error {
	if g.Phase != domain.PhaseExplain {
		return ErrInvalidState
	}
	author := g.authors.Current(&g.Roster)
	if author == nil || author.ID != authorID {
		if g.Roster.ByID(authorID) == nil {
			return ErrUnknownParticipant
		}
		return ErrNotYourTurn
	}
	s.recordSubmission(g, authorID, text)
	return nil
}

// Tick runs the author countdown. Expiry files the placeholder on behalf of
// the current author.
func (s *ExplainService) Tick(g *ExplainGame) {
	if g.Phase != domain.PhaseExplain {
		return
	}
	g.Remaining--
	if g.Remaining > 0 {
		return
	}
	author := g.authors.Current(&g.Roster)
	if author == nil {
		s.startVoting(g)
		return
	}
	s.recordSubmission(g, author.ID, "")
}

func (s *ExplainService) recordSubmission(g *ExplainGame, authorID, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = PlaceholderExplanation
	}
	g.Submissions = append(g.Submissions, domain.Submission{
		ID:       uuid.New().String(),
		AuthorID: authorID,
		Text:     text,
	})
	emit(s.sync, g.RoomID, EventExplanationSubmitted, ParticipantPayload{ID: authorID})

	g.authors.Advance()
	if g.authors.Done(&g.Roster) {
		s.startVoting(g)
		return
	}
	g.Remaining = g.Config.TimerSeconds
	if next := g.authors.Current(&g.Roster); next != nil {
		emit(s.sync, g.RoomID, EventRoundStarted, RoundStartedPayload{
			Round:       g.TermIndex,
			Prompt:      g.Terms[g.TermIndex].Prompt,
			ResponderID: next.ID,
			Seconds:     g.Remaining,
		})
	}
}

func (s *ExplainService) startVoting(g *ExplainGame) {
	g.Phase = domain.PhaseVote
	g.voters.Reset()
	views := make([]domain.SubmissionView, 0, len(g.Submissions))
	for _, sub := range g.Submissions {
		views = append(views, domain.SubmissionView{ID: sub.ID, Text: sub.Text})
	}
	domain.Shuffle(s.rng, views)
	emit(s.sync, g.RoomID, EventVotingStarted, VotingStartedPayload{
		Term:        g.Terms[g.TermIndex].Prompt,
		Submissions: views,
	})
}

// VotableSubmissions returns the anonymous ballot for one voter, with their
// own submission removed and the rest shuffled.
func (s *ExplainService) VotableSubmissions(g *ExplainGame, voterID string) []domain.SubmissionView {
	views := make([]domain.SubmissionView, 0, len(g.Submissions))
	for _, sub := range g.Submissions {
		if sub.AuthorID == voterID {
			continue
		}
		views = append(views, domain.SubmissionView{ID: sub.ID, Text: sub.Text})
	}
	domain.Shuffle(s.rng, views)
	return views
}

// CastVote records the current voter's pick and passes the device along.
// The last vote closes the round.
func (s *ExplainService) CastVote(g *ExplainGame, voterID, submissionID string) error {
	if g.Phase != domain.PhaseVote {
		return ErrInvalidState
	}
	voter := g.voters.Current(&g.Roster)
	if voter == nil || voter.ID != voterID {
		if g.Roster.ByID(voterID) == nil {
			return ErrUnknownParticipant
		}
		return ErrNotYourTurn
	}
	sub := g.submissionByID(submissionID)
	if sub == nil {
		return ErrUnknownSubmission
	}
	if sub.AuthorID == voterID {
		return ErrSelfVote
	}
	g.Ballots[voterID] = submissionID
	emit(s.sync, g.RoomID, EventVoteCast, ParticipantPayload{ID: voterID})

	g.voters.Advance()
	if g.voters.Done(&g.Roster) {
		s.closeRound(g)
	}
	return nil
}

// DeclineVote lets the current voter pass without picking anyone.
func (s *ExplainService) DeclineVote(g *ExplainGame, voterID string) error {
	if g.Phase != domain.PhaseVote {
		return ErrInvalidState
	}
	voter := g.voters.Current(&g.Roster)
	if voter == nil || voter.ID != voterID {
		if g.Roster.ByID(voterID) == nil {
			return ErrUnknownParticipant
		}
		return ErrNotYourTurn
	}
	g.voters.Advance()
	if g.voters.Done(&g.Roster) {
		s.closeRound(g)
	}
	return nil
}

func (g *ExplainGame) submissionByID(id string) *domain.Submission {
	for i := range g.Submissions {
		if g.Submissions[i].ID == id {
			return &g.Submissions[i]
		}
	}
	return nil
}

// VotesFor counts the ballots cast for one submission.
func (g *ExplainGame) VotesFor(submissionID string) int {
	n := 0
	for _, picked := range g.Ballots {
		if picked == submissionID {
			n++
		}
	}
	return n
}

// Tally picks the round winner: most votes, with ties going to the
// earliest-submitted entry. A round with no votes has no winner.
func (s *ExplainService) Tally(g *ExplainGame) (*domain.Participant, *domain.Submission) {
	var best *domain.Submission
	bestVotes := 0
	for i := range g.Submissions {
		v := g.VotesFor(g.Submissions[i].ID)
		if v > bestVotes {
			best = &g.Submissions[i]
			bestVotes = v
		}
	}
	if best == nil {
		return nil, nil
	}
	return g.Roster.ByID(best.AuthorID), best
}

func (s *ExplainService) closeRound(g *ExplainGame) {
	g.Phase = domain.PhaseResults
	winner, best := s.Tally(g)
	term := g.Terms[g.TermIndex]
	payload := RoundResultsPayload{Term: term.Prompt, Definition: term.Answer}
	if winner != nil {
		winner.Score++
		payload.WinnerID = winner.ID
		payload.WinningText = best.Text
		payload.VotesForBest = g.VotesFor(best.ID)
	}
	emit(s.sync, g.RoomID, EventRoundResults, payload)
}

// NextRound moves from the results screen to the next term, or ends the
// game when the deck is exhausted.
func (s *ExplainService) NextRound(g *ExplainGame) error {
	if g.Phase != domain.PhaseResults {
		return ErrInvalidState
	}
	g.TermIndex++
	if g.TermIndex >= len(g.Terms) {
		s.finish(g)
		return nil
	}
	s.beginExplain(g)
	return nil
}

func (s *ExplainService) finish(g *ExplainGame) {
	g.Phase = domain.PhaseEnded
	scores := make(map[string]int, g.Roster.Len())
	var top *domain.Participant
	for _, p := range g.Roster.Participants() {
		scores[p.ID] = p.Score
		if top == nil || p.Score > top.Score {
			top = p
		}
	}
	payload := GameEndedPayload{Scores: scores}
	if top != nil {
		payload.WinnerID = top.ID
		payload.WinnerName = top.Name
	}
	emit(s.sync, g.RoomID, EventGameEnded, payload)
}

// Replay returns an ended room to the lobby with its roster intact.
func (s *ExplainService) Replay(g *ExplainGame) error {
	if g.Phase != domain.PhaseEnded {
		return ErrInvalidState
	}
	g.Phase = domain.PhaseLobby
	g.Terms = nil
	g.TermIndex = 0
	g.Submissions = nil
	g.Ballots = nil
	g.Roster.ResetForStart()
	emit(s.sync, g.RoomID, EventReturnedToLobby, nil)
	return nil
}
