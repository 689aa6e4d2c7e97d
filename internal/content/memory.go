package content

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"studyparty/internal/domain"
)

// ErrDeckNotFound is returned when no deck exists under the requested id.
var ErrDeckNotFound = errors.New("deck not found")

// MemoryDeckStore is an in-memory deck repository with an explicit
// lifecycle: construct it, seed it, hand it to the rooms that need it.
// It replaces module-level mutable stores so each process owns its content.
type MemoryDeckStore struct {
	mu    sync.RWMutex
	decks map[string][]domain.Card
}

// NewMemoryDeckStore creates an empty store.
func NewMemoryDeckStore() *MemoryDeckStore {
	return &MemoryDeckStore{decks: make(map[string][]domain.Card)}
}

// Put stores a deck under the given id, replacing any previous content.
func (s *MemoryDeckStore) Put(deckID string, cards []domain.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decks[deckID] = append([]domain.Card(nil), cards...)
}

// Cards returns a copy of the deck's cards in stored order.
func (s *MemoryDeckStore) Cards(ctx context.Context, deckID string) ([]domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cards, ok := s.decks[deckID]
	if !ok {
		return nil, ErrDeckNotFound
	}
	return append([]domain.Card(nil), cards...), nil
}

// Delete removes a deck.
func (s *MemoryDeckStore) Delete(deckID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.decks, deckID)
}

// DemoCards is the built-in fallback deck used when a room starts without
// external content.
func DemoCards() []domain.Card {
	return []domain.Card{
		{ID: "f1", Front: "What is 2 + 2?", Back: "4"},
		{ID: "f2", Front: "What is the capital of France?", Back: "Paris"},
		{ID: "f3", Front: "What planet is known as the Red Planet?", Back: "Mars"},
		{ID: "f4", Front: "How many continents are there?", Back: "7"},
		{ID: "f5", Front: "What is H2O?", Back: "Water"},
	}
}

// DemoBoardCards is the built-in fallback deck for the trivia board game,
// five cards in each of five categories.
func DemoBoardCards() []domain.Card {
	groups := []struct {
		category string
		pairs    [5][2]string
	}{
		{"Science", [5][2]string{
			{"What gas do plants absorb from the air?", "Carbon dioxide"},
			{"What force keeps planets in orbit?", "Gravity"},
			{"What is the chemical symbol for gold?", "Au"},
			{"What organ pumps blood through the body?", "The heart"},
			{"What is the speed of light, roughly, in km/s?", "300,000"},
		}},
		{"Geography", [5][2]string{
			{"What is the largest ocean?", "The Pacific"},
			{"Which continent is the Sahara in?", "Africa"},
			{"What is the capital of Japan?", "Tokyo"},
			{"Which river runs through Egypt?", "The Nile"},
			{"What is the tallest mountain on Earth?", "Mount Everest"},
		}},
		{"History", [5][2]string{
			{"Who was the first president of the United States?", "George Washington"},
			{"In what year did World War II end?", "1945"},
			{"What empire built the Colosseum?", "The Roman Empire"},
			{"Who painted the Mona Lisa?", "Leonardo da Vinci"},
			{"What wall fell in 1989?", "The Berlin Wall"},
		}},
		{"Math", [5][2]string{
			{"What is 12 times 12?", "144"},
			{"What is the square root of 81?", "9"},
			{"How many degrees are in a circle?", "360"},
			{"What is the value of pi to two decimals?", "3.14"},
			{"What do you call a polygon with six sides?", "Hexagon"},
		}},
		{"Language", [5][2]string{
			{"What is a word that means the same as another word?", "Synonym"},
			{"What punctuation mark ends a question?", "Question mark"},
			{"What is the plural of 'mouse'?", "Mice"},
			{"What do you call a naming word?", "Noun"},
			{"What language has the most native speakers?", "Mandarin"},
		}},
	}

	cards := make([]domain.Card, 0, 25)
	for i, group := range groups {
		for j, pair := range group.pairs {
			cards = append(cards, domain.Card{
				ID:       fmt.Sprintf("b%d-%d", i+1, j+1),
				Front:    pair[0],
				Back:     pair[1],
				Category: group.category,
			})
		}
	}
	return cards
}

// DemoTerms is the built-in fallback term list for the explanation game.
func DemoTerms() []domain.Item {
	return []domain.Item{
		{ID: "t1", Prompt: "Photosynthesis", Category: "Biology"},
		{ID: "t2", Prompt: "Machine Learning", Category: "Technology"},
		{ID: "t3", Prompt: "Inflation", Category: "Economics"},
		{ID: "t4", Prompt: "Democracy", Category: "Politics"},
		{ID: "t5", Prompt: "Black Hole", Category: "Astronomy"},
	}
}
