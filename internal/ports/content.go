package ports

import (
	"context"

	"studyparty/internal/domain"
)

// ContentSource supplies deck cards for a game. Implementations must return
// cards in stored order; shuffling, choice building and round-count
// truncation all belong to the engine.
type ContentSource interface {
	Cards(ctx context.Context, deckID string) ([]domain.Card, error)
}
