package content

import (
	"context"
	"errors"
	"testing"

	"studyparty/internal/domain"
)

func TestMemoryDeckStorePutAndCards(t *testing.T) {
	store := NewMemoryDeckStore()
	store.Put("biology", []domain.Card{{ID: "c1", Front: "Osmosis", Back: "Diffusion of water"}})

	cards, err := store.Cards(context.Background(), "biology")
	if err != nil {
		t.Fatalf("cards: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != "c1" {
		t.Fatalf("unexpected cards: %+v", cards)
	}
}

func TestMemoryDeckStoreUnknownDeck(t *testing.T) {
	store := NewMemoryDeckStore()
	if _, err := store.Cards(context.Background(), "missing"); !errors.Is(err, ErrDeckNotFound) {
		t.Fatalf("err = %v, want ErrDeckNotFound", err)
	}
}

func TestMemoryDeckStoreCardsReturnsCopy(t *testing.T) {
	store := NewMemoryDeckStore()
	store.Put("deck", []domain.Card{{ID: "c1", Front: "F", Back: "B"}})

	cards, _ := store.Cards(context.Background(), "deck")
	cards[0].Front = "mutated"

	again, _ := store.Cards(context.Background(), "deck")
	if again[0].Front != "F" {
		t.Fatal("store contents should not be affected by caller mutation")
	}
}

func TestMemoryDeckStoreDelete(t *testing.T) {
	store := NewMemoryDeckStore()
	store.Put("deck", DemoCards())
	store.Delete("deck")
	if _, err := store.Cards(context.Background(), "deck"); !errors.Is(err, ErrDeckNotFound) {
		t.Fatalf("err = %v, want ErrDeckNotFound", err)
	}
}

func TestDemoBoardCardsFillTheGrid(t *testing.T) {
	cards := DemoBoardCards()
	if len(cards) != 25 {
		t.Fatalf("len = %d, want 25", len(cards))
	}
	perCategory := map[string]int{}
	for _, c := range cards {
		if c.Front == "" || c.Back == "" || c.Category == "" {
			t.Fatalf("incomplete card: %+v", c)
		}
		perCategory[c.Category]++
	}
	if len(perCategory) != 5 {
		t.Fatalf("categories = %d, want 5", len(perCategory))
	}
	for cat, n := range perCategory {
		if n != 5 {
			t.Fatalf("category %s has %d cards, want 5", cat, n)
		}
	}
}
