package domain

import (
	"math/rand"
	"testing"
)

func sampleItems() []Item {
	return []Item{
		{ID: "q1", Prompt: "2 + 2?", Answer: "4"},
		{ID: "q2", Prompt: "Capital of France?", Answer: "Paris"},
		{ID: "q3", Prompt: "Red planet?", Answer: "Mars"},
		{ID: "q4", Prompt: "Continents?", Answer: "7"},
		{ID: "q5", Prompt: "H2O?", Answer: "Water"},
	}
}

func TestPrepareTruncatesToRoundCount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	got := Prepare(rng, sampleItems(), 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
}

func TestPrepareKeepsAllWhenCountNonPositive(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, count := range []int{0, -1, 99} {
		if got := Prepare(rng, sampleItems(), count); len(got) != 5 {
			t.Fatalf("count %d: len = %d, want 5", count, len(got))
		}
	}
}

func TestPrepareDoesNotMutateInput(t *testing.T) {
	items := sampleItems()
	before := append([]Item(nil), items...)
	Prepare(rand.New(rand.NewSource(42)), items, 2)
	for i := range items {
		if items[i].ID != before[i].ID {
			t.Fatal("input slice order changed")
		}
	}
}

func TestBuildChoicesContainsCorrectAnswer(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	items := BuildChoices(rng, sampleItems(), 4)
	for _, item := range items {
		if len(item.Choices) != 4 {
			t.Fatalf("item %s: %d choices, want 4", item.ID, len(item.Choices))
		}
		found := false
		seen := map[string]bool{}
		for _, c := range item.Choices {
			if seen[c] {
				t.Fatalf("item %s: duplicate choice %q", item.ID, c)
			}
			seen[c] = true
			if c == item.Answer {
				found = true
			}
		}
		if !found {
			t.Fatalf("item %s: correct answer %q missing from choices", item.ID, item.Answer)
		}
	}
}

func TestBuildChoicesSmallPoolYieldsFewerChoices(t *testing.T) {
	items := []Item{
		{ID: "q1", Prompt: "a?", Answer: "A"},
		{ID: "q2", Prompt: "b?", Answer: "B"},
	}
	got := BuildChoices(rand.New(rand.NewSource(5)), items, 4)
	for _, item := range got {
		if len(item.Choices) != 2 {
			t.Fatalf("item %s: %d choices, want 2", item.ID, len(item.Choices))
		}
	}
}

func TestBuildChoicesKeepsPrebuiltChoices(t *testing.T) {
	items := sampleItems()
	items[0].Choices = []string{"4", "5"}
	got := BuildChoices(rand.New(rand.NewSource(5)), items, 4)
	if len(got[0].Choices) != 2 || got[0].Choices[0] != "4" || got[0].Choices[1] != "5" {
		t.Fatalf("pre-built choices changed: %v", got[0].Choices)
	}
}

// Wrong answers must be drawn from a shuffled pool, so every other answer
// should show up as a distractor over enough trials, not just the ones that
// happen to sit first in input order.
func TestBuildChoicesDrawsWrongAnswersAcrossPool(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	seen := map[string]bool{}
	for trial := 0; trial < 200; trial++ {
		items := BuildChoices(rng, sampleItems(), 2)
		for _, c := range items[0].Choices {
			if c != items[0].Answer {
				seen[c] = true
			}
		}
	}
	if len(seen) < 4 {
		t.Fatalf("distractors drawn from %d answers, want all 4", len(seen))
	}
}

func TestItemsFromCards(t *testing.T) {
	cards := []Card{{ID: "c1", Front: "F", Back: "B", Category: "Cat"}}
	items := ItemsFromCards(cards)
	if len(items) != 1 {
		t.Fatalf("len = %d, want 1", len(items))
	}
	got := items[0]
	if got.ID != "c1" || got.Prompt != "F" || got.Answer != "B" || got.Category != "Cat" {
		t.Fatalf("unexpected item: %+v", got)
	}
}

func TestItemsFromStrings(t *testing.T) {
	items := ItemsFromStrings([]string{"Osmosis", "Tariff"})
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Prompt != "Osmosis" || items[0].Category != "General" {
		t.Fatalf("unexpected item: %+v", items[0])
	}
	if items[0].ID == items[1].ID {
		t.Fatal("ids should be unique")
	}
}
