package domain

import (
	"fmt"
	"math/rand"
)

// ItemsFromStrings wraps plain terms into Items with a default category.
func ItemsFromStrings(terms []string) []Item {
	items := make([]Item, 0, len(terms))
	for i, t := range terms {
		items = append(items, Item{
			ID:       fmt.Sprintf("term-%d", i),
			Prompt:   t,
			Category: "General",
		})
	}
	return items
}

// ItemsFromCards converts deck cards into playable items. The card front is
// the prompt and the back is the correct answer.
func ItemsFromCards(cards []Card) []Item {
	items := make([]Item, 0, len(cards))
	for _, c := range cards {
		items = append(items, Item{ID: c.ID, Prompt: c.Front, Answer: c.Back, Category: c.Category})
	}
	return items
}

// Prepare shuffles items and truncates the sequence to roundCount. A
// roundCount of zero or less keeps every item.
func Prepare(rng *rand.Rand, items []Item, roundCount int) []Item {
	out := Shuffled(rng, items)
	if roundCount > 0 && roundCount < len(out) {
		out = out[:roundCount]
	}
	return out
}

// BuildChoices fills in answer choices for items that have none. For each
// such item, choiceCount-1 wrong answers are drawn from a freshly shuffled
// pool of the other items' answers, then the full choice set (correct +
// wrong) is shuffled. A pool smaller than choiceCount-1 yields fewer
// choices; that is accepted, not an error. Items arriving with pre-built
// choices pass through untouched.
func BuildChoices(rng *rand.Rand, items []Item, choiceCount int) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		if len(item.Choices) > 0 {
			out[i] = item
			continue
		}
		pool := make([]string, 0, len(items)-1)
		for j, other := range items {
			if j == i {
				continue
			}
			pool = append(pool, other.Answer)
		}
		Shuffle(rng, pool)
		wrong := choiceCount - 1
		if wrong < 0 {
			wrong = 0
		}
		if wrong > len(pool) {
			wrong = len(pool)
		}
		choices := append([]string{item.Answer}, pool[:wrong]...)
		Shuffle(rng, choices)
		item.Choices = choices
		out[i] = item
	}
	return out
}
