package deck

import (
	"sort"
	"strings"

	"github.com/example/flashbot/pkg/models"
)

// Count pairs a deck path with the number of cards under it, subdecks
// included.
type Count struct {
	Path  string
	Cards int
}

// List returns every deck path present in the card set, parents
// included, sorted by path. Cards with an empty deck path only count
// toward the total of an empty-path query, not toward any deck.
func List(cards []models.Card) []Count {
	paths := make(map[string]bool)
	for _, c := range cards {
		if c.DeckPath == "" {
			continue
		}
		parts := strings.Split(c.DeckPath, "/")
		for i := range parts {
			paths[strings.Join(parts[:i+1], "/")] = true
		}
	}

	out := make([]Count, 0, len(paths))
	for path := range paths {
		n := 0
		for _, c := range cards {
			if c.InDeck(path) {
				n++
			}
		}
		out = append(out, Count{Path: path, Cards: n})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
