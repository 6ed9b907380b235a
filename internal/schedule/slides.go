package schedule

import (
	"fmt"
	"sort"
	"strings"
)

// PlaceholderPrefix marks slide ids the editor minted for content that was never saved.
const PlaceholderPrefix = "placeholder"

// SlideRef is one entry of a submitted slide list. Order is optional.
type SlideRef struct {
	ID    string
	Order *int
}

func isPlaceholderID(id string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(id)), PlaceholderPrefix)
}

// checkSlideIDs rejects empty and placeholder ids, naming every offending entry.
func checkSlideIDs(slides []SlideRef) error {
	var bad []string
	for i, s := range slides {
		switch {
		case strings.TrimSpace(s.ID) == "":
			bad = append(bad, fmt.Sprintf("slide %d has no id", i))
		case isPlaceholderID(s.ID):
			bad = append(bad, fmt.Sprintf("slide %d references unsaved content %q", i, s.ID))
		}
	}
	if len(bad) > 0 {
		return &InvariantError{
			Code:    CodeInvalidSlideID,
			Message: "Some slides reference content that does not exist yet. Save the content first",
			Details: bad,
		}
	}
	return nil
}

// normalizeOrders turns submitted orders into dense 0..n-1 positions.
// A missing order takes the slide's array index. If any two slides end up with the
// same order, or one is negative, the whole list falls back to array order.
// Otherwise the submitted relative order is kept.
func normalizeOrders(slides []SlideRef) []int {
	orders := make([]int, len(slides))
	seen := make(map[int]struct{}, len(slides))
	renumber := false
	for i, s := range slides {
		orders[i] = i
		if s.Order != nil {
			orders[i] = *s.Order
		}
		if _, dup := seen[orders[i]]; dup || orders[i] < 0 {
			renumber = true
		}
		seen[orders[i]] = struct{}{}
	}

	out := make([]int, len(slides))
	if renumber {
		for i := range out {
			out[i] = i
		}
		return out
	}

	idx := make([]int, len(slides))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return orders[idx[a]] < orders[idx[b]] })
	for rank, i := range idx {
		out[i] = rank
	}
	return out
}

// positionalOrders is used on create, where a slide's order is its array index.
func positionalOrders(slides []SlideRef) []int {
	out := make([]int, len(slides))
	for i := range out {
		out[i] = i
	}
	return out
}

func slideIDs(slides []SlideRef) []string {
	ids := make([]string, 0, len(slides))
	seen := make(map[string]struct{}, len(slides))
	for _, s := range slides {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		ids = append(ids, s.ID)
	}
	return ids
}
