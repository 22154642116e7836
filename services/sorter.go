package services

import (
	"sort"

	"flowerstore-directory/models"
)

// ParseSortKey maps user input to a SortKey, defaulting to rating.
func ParseSortKey(s string) models.SortKey {
	if models.SortKey(s) == models.SortByReviews {
		return models.SortByReviews
	}
	return models.SortByRating
}

// Sort returns a copy of stores ordered descending by key, with the other
// numeric field as a descending tie-break.
func Sort(stores []*models.Store, key models.SortKey) []*models.Store {
	out := make([]*models.Store, len(stores))
	copy(out, stores)

	byReviews := ParseSortKey(string(key)) == models.SortByReviews
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if byReviews {
			if a.Reviews != b.Reviews {
				return a.Reviews > b.Reviews
			}
			return a.Rating > b.Rating
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.Reviews > b.Reviews
	})
	return out
}
