package services

import (
	"strings"

	"golang.org/x/text/cases"

	"flowerstore-directory/models"
)

// foldKeyword case-folds s. A cases.Caser keeps state between calls, so
// one is built per call.
func foldKeyword(s string) string {
	return cases.Fold().String(s)
}

// Filter returns the stores matching every active criterion of q.
// The input slice is not modified.
func Filter(stores []*models.Store, q models.Query) []*models.Store {
	keyword := foldKeyword(strings.TrimSpace(q.Keyword))
	result := make([]*models.Store, 0, len(stores))

	for _, s := range stores {
		if !matchesDistrict(s, q.District) {
			continue
		}
		if s.Rating < q.MinRating {
			continue
		}
		if !matchesKeyword(s, keyword) {
			continue
		}
		result = append(result, s)
	}
	return result
}

func matchesDistrict(s *models.Store, district string) bool {
	if district == "" || district == models.AllDistricts {
		return true
	}
	return s.District == district
}

// matchesKeyword expects keyword already trimmed and folded.
func matchesKeyword(s *models.Store, keyword string) bool {
	if keyword == "" {
		return true
	}
	if strings.Contains(foldKeyword(s.Name), keyword) {
		return true
	}
	return s.Address != "" && strings.Contains(foldKeyword(s.Address), keyword)
}
