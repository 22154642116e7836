package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"flowerstore-directory/models"
	"flowerstore-directory/utils"
)

// Group partitions stores by district. Districts appear in first-seen
// order and each bucket keeps the input order.
func Group(stores []*models.Store) []models.DistrictGroup {
	index := make(map[string]int)
	var groups []models.DistrictGroup

	for _, s := range stores {
		i, ok := index[s.District]
		if !ok {
			i = len(groups)
			index[s.District] = i
			groups = append(groups, models.DistrictGroup{District: s.District})
		}
		groups[i].Stores = append(groups[i].Stores, s)
	}

	for i := range groups {
		g := &groups[i]
		g.Count = len(g.Stores)
		g.AvgRating = avgRating(g.Stores)
		g.AvgReviews = avgReviews(g.Stores)
	}
	return groups
}

// Summarize computes the global figures over filtered, or over all when
// filtered is empty.
func Summarize(filtered, all []*models.Store) models.Summary {
	base := filtered
	if len(base) == 0 {
		base = all
	}

	sum := models.Summary{Count: len(base), AvgReviews: avgReviews(base)}
	for _, s := range base {
		if s.Rating > sum.MaxRating {
			sum.MaxRating = s.Rating
		}
	}
	return sum
}

// CountByDistrict returns the number of stores per district label.
func CountByDistrict(stores []*models.Store) map[string]int {
	counts := make(map[string]int)
	for _, s := range stores {
		counts[s.District]++
	}
	return counts
}

func avgRating(stores []*models.Store) float64 {
	if len(stores) == 0 {
		return 0
	}
	var total float64
	for _, s := range stores {
		total += s.Rating
	}
	return total / float64(len(stores))
}

func avgReviews(stores []*models.Store) float64 {
	if len(stores) == 0 {
		return 0
	}
	var total int
	for _, s := range stores {
		total += s.Reviews
	}
	return float64(total) / float64(len(stores))
}

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(stores []*models.Store) *models.InsightReport {
	report := &models.InsightReport{
		StoresByDistrict: CountByDistrict(stores),
	}

	if len(stores) == 0 {
		return report
	}

	report.TotalStores = len(stores)
	report.AverageRating = round2(avgRating(stores))
	report.AverageReviews = round2(avgReviews(stores))

	var rated []*models.Store
	for _, st := range stores {
		if st.Phone != "" {
			report.WithPhone++
		}
		if st.Rating > report.MaxRating {
			report.MaxRating = st.Rating
		}
		if st.Rating > 0 {
			rated = append(rated, st)
		}
	}

	// Top 5 by rating, reviews breaking ties
	rated = Sort(rated, models.SortByRating)
	if len(rated) > 5 {
		rated = rated[:5]
	}
	report.TopRated = rated

	s.logger.Debug("[insights] Report over %d stores in %d districts",
		report.TotalStores, len(report.StoresByDistrict))
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🌷 FLOWER STORE DIRECTORY\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total stores    : \033[1m%d\033[0m\n", r.TotalStores)
	fmt.Fprintf(w, "  With phone      : \033[1m%d\033[0m\n", r.WithPhone)
	if r.TotalStores > 0 {
		fmt.Fprintf(w, "  Average rating  : \033[1;32m%.2f ★\033[0m\n", r.AverageRating)
		fmt.Fprintf(w, "  Highest rating  : \033[1;32m%.1f ★\033[0m\n", r.MaxRating)
		fmt.Fprintf(w, "  Average reviews : \033[1m%.1f\033[0m\n", r.AverageReviews)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Top 5 Highest Rated\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopRated) == 0 {
		fmt.Fprintf(w, "  No rated stores found\n")
	} else {
		for i, st := range r.TopRated {
			name := runewidth.FillRight(runewidth.Truncate(st.Name, 36, "..."), 38)
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %s \033[1;32m%.1f ★\033[0m (%d)\n",
				i+1, name, st.Rating, st.Reviews)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Stores by District\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.StoresByDistrict) == 0 {
		fmt.Fprintf(w, "  No district data\n")
	} else {
		type districtCount struct {
			district string
			count    int
		}
		var dcs []districtCount
		for d, cnt := range r.StoresByDistrict {
			dcs = append(dcs, districtCount{d, cnt})
		}
		sort.Slice(dcs, func(i, j int) bool {
			if dcs[i].count != dcs[j].count {
				return dcs[i].count > dcs[j].count
			}
			return dcs[i].district < dcs[j].district
		})
		for _, dc := range dcs {
			bar := strings.Repeat("█", dc.count)
			fmt.Fprintf(w, "  %s %s (%d)\n", runewidth.FillRight(dc.district, 14), bar, dc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
