package services

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowerstore-directory/models"
	"flowerstore-directory/utils"
)

func TestGroupStablePartition(t *testing.T) {
	stores := Sort(sampleStores(), models.SortByRating)
	// rating order: 0 (5.0), 4 (4.6), 1 (4.5), 2 (4.4), 3 (3.0)

	groups := Group(stores)
	require.Len(t, groups, 3)

	assert.Equal(t, "板橋區", groups[0].District)
	assert.Equal(t, []int{0, 4, 2}, ids(groups[0].Stores))
	assert.Equal(t, "中和區", groups[1].District)
	assert.Equal(t, []int{1}, ids(groups[1].Stores))
	assert.Equal(t, "永和區", groups[2].District)
	assert.Equal(t, []int{3}, ids(groups[2].Stores))
}

func TestGroupAggregates(t *testing.T) {
	groups := Group(sampleStores())
	require.NotEmpty(t, groups)

	banqiao := groups[0]
	assert.Equal(t, 3, banqiao.Count)
	assert.InDelta(t, (5.0+4.4+4.6)/3, banqiao.AvgRating, 1e-9)
	assert.InDelta(t, float64(40+12+77)/3, banqiao.AvgReviews, 1e-9)
}

func TestGroupNeverDropsOrDuplicates(t *testing.T) {
	stores := sampleStores()
	var got []int
	for _, g := range Group(stores) {
		got = append(got, ids(g.Stores)...)
	}
	sort.Ints(got)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestGroupEmpty(t *testing.T) {
	assert.Empty(t, Group(nil))
}

func TestSummarize(t *testing.T) {
	all := sampleStores()
	filtered := Filter(all, models.Query{District: "中和區"})

	s := Summarize(filtered, all)
	assert.Equal(t, models.Summary{Count: 1, MaxRating: 4.5, AvgReviews: 300}, s)
}

func TestSummarizeFallsBackToAllWhenFilteredEmpty(t *testing.T) {
	all := sampleStores()

	s := Summarize(nil, all)
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 5.0, s.MaxRating)
	assert.InDelta(t, float64(40+300+12+8+77)/5, s.AvgReviews, 1e-9)

	assert.Equal(t, models.Summary{}, Summarize(nil, nil))
}

func TestCountByDistrict(t *testing.T) {
	assert.Equal(t, map[string]int{"板橋區": 3, "中和區": 1, "永和區": 1}, CountByDistrict(sampleStores()))
}

func TestInsightReport(t *testing.T) {
	svc := NewInsightService(utils.NewNopLogger())
	r := svc.Generate(sampleStores())

	assert.Equal(t, 5, r.TotalStores)
	assert.Equal(t, 1, r.WithPhone)
	assert.Equal(t, 5.0, r.MaxRating)
	assert.Equal(t, 4.3, r.AverageRating)
	require.Len(t, r.TopRated, 5)
	assert.Equal(t, "Rose Garden 花坊", r.TopRated[0].Name)
	assert.Equal(t, 3, r.StoresByDistrict["板橋區"])
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(utils.NewNopLogger())
	r := svc.Generate(nil)
	assert.Equal(t, 0, r.TotalStores)
	assert.Empty(t, r.TopRated)
}

func TestInsightPrint(t *testing.T) {
	svc := NewInsightService(utils.NewNopLogger())
	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(sampleStores()))

	out := buf.String()
	assert.Contains(t, out, "Total stores")
	assert.Contains(t, out, "板橋區")
	assert.Contains(t, out, "Rose Garden 花坊")
}
