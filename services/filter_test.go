package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"flowerstore-directory/models"
)

func sampleStores() []*models.Store {
	return []*models.Store{
		{ID: 0, Name: "Rose Garden 花坊", Rating: 5.0, Reviews: 40, Address: "新北市板橋區文化路一段", District: "板橋區", Phone: "02-1"},
		{ID: 1, Name: "森林花藝", Rating: 4.5, Reviews: 300, Address: "新北市中和區景平路", District: "中和區"},
		{ID: 2, Name: "小雛菊", Rating: 4.4, Reviews: 12, Address: "", District: "板橋區"},
		{ID: 3, Name: "永和花市", Rating: 3.0, Reviews: 8, Address: "新北市永和區永和路", District: "永和區"},
		{ID: 4, Name: "花語", Rating: 4.6, Reviews: 77, Address: "新北市板橋區中山路", District: "板橋區"},
	}
}

func ids(stores []*models.Store) []int {
	out := make([]int, len(stores))
	for i, s := range stores {
		out[i] = s.ID
	}
	return out
}

func TestFilterNoCriteriaKeepsAll(t *testing.T) {
	got := Filter(sampleStores(), models.Query{District: models.AllDistricts})
	assert.Equal(t, []int{0, 1, 2, 3, 4}, ids(got))

	got = Filter(sampleStores(), models.Query{})
	assert.Len(t, got, 5)
}

func TestFilterByDistrict(t *testing.T) {
	got := Filter(sampleStores(), models.Query{District: "板橋區"})
	assert.Equal(t, []int{0, 2, 4}, ids(got))

	got = Filter(sampleStores(), models.Query{District: "板橋"})
	assert.Empty(t, got, "district match is exact")
}

func TestFilterByMinRating(t *testing.T) {
	got := Filter(sampleStores(), models.Query{District: models.AllDistricts, MinRating: 4.5})
	assert.Equal(t, []int{0, 1, 4}, ids(got))
}

func TestFilterByKeyword(t *testing.T) {
	tests := []struct {
		keyword string
		want    []int
	}{
		{"rose", []int{0}},
		{"  ROSE garden ", []int{0}},
		{"中和", []int{1}},
		{"花", []int{0, 1, 3, 4}},
		{"文化路", []int{0}},
		{"   ", []int{0, 1, 2, 3, 4}},
		{"nothing", []int{}},
	}

	for _, tt := range tests {
		got := Filter(sampleStores(), models.Query{Keyword: tt.keyword})
		if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
			t.Errorf("keyword %q mismatch (-want +got):\n%s", tt.keyword, diff)
		}
	}
}

func TestFilterOrderIndependent(t *testing.T) {
	stores := sampleStores()
	q := models.Query{District: "板橋區", MinRating: 4.5, Keyword: "花"}

	all := Filter(stores, q)

	byDistrict := Filter(stores, models.Query{District: q.District})
	byRating := Filter(byDistrict, models.Query{MinRating: q.MinRating})
	byKeyword := Filter(byRating, models.Query{Keyword: q.Keyword})

	byKeywordFirst := Filter(stores, models.Query{Keyword: q.Keyword})
	thenRating := Filter(byKeywordFirst, models.Query{MinRating: q.MinRating})
	thenDistrict := Filter(thenRating, models.Query{District: q.District})

	assert.Equal(t, []int{0, 4}, ids(all))
	assert.Equal(t, ids(all), ids(byKeyword))
	assert.Equal(t, ids(all), ids(thenDistrict))
}

func TestFilterScenarioB(t *testing.T) {
	stores := []*models.Store{
		{ID: 0, Name: "a", Rating: 5.0}, {ID: 1, Name: "b", Rating: 4.5}, {ID: 2, Name: "c", Rating: 4.4},
		{ID: 3, Name: "d", Rating: 3.0}, {ID: 4, Name: "e", Rating: 4.6},
	}

	got := Sort(Filter(stores, models.Query{District: "all", MinRating: 4.5, Keyword: ""}), models.SortByRating)
	ratings := make([]float64, len(got))
	for i, s := range got {
		ratings[i] = s.Rating
	}
	assert.Equal(t, []float64{5.0, 4.6, 4.5}, ratings)
}
