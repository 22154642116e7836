package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"flowerstore-directory/models"
	"flowerstore-directory/storage"
	"flowerstore-directory/utils"
)

// Header names accepted per dataset field, canonical name first.
var columnAliases = map[string][]string{
	"name":      {"name", models.ArtifactNameKey, "店名"},
	"rating":    {"rating", models.LabelRatingKey, "MW4etd"},
	"reviews":   {"reviews", "review_count", "rating_count", models.LabelReviewsKey, "UY7F9"},
	"address":   {"address", models.ArtifactAddressKey, "地址"},
	"phone":     {"phone", models.ArtifactPhoneKey, "電話"},
	"map_url":   {"map_url", "url", "href", models.ArtifactHrefKey},
	"image_url": {"image_url", "image", models.ArtifactSrcKey},
	"district":  {"district"},
}

var digitsRegexp = regexp.MustCompile(`\d+`)

// Converter turns the raw CSV export into the dataset JSON.
type Converter struct {
	logger *utils.Logger
}

// NewConverter creates a Converter with the given logger.
func NewConverter(logger *utils.Logger) *Converter {
	return &Converter{logger: logger}
}

// Run reads src, converts every row and writes pretty JSON to dst.
// It fails with storage.ErrSourceNotFound when src is missing.
func (c *Converter) Run(src, dst string) ([]models.DatasetRecord, error) {
	table, err := storage.ReadCSV(src)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	records := c.Convert(table)
	if err := storage.WriteDataset(dst, records); err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	c.logger.Info("[converter] Wrote %d records from %s to %s", len(records), src, dst)
	return records, nil
}

// Convert maps CSV rows to dataset records by header name. Rows without a
// name are skipped; district is inferred from the address when absent.
func (c *Converter) Convert(table *storage.CSVTable) []models.DatasetRecord {
	records := make([]models.DatasetRecord, 0, len(table.Rows))

	for i, row := range table.Rows {
		get := func(field string) string { return lookup(table, row, field) }

		name := get("name")
		if name == "" {
			c.logger.Debug("[converter] Skipping row %d without a name", i+2)
			continue
		}

		rec := models.DatasetRecord{
			Name:     name,
			Rating:   ToNumber(get("rating")),
			Reviews:  cleanReviewCount(get("reviews")),
			Address:  get("address"),
			Phone:    get("phone"),
			MapURL:   get("map_url"),
			ImageURL: get("image_url"),
			District: get("district"),
		}
		if rec.District == "" {
			rec.District = InferDistrict(rec.Address)
		}
		records = append(records, rec)
	}
	return records
}

// lookup returns the first non-empty value among the field's header aliases.
func lookup(table *storage.CSVTable, row []string, field string) string {
	for _, h := range columnAliases[field] {
		if v := table.Get(row, h); v != "" {
			return v
		}
	}
	return ""
}

// cleanReviewCount reads counts written as "128", "(1,024)" or "１２８".
func cleanReviewCount(raw string) int {
	s := strings.ReplaceAll(foldDigits(raw), ",", "")
	m := digitsRegexp.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// Tag reads src, runs the tagger over every row and writes the tagged CSV.
// It returns the tagged rows and the per-district counts.
func (c *Converter) Tag(tagger *Tagger, src, dst string) ([]*models.TaggedRow, map[string]int, error) {
	table, err := storage.ReadCSV(src)
	if err != nil {
		return nil, nil, fmt.Errorf("tag: %w", err)
	}

	rows := make([]*models.TaggedRow, 0, len(table.Rows))
	counts := make(map[string]int)
	byRule := make(map[string]int)

	for _, row := range table.Rows {
		get := func(field string) string { return lookup(table, row, field) }

		t := &models.TaggedRow{
			Name:        get("name"),
			Address:     get("address"),
			URL:         get("map_url"),
			Rating:      get("rating"),
			RatingCount: get("reviews"),
			Phone:       get("phone"),
			Image:       get("image_url"),
		}
		t.District, t.TaggedBy = tagger.Tag(t.Name, t.Address, t.URL)
		counts[t.District]++
		byRule[t.TaggedBy]++
		rows = append(rows, t)
	}

	w, err := storage.NewTaggedCSVWriter(dst)
	if err != nil {
		return nil, nil, fmt.Errorf("tag: %w", err)
	}
	if err := w.WriteTagged(rows); err != nil {
		_ = w.Close()
		return nil, nil, fmt.Errorf("tag: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, nil, fmt.Errorf("tag: close %s: %w", dst, err)
	}

	c.logger.Info("[tagger] Tagged %d rows (keyword %d, road %d, override %d, centroid %d, fallback %d)",
		len(rows), byRule[TagByKeyword], byRule[TagByRoad], byRule[TagByOverride],
		byRule[TagByCentroid], byRule[TagByFallback])
	return rows, counts, nil
}
