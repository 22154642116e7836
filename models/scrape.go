package models

import "time"

// ScrapedPlace holds unprocessed card data straight from the results feed.
// It is written to CSV before any cleaning.
type ScrapedPlace struct {
	Href      string
	Name      string
	Rating    string
	Reviews   string
	Address   string
	Phone     string
	ImageSrc  string
	ScrapedAt time.Time
}

// Row returns the place as a CSV row in ScrapeHeader order.
func (p *ScrapedPlace) Row() []string {
	return []string{p.Href, p.Name, p.Rating, p.Reviews, p.Address, p.Phone, p.ImageSrc}
}

// DatasetRecord is one entry of the dataset JSON written by the converter.
type DatasetRecord struct {
	Name     string  `json:"name"`
	Rating   float64 `json:"rating"`
	Reviews  int     `json:"reviews"`
	Address  string  `json:"address"`
	Phone    string  `json:"phone"`
	MapURL   string  `json:"map_url"`
	ImageURL string  `json:"image_url"`
	District string  `json:"district"`
}

// TaggedRow is one row of the tagger's CSV output.
type TaggedRow struct {
	Name        string
	Address     string
	URL         string
	Rating      string
	RatingCount string
	Phone       string
	Image       string
	District    string
	TaggedBy    string
}

// TaggedHeader is the column order of the tagger's CSV output.
var TaggedHeader = []string{"name", "address", "url", "rating", "rating_count", "phone", "image", "district", "tagged_by"}

// Row returns the tagged row in TaggedHeader order.
func (t *TaggedRow) Row() []string {
	return []string{t.Name, t.Address, t.URL, t.Rating, t.RatingCount, t.Phone, t.Image, t.District, t.TaggedBy}
}
