package services

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"flowerstore-directory/models"
	"flowerstore-directory/utils"
)

const (
	DefaultName   = "未命名花店"
	DefaultMapURL = "#"
)

// Candidate keys per canonical field, in priority order. The legacy
// aliases keep older datasets loading.
var (
	nameKeys     = []string{"name", models.ArtifactNameKey}
	ratingKeys   = []string{"rating", models.LabelRatingKey}
	reviewsKeys  = []string{"reviews", models.LabelReviewsKey}
	addressKeys  = []string{"address", models.ArtifactAddressKey}
	phoneKeys    = []string{"phone", models.ArtifactPhoneKey}
	mapURLKeys   = []string{"map_url", "href", models.ArtifactHrefKey}
	imageURLKeys = []string{"image_url", models.ArtifactSrcKey}
)

// leadingIntRegexp captures the integer prefix of a review count such as "128" or "1,024 則".
var leadingIntRegexp = regexp.MustCompile(`^[+-]?\d+`)

// Normalizer maps raw dataset records to canonical Stores.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize drops null entries and scrape artifacts, then maps every
// remaining record to a Store. IDs are positions in the output.
func (n *Normalizer) Normalize(raw []models.RawRecord) []*models.Store {
	result := make([]*models.Store, 0, len(raw))

	for i, r := range raw {
		if r == nil {
			n.logger.Debug("[normalizer] Dropping null record at %d", i)
			continue
		}
		if _, artifact := r[models.ArtifactNameKey]; artifact {
			n.logger.Debug("[normalizer] Dropping scrape artifact at %d", i)
			continue
		}

		store := NormalizeRecord(r)
		store.ID = len(result)
		result = append(result, store)
	}

	n.logger.Info("[normalizer] Normalized %d → %d stores (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// NormalizeRecord resolves every canonical field of a single raw record.
// The ID is left at zero; Normalize assigns it.
func NormalizeRecord(r models.RawRecord) *models.Store {
	address := resolveString(r, addressKeys, "")

	district := ""
	if v, ok := r["district"]; ok && truthy(v) {
		district = stringify(v)
	}
	if district == "" {
		district = InferDistrict(address)
	}

	return &models.Store{
		Name:     resolveString(r, nameKeys, DefaultName),
		Rating:   ToNumber(resolve(r, ratingKeys)),
		Reviews:  parseReviews(resolve(r, reviewsKeys)),
		Address:  address,
		Phone:    resolveString(r, phoneKeys, ""),
		MapURL:   resolveString(r, mapURLKeys, DefaultMapURL),
		ImageURL: resolveString(r, imageURLKeys, ""),
		District: district,
		Raw:      r,
	}
}

// ToNumber coerces a JSON number or numeric string to a float64.
// Anything unparsable or non-finite yields 0.
func ToNumber(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		s := foldDigits(t)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// parseReviews reads a base-10 review count. Numbers are truncated,
// strings use their integer prefix after thousands separators are
// removed ("1,024" is 1024, not 1), and everything else is 0.
func parseReviews(v any) int {
	var n int64
	switch t := v.(type) {
	case string:
		s := strings.ReplaceAll(foldDigits(t), ",", "")
		m := leadingIntRegexp.FindString(s)
		if m == "" {
			return 0
		}
		parsed, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		f := ToNumber(v)
		if f >= math.MaxInt32 {
			return math.MaxInt32
		}
		n = int64(f)
	}
	if n < 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// resolve returns the first truthy value found under keys, or nil.
func resolve(r models.RawRecord, keys []string) any {
	for _, k := range keys {
		if v, ok := r[k]; ok && truthy(v) {
			return v
		}
	}
	return nil
}

func resolveString(r models.RawRecord, keys []string, fallback string) string {
	v := resolve(r, keys)
	if v == nil {
		return fallback
	}
	return stringify(v)
}

// truthy treats nil, "", false and zero numbers as absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case json.Number:
		return t.String() != "" && t.String() != "0"
	default:
		return true
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// foldDigits trims s and maps full-width characters (e.g. "４.５") to ASCII.
func foldDigits(s string) string {
	return strings.TrimSpace(width.Narrow.String(s))
}
