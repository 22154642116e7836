package services

import (
	"regexp"
	"strings"
)

// DistrictSuffix is appended to a matched keyword to form the label.
const DistrictSuffix = "區"

// districtKeywords is the closed, ordered keyword list. The first entry
// doubles as the default district.
var districtKeywords = []string{"板橋", "中和", "永和", "土城", "新莊", "三重", "新店"}

var districtRegexp = regexp.MustCompile(strings.Join(districtKeywords, "|"))

// DefaultDistrict is returned when no keyword matches.
var DefaultDistrict = districtKeywords[0] + DistrictSuffix

// InferDistrict derives a district label from free-text address. The
// leftmost keyword occurrence wins; ties at the same position go to the
// earlier keyword. Empty or unmatched addresses get DefaultDistrict.
func InferDistrict(address string) string {
	if address == "" {
		return DefaultDistrict
	}
	m := districtRegexp.FindString(address)
	if m == "" {
		return DefaultDistrict
	}
	return m + DistrictSuffix
}

// KnownDistricts lists every label InferDistrict can return, in keyword order.
func KnownDistricts() []string {
	out := make([]string, len(districtKeywords))
	for i, k := range districtKeywords {
		out[i] = k + DistrictSuffix
	}
	return out
}
