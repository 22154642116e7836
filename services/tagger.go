package services

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule validation errors.
var (
	ErrInvalidRules      = errors.New("invalid district rules")
	ErrEmptyRuleMatch    = errors.New("rule match text is required")
	ErrEmptyRuleDistrict = errors.New("rule district is required")
	ErrEmptyFallback     = errors.New("fallback district is required")
)

// MatchRule maps a substring to a district label.
type MatchRule struct {
	Match    string `yaml:"match"`
	District string `yaml:"district"`
}

// Centroid is an approximate district centre used for coordinate fallback.
type Centroid struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

// TagRules configures the offline district tagger. Rule lists are
// evaluated in file order.
type TagRules struct {
	Fallback  string            `yaml:"fallback"`
	Keywords  []MatchRule       `yaml:"keywords"`
	Roads     []MatchRule       `yaml:"roads"`
	Overrides map[string]string `yaml:"overrides"`
	Centroids []Centroid        `yaml:"centroids"`
}

// Which rule produced a tag.
const (
	TagByKeyword  = "keyword"
	TagByRoad     = "road"
	TagByOverride = "override"
	TagByCentroid = "centroid"
	TagByFallback = "fallback"
)

// coordRegexp extracts "!3d<lat>!4d<lon>" from a Maps place URL.
var coordRegexp = regexp.MustCompile(`!3d([0-9.+-]+)!4d([0-9.+-]+)`)

// DefaultTagRules returns the built-in rules for the Banqiao / Zhonghe /
// Yonghe area and its neighbours.
func DefaultTagRules() *TagRules {
	const (
		banqiao   = "新北市板橋區"
		zhonghe   = "新北市中和區"
		yonghe    = "新北市永和區"
		tucheng   = "新北市土城區"
		xinzhuang = "新北市新莊區"
		songshan  = "台北市松山區"
		zhongshan = "台北市中山區"
		wenshan   = "台北市文山區"
	)

	roads := func(district string, names ...string) []MatchRule {
		out := make([]MatchRule, len(names))
		for i, n := range names {
			out[i] = MatchRule{Match: n, District: district}
		}
		return out
	}

	var roadRules []MatchRule
	roadRules = append(roadRules, roads(banqiao,
		"新海路", "中正路", "英士路", "民生路二段", "民生路一段", "民生路",
		"文化路一段", "文化路二段", "板橋花市", "中山路一段", "中山路二段",
		"南雅南路", "板新路", "漢生東路", "縣民大道", "立德路", "民德路",
		"民權路", "民族路", "倉後街", "長安街", "校前街", "陽明街", "海山路",
		"南華路", "信義路", "南門街", "民生街", "三民路", "四川路一段",
		"四川路二段", "藝文街")...)
	roadRules = append(roadRules, roads(zhonghe,
		"連城路", "景新街", "和平路", "和平街", "中和路", "員山路", "南山路", "保健路")...)
	roadRules = append(roadRules, roads(yonghe, "延和路")...)
	roadRules = append(roadRules, roads(tucheng, "裕民路", "金城路", "忠孝路")...)
	roadRules = append(roadRules, roads(xinzhuang, "瓊林路")...)
	roadRules = append(roadRules, roads(songshan, "敦化北路")...)
	roadRules = append(roadRules, roads(zhongshan, "長安東路")...)
	roadRules = append(roadRules, roads(wenshan, "萬寧街")...)

	return &TagRules{
		Fallback: "待確認",
		Keywords: []MatchRule{
			{Match: "板橋", District: banqiao},
			{Match: "中和", District: zhonghe},
			{Match: "永和", District: yonghe},
		},
		Roads: roadRules,
		Overrides: map[string]string{
			"台北愛麗絲花坊網路花店": songshan,
			"玖桉花藝 南京復興": zhongshan,
			"榆果工作室 ( 榆果傢飾 )": wenshan,
			"花見鍾情花坊": tucheng,
			"Millie米莉花藝坊": tucheng,
			"麗的花坊工作室": banqiao,
		},
		Centroids: []Centroid{
			{Name: banqiao, Lat: 25.0112, Lon: 121.4637},
			{Name: zhonghe, Lat: 24.9990, Lon: 121.4870},
			{Name: yonghe, Lat: 25.0090, Lon: 121.5150},
			{Name: tucheng, Lat: 24.9730, Lon: 121.4440},
			{Name: xinzhuang, Lat: 25.0370, Lon: 121.4510},
			{Name: songshan, Lat: 25.0520, Lon: 121.5560},
			{Name: zhongshan, Lat: 25.0620, Lon: 121.5330},
			{Name: wenshan, Lat: 24.9950, Lon: 121.5540},
		},
	}
}

// LoadTagRules reads rules from a YAML file. An empty path returns the
// built-in defaults.
func LoadTagRules(path string) (*TagRules, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultTagRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules TagRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}
	return &rules, nil
}

// Validate checks that every rule names both a match and a district.
func (r *TagRules) Validate() error {
	if strings.TrimSpace(r.Fallback) == "" {
		return ErrEmptyFallback
	}
	lists := []struct {
		name  string
		rules []MatchRule
	}{{"keywords", r.Keywords}, {"roads", r.Roads}}
	for _, list := range lists {
		for i, rule := range list.rules {
			if rule.Match == "" {
				return fmt.Errorf("%w: %s[%d]", ErrEmptyRuleMatch, list.name, i)
			}
			if rule.District == "" {
				return fmt.Errorf("%w: %s[%d]", ErrEmptyRuleDistrict, list.name, i)
			}
		}
	}
	for i, c := range r.Centroids {
		if c.Name == "" {
			return fmt.Errorf("%w: centroids[%d]", ErrEmptyRuleDistrict, i)
		}
	}
	return nil
}

// Tagger applies TagRules to a listing.
type Tagger struct {
	rules *TagRules
}

// NewTagger creates a Tagger. A nil rules value uses the defaults.
func NewTagger(rules *TagRules) *Tagger {
	if rules == nil {
		rules = DefaultTagRules()
	}
	return &Tagger{rules: rules}
}

// Tag returns the district for a listing and the rule kind that decided it.
// Order: keyword in any field, road name in the address, manual override
// by exact name, nearest centroid from the URL coordinates, fallback.
func (t *Tagger) Tag(name, address, mapURL string) (district, by string) {
	combined := name + " " + address + " " + mapURL
	for _, k := range t.rules.Keywords {
		if strings.Contains(combined, k.Match) {
			return k.District, TagByKeyword
		}
	}

	for _, road := range t.rules.Roads {
		if strings.Contains(address, road.Match) {
			return road.District, TagByRoad
		}
	}

	if d, ok := t.rules.Overrides[name]; ok {
		return d, TagByOverride
	}

	if lat, lon, ok := ExtractCoords(mapURL); ok && len(t.rules.Centroids) > 0 {
		return t.nearestCentroid(lat, lon), TagByCentroid
	}

	return t.rules.Fallback, TagByFallback
}

func (t *Tagger) nearestCentroid(lat, lon float64) string {
	best := ""
	bestDist := math.Inf(1)
	for _, c := range t.rules.Centroids {
		if d := haversineKm(lat, lon, c.Lat, c.Lon); d < bestDist {
			best, bestDist = c.Name, d
		}
	}
	return best
}

// ExtractCoords pulls latitude and longitude out of a Maps place URL.
func ExtractCoords(mapURL string) (lat, lon float64, ok bool) {
	m := coordRegexp.FindStringSubmatch(mapURL)
	if len(m) < 3 {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	phi1, phi2 := lat1*math.Pi/180, lat2*math.Pi/180
	dphi := (lat2 - lat1) * math.Pi / 180
	dlambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dphi/2)*math.Sin(dphi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dlambda/2)*math.Sin(dlambda/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
