package models

// Column and JSON keys seen in the raw data. The artifact keys are class
// names from the Maps scrape tool; the label keys come from the localized
// CSV export.
const (
	ArtifactNameKey    = "qBF1Pd"
	LabelRatingKey     = "評分"
	LabelReviewsKey    = "評分數"
	ArtifactAddressKey = ""
	ArtifactPhoneKey   = "UsdlK"
	ArtifactHrefKey    = "hfpxzc href"
	ArtifactSrcKey     = "FQ2IWe src"
)

// ScrapeHeader is the column order of the raw scrape CSV.
var ScrapeHeader = []string{
	ArtifactHrefKey,
	ArtifactNameKey,
	LabelRatingKey,
	LabelReviewsKey,
	ArtifactAddressKey,
	ArtifactPhoneKey,
	ArtifactSrcKey,
}
