package model

// Business classifications assigned by the site generator. Matching is by
// ordered keyword groups; the first group that matches wins.
const (
	BusinessTypeTech       = "tech"
	BusinessTypeRestaurant = "restaurant"
	BusinessTypePortfolio  = "portfolio"
	BusinessTypeEcommerce  = "ecommerce"
	BusinessTypeGeneric    = "business"
)

// GeneratedSite is the canned content produced by the simulated generator.
type GeneratedSite struct {
	BusinessName   string   `json:"businessName"`
	BusinessType   string   `json:"businessType"`
	Features       []string `json:"features"`
	Tagline        string   `json:"tagline"`
	OriginalPrompt string   `json:"originalPrompt"`
}
