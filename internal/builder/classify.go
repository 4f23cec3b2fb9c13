// Package builder turns a free-text prompt into a generated site description
// and renders the exportable HTML document for it.
package builder

import (
	"strings"

	"github.com/CandlelightHQ/candlelight_svc/internal/model"
)

const (
	fallbackBusinessName = "Your Business"
	businessNameWordCap  = 2
)

var promptSkipWords = map[string]struct{}{
	"create":  {},
	"build":   {},
	"make":    {},
	"design":  {},
	"develop": {},
	"a":       {},
	"an":      {},
	"the":     {},
	"for":     {},
	"website": {},
	"site":    {},
	"page":    {},
}

type promptCategory struct {
	keywords     []string
	businessType string
	features     []string
	tagline      string
}

// promptCategories is checked in order; the first keyword hit wins.
var promptCategories = []promptCategory{
	{
		keywords:     []string{"tech", "startup", "software"},
		businessType: model.BusinessTypeTech,
		features:     []string{"AI Solutions", "Analytics", "Automation"},
		tagline:      "Innovative technology solutions",
	},
	{
		keywords:     []string{"restaurant", "food", "cafe", "tea", "coffee"},
		businessType: model.BusinessTypeRestaurant,
		features:     []string{"Menu", "Reservations", "Catering"},
		tagline:      "Delicious culinary experience",
	},
	{
		keywords:     []string{"portfolio", "personal", "designer"},
		businessType: model.BusinessTypePortfolio,
		features:     []string{"Projects", "About", "Contact"},
		tagline:      "Creative professional portfolio",
	},
	{
		keywords:     []string{"shop", "store", "ecommerce"},
		businessType: model.BusinessTypeEcommerce,
		features:     []string{"Products", "Cart", "Checkout"},
		tagline:      "Premium shopping experience",
	},
}

var defaultPromptCategory = promptCategory{
	businessType: model.BusinessTypeGeneric,
	features:     []string{"Services", "About", "Contact"},
	tagline:      "Professional business solutions",
}

// ClassifyPrompt derives the generated site description from a free-text
// prompt. The same prompt always yields the same result.
func ClassifyPrompt(prompt string) model.GeneratedSite {
	loweredPrompt := strings.ToLower(prompt)
	matchedCategory := defaultPromptCategory
classification:
	for _, candidateCategory := range promptCategories {
		for _, keyword := range candidateCategory.keywords {
			if strings.Contains(loweredPrompt, keyword) {
				matchedCategory = candidateCategory
				break classification
			}
		}
	}
	return model.GeneratedSite{
		BusinessName:   deriveBusinessName(prompt),
		BusinessType:   matchedCategory.businessType,
		Features:       matchedCategory.features,
		Tagline:        matchedCategory.tagline,
		OriginalPrompt: prompt,
	}
}

// deriveBusinessName keeps the first two lowercased prompt words that are
// not filler. A prompt made entirely of filler falls back to a placeholder.
func deriveBusinessName(prompt string) string {
	var keptWords []string
	for _, rawWord := range strings.Fields(strings.ToLower(prompt)) {
		if _, skip := promptSkipWords[rawWord]; skip {
			continue
		}
		keptWords = append(keptWords, rawWord)
		if len(keptWords) == businessNameWordCap {
			break
		}
	}
	if len(keptWords) == 0 {
		return fallbackBusinessName
	}
	return strings.Join(keptWords, " ")
}
