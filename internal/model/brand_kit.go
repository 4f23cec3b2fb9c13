package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	defaultBrandPrimaryColor   = "#535C91"
	defaultBrandSecondaryColor = "#9290C3"
	defaultBrandFont           = "Inter"
)

var (
	ErrInvalidBrandColor = errors.New("invalid_brand_color")

	hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// BrandKit holds the workspace theme settings.
type BrandKit struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	Font           string `json:"font"`
}

// DefaultBrandKit returns the stock Candlelight palette.
func DefaultBrandKit() BrandKit {
	return BrandKit{
		PrimaryColor:   defaultBrandPrimaryColor,
		SecondaryColor: defaultBrandSecondaryColor,
		Font:           defaultBrandFont,
	}
}

// NewBrandKit validates the colors and defaults the font when omitted.
func NewBrandKit(primaryColor string, secondaryColor string, font string) (BrandKit, error) {
	trimmedPrimary := strings.TrimSpace(primaryColor)
	if !hexColorPattern.MatchString(trimmedPrimary) {
		return BrandKit{}, fmt.Errorf("%w: %s", ErrInvalidBrandColor, primaryColor)
	}
	trimmedSecondary := strings.TrimSpace(secondaryColor)
	if !hexColorPattern.MatchString(trimmedSecondary) {
		return BrandKit{}, fmt.Errorf("%w: %s", ErrInvalidBrandColor, secondaryColor)
	}
	trimmedFont := strings.TrimSpace(font)
	if trimmedFont == "" {
		trimmedFont = defaultBrandFont
	}
	return BrandKit{
		PrimaryColor:   trimmedPrimary,
		SecondaryColor: trimmedSecondary,
		Font:           trimmedFont,
	}, nil
}
