package builder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CandlelightHQ/candlelight_svc/internal/builder"
	"github.com/CandlelightHQ/candlelight_svc/internal/model"
)

func generatedSiteFixture() *model.GeneratedSite {
	return &model.GeneratedSite{
		BusinessName:   "sunrise bakery",
		BusinessType:   model.BusinessTypeRestaurant,
		Features:       []string{"Menu", "Reservations", "Catering"},
		Tagline:        "Delicious culinary experience",
		OriginalPrompt: "a website for sunrise bakery",
	}
}

func TestRenderExportIncludesBusinessSections(t *testing.T) {
	document, renderErr := builder.RenderExport(generatedSiteFixture(), nil)
	require.NoError(t, renderErr)

	require.Contains(t, document, "<!DOCTYPE html>")
	require.Contains(t, document, "https://cdn.tailwindcss.com")
	require.Contains(t, document, "sunrise bakery")
	require.Contains(t, document, "Delicious culinary experience")
	require.Contains(t, document, "Our Services")
	require.Contains(t, document, "Reservations")
	require.Contains(t, document, "info@sunrisebakery.com")
	require.Contains(t, document, "+1 (555) 123-4567")
	require.Contains(t, document, "All rights reserved.")
	require.Contains(t, document, "a website for sunrise bakery")
}

func TestRenderExportInterpolatesVerbatim(t *testing.T) {
	site := generatedSiteFixture()
	site.BusinessName = "smith & sons"
	site.OriginalPrompt = `a site for "Smith & Sons" hardware`

	document, renderErr := builder.RenderExport(site, nil)
	require.NoError(t, renderErr)

	require.Contains(t, document, "smith & sons")
	require.Contains(t, document, `a site for "Smith & Sons" hardware`)
	require.NotContains(t, document, "&amp;")
	require.NotContains(t, document, "&#34;")
}

func TestRenderExportIncludesDroppedComponents(t *testing.T) {
	document, renderErr := builder.RenderExport(nil, []string{builder.ComponentHeader, builder.ComponentButton})
	require.NoError(t, renderErr)
	require.NotEmpty(t, document)
	require.Contains(t, document, "Your Website")
}

func TestRenderExportWithNothingProducesEmptyDocument(t *testing.T) {
	document, renderErr := builder.RenderExport(nil, nil)
	require.NoError(t, renderErr)
	require.Empty(t, document)
}

func TestExportFileNameDerivesFromBusinessName(t *testing.T) {
	require.Equal(t, "sunrise bakery.html", builder.ExportFileName(generatedSiteFixture()))
	require.Equal(t, "website.html", builder.ExportFileName(nil))
	require.Equal(t, "website.html", builder.ExportFileName(&model.GeneratedSite{}))
}

func TestComponentNamesMatchPalette(t *testing.T) {
	paletteNames := builder.ComponentNames()
	require.Equal(t, []string{
		builder.ComponentHeader,
		builder.ComponentTextBlock,
		builder.ComponentImage,
		builder.ComponentButton,
	}, paletteNames)

	for _, componentName := range paletteNames {
		require.True(t, builder.IsKnownComponent(componentName))
	}
	require.False(t, builder.IsKnownComponent("Footer"))
}
