package builder

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/CandlelightHQ/candlelight_svc/internal/model"
)

const (
	// Draggable component names accepted by the manual canvas.
	ComponentHeader    = "Header"
	ComponentTextBlock = "Text Block"
	ComponentImage     = "Image"
	ComponentButton    = "Button"

	exportFallbackTitle    = "Your Website"
	exportFallbackFileName = "website"
	exportFileExtension    = ".html"
)

// ComponentNames lists the draggable components in palette order.
func ComponentNames() []string {
	return []string{ComponentHeader, ComponentTextBlock, ComponentImage, ComponentButton}
}

var knownComponentNames = map[string]struct{}{
	ComponentHeader:    {},
	ComponentTextBlock: {},
	ComponentImage:     {},
	ComponentButton:    {},
}

// IsKnownComponent reports whether the name is a palette component.
func IsKnownComponent(componentName string) bool {
	_, known := knownComponentNames[componentName]
	return known
}

var exportDocumentTemplate = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50">
{{- if .Site}}
    <!-- Header -->
    <header class="bg-white border-b">
        <div class="max-w-6xl mx-auto px-4 py-4">
            <div class="flex items-center justify-between">
                <div class="flex items-center gap-2">
                    <div class="w-8 h-8 bg-blue-600 rounded-lg"></div>
                    <span class="font-bold text-lg">{{.Site.BusinessName}}</span>
                </div>
                <nav class="hidden md:flex gap-6">
                    <a href="#" class="text-gray-600 hover:text-gray-900">Home</a>
                    <a href="#" class="text-gray-600 hover:text-gray-900">About</a>
                    <a href="#" class="text-gray-600 hover:text-gray-900">Services</a>
                    <a href="#" class="text-gray-600 hover:text-gray-900">Contact</a>
                </nav>
            </div>
        </div>
    </header>

    <!-- Hero Section -->
    <section class="bg-blue-600 text-white py-16 text-center">
        <h1 class="text-4xl font-bold mb-4">{{.Site.BusinessName}}</h1>
        <p class="text-xl mb-8">{{.Site.Tagline}}</p>
        <div class="space-x-4">
            <button class="bg-white text-blue-600 px-6 py-3 rounded-lg font-semibold">Get Started</button>
            <button class="border-2 border-white px-6 py-3 rounded-lg font-semibold">Learn More</button>
        </div>
    </section>

    <!-- Features Section -->
    <section class="py-16 px-4">
        <div class="max-w-6xl mx-auto text-center">
            <h2 class="text-3xl font-bold mb-8">Our Services</h2>
            <div class="grid md:grid-cols-3 gap-8">
{{- range .Site.Features}}
                <div class="bg-white p-6 rounded-xl border">
                    <div class="w-16 h-16 bg-blue-100 rounded-xl mx-auto mb-4"></div>
                    <h3 class="font-semibold mb-2">{{.}}</h3>
                    <p class="text-gray-600 text-sm">Professional solutions for your needs</p>
                </div>
{{- end}}
            </div>
        </div>
    </section>

    <!-- Footer -->
    <footer class="bg-blue-600 text-white py-8 px-4">
        <div class="max-w-6xl mx-auto">
            <div class="grid md:grid-cols-3 gap-6 mb-6">
                <div>
                    <span class="font-bold">{{.Site.BusinessName}}</span>
                    <p class="text-sm opacity-70">{{.Site.Tagline}}</p>
                </div>
                <div>
                    <h4 class="font-semibold mb-3">Company</h4>
                    <p class="text-sm opacity-70">About Us</p>
                    <p class="text-sm opacity-70">Careers</p>
                    <p class="text-sm opacity-70">Privacy Policy</p>
                </div>
                <div>
                    <h4 class="font-semibold mb-3">Contact</h4>
                    <p class="text-sm opacity-70">{{.ContactEmail}}</p>
                    <p class="text-sm opacity-70">+1 (555) 123-4567</p>
                    <p class="text-sm opacity-70">123 Business St, City</p>
                </div>
            </div>
            <p class="text-xs text-center opacity-60">&copy; 2024 {{.Site.BusinessName}}. All rights reserved. | Generated from: &quot;{{.Site.OriginalPrompt}}&quot;</p>
        </div>
    </footer>
{{- end}}
{{- range .Components}}
{{- if eq . "Header"}}
    <header class="bg-white border-b p-4">
        <div class="flex items-center justify-between">
            <span class="font-bold">Your Business</span>
            <nav class="flex gap-6">
                <a href="#">Home</a>
                <a href="#">About</a>
                <a href="#">Contact</a>
            </nav>
        </div>
    </header>
{{- end}}
{{- if eq . "Text Block"}}
    <section class="p-8">
        <h2 class="text-3xl font-bold mb-4">Sample Heading</h2>
        <p class="text-gray-600">This is a sample text block with content that you can customize.</p>
    </section>
{{- end}}
{{- if eq . "Image"}}
    <section class="p-8">
        <div class="w-full h-64 bg-gray-200 rounded-lg flex items-center justify-center">
            <span class="text-gray-500">Your Image Here</span>
        </div>
    </section>
{{- end}}
{{- if eq . "Button"}}
    <section class="p-8 text-center">
        <button class="bg-blue-600 text-white px-8 py-4 rounded-lg font-semibold">Click Me</button>
    </section>
{{- end}}
{{- end}}
</body>
</html>
`))

type exportDocumentInput struct {
	Title        string
	ContactEmail string
	Site         *model.GeneratedSite
	Components   []string
}

// RenderExport produces the downloadable HTML document. Site fields
// interpolate verbatim into the canned markup. With neither generated
// content nor dropped components there is nothing to export and the
// document is empty.
func RenderExport(generatedSite *model.GeneratedSite, droppedComponents []string) (string, error) {
	if generatedSite == nil && len(droppedComponents) == 0 {
		return "", nil
	}
	documentInput := exportDocumentInput{
		Title:      exportFallbackTitle,
		Site:       generatedSite,
		Components: droppedComponents,
	}
	if generatedSite != nil {
		documentInput.Title = generatedSite.BusinessName
		documentInput.ContactEmail = contactEmail(generatedSite.BusinessName)
	}
	var renderedDocument strings.Builder
	if renderErr := exportDocumentTemplate.Execute(&renderedDocument, documentInput); renderErr != nil {
		return "", renderErr
	}
	return renderedDocument.String(), nil
}

// ExportFileName derives the download file name from the generated content.
func ExportFileName(generatedSite *model.GeneratedSite) string {
	baseName := exportFallbackFileName
	if generatedSite != nil && generatedSite.BusinessName != "" {
		baseName = generatedSite.BusinessName
	}
	return baseName + exportFileExtension
}

func contactEmail(businessName string) string {
	return fmt.Sprintf("info@%s.com", strings.ReplaceAll(strings.ToLower(businessName), " ", ""))
}
