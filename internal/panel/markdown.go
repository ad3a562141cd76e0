package panel

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// RenderWaterText converts the dataset's water resources text from
// markdown to HTML. Raw HTML in the source is dropped and only safe link
// schemes become anchors.
func RenderWaterText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank | html.SkipHTML | html.Safelink,
	})
	return string(markdown.ToHTML([]byte(text), p, renderer))
}
