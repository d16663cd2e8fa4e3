package content

import (
	"fmt"
	"html"
)

// CardSize is a target image dimension for one platform.
type CardSize struct {
	Width  int
	Height int
}

// CardSizes are the per-platform dimensions for generated title cards.
var CardSizes = map[string]CardSize{
	"instagram": {Width: 1080, Height: 1080},
	"twitter":   {Width: 1200, Height: 675},
	"linkedin":  {Width: 1200, Height: 627},
	"facebook":  {Width: 1200, Height: 630},
}

var cardGradients = [][2]string{
	{"#667eea", "#764ba2"},
	{"#f093fb", "#f5576c"},
	{"#4facfe", "#00f2fe"},
	{"#43e97b", "#38f9d7"},
	{"#fa709a", "#fee140"},
}

const titleCardMaxChars = 50

// RenderTitleCard produces the template-based share image for an episode as an
// SVG document. Template images keep the per-episode image cost at zero.
func RenderTitleCard(title string, size CardSize) []byte {
	display := TruncatePrefix(title, titleCardMaxChars)

	svg := fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="grad" x1="0%%" y1="0%%" x2="100%%" y2="100%%">
      <stop offset="0%%" style="stop-color:#6366f1;stop-opacity:1" />
      <stop offset="100%%" style="stop-color:#ec4899;stop-opacity:1" />
    </linearGradient>
  </defs>
  <rect width="%d" height="%d" fill="url(#grad)"/>
  <rect x="40" y="40" width="%d" height="%d" fill="none" stroke="white" stroke-width="3"/>
  <text x="%d" y="%d" font-size="48" font-weight="bold" fill="white" text-anchor="middle" font-family="Arial, sans-serif">PodBlog</text>
  <text x="%d" y="%d" font-size="36" fill="white" text-anchor="middle" font-family="Arial, sans-serif">%s</text>
</svg>`,
		size.Width, size.Height,
		size.Width, size.Height,
		size.Width-80, size.Height-80,
		size.Width/2, size.Height/2-40,
		size.Width/2, size.Height/2+60,
		html.EscapeString(display))

	return []byte(svg)
}

// RenderQuoteCard produces a share image for a single extracted quote. The
// gradient rotates by index so a batch of cards does not look uniform.
func RenderQuoteCard(quote Quote, index int, size CardSize) []byte {
	gradient := cardGradients[index%len(cardGradients)]

	author := ""
	if quote.Author != "" {
		author = fmt.Sprintf(`<text x="%d" y="%d" font-size="28" fill="rgba(255,255,255,0.9)" text-anchor="middle" font-family="Arial, sans-serif">— %s</text>`,
			size.Width/2, size.Height*85/100, html.EscapeString(quote.Author))
	}

	svg := fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="grad" x1="0%%" y1="0%%" x2="100%%" y2="100%%">
      <stop offset="0%%" style="stop-color:%s;stop-opacity:1" />
      <stop offset="100%%" style="stop-color:%s;stop-opacity:1" />
    </linearGradient>
  </defs>
  <rect width="%d" height="%d" fill="url(#grad)"/>
  <text x="%d" y="%d" font-family="Georgia, serif" font-size="120" fill="rgba(255,255,255,0.3)" font-weight="bold">&#8220;</text>
  <text x="%d" y="%d" font-size="36" font-weight="600" fill="white" text-anchor="middle" font-family="Arial, sans-serif">%s</text>
  %s
</svg>`,
		size.Width, size.Height,
		gradient[0], gradient[1],
		size.Width, size.Height,
		size.Width/10, size.Height/5,
		size.Width/2, size.Height/2, html.EscapeString(quote.Text),
		author)

	return []byte(svg)
}
