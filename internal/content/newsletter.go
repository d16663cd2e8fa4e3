package content

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
)

// NewsletterArticleLimit is the article prefix sent to the newsletter call.
const NewsletterArticleLimit = 4000

type NewsletterCTA struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type Newsletter struct {
	Subject     string        `json:"subject"`
	Intro       string        `json:"intro"`
	Highlights  []string      `json:"highlights"`
	MainContent string        `json:"mainContent"`
	CTA         NewsletterCTA `json:"cta"`
	Closing     string        `json:"closing"`
}

func BuildNewsletterPrompt(article, title string) string {
	return fmt.Sprintf(`You are a newsletter writer. Create an engaging email newsletter from this article.

ARTICLE TITLE: %s

ARTICLE CONTENT:
%s

Generate a newsletter with:
1. Catchy subject line (50-60 chars)
2. Personal intro (2-3 sentences)
3. 3-5 key highlights (bullet points)
4. Main content (200-300 words, conversational)
5. Call-to-action
6. Friendly closing

Return ONLY a JSON object:
{
  "subject": "subject line",
  "intro": "intro text",
  "highlights": ["highlight1", "highlight2"],
  "mainContent": "main content",
  "cta": {
    "text": "CTA text",
    "url": "https://example.com"
  },
  "closing": "closing text"
}`, title, TruncatePrefix(article, NewsletterArticleLimit))
}

func ParseNewsletter(raw string) (Newsletter, error) {
	var n Newsletter
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return Newsletter{}, fmt.Errorf("failed to parse newsletter content: %w", err)
	}
	return n, nil
}

var newsletterTemplate = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Subject}}</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #333333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f4f4f4; }
    .container { background-color: #ffffff; padding: 40px; border-radius: 8px; }
    h1 { color: #2563eb; font-size: 24px; margin-bottom: 20px; }
    .intro { font-size: 16px; margin-bottom: 30px; color: #555555; }
    .highlights { background-color: #f8fafc; padding: 20px; border-left: 4px solid #2563eb; margin: 30px 0; }
    .highlights h2 { font-size: 18px; color: #1e40af; margin-top: 0; }
    .highlights li { margin-bottom: 10px; color: #374151; }
    .main-content { font-size: 15px; line-height: 1.8; color: #374151; margin: 30px 0; }
    .cta { text-align: center; margin: 40px 0; }
    .cta-button { display: inline-block; padding: 14px 32px; background-color: #2563eb; color: #ffffff !important; text-decoration: none; border-radius: 6px; font-weight: 600; font-size: 16px; }
    .closing { font-size: 15px; color: #555555; margin-top: 30px; padding-top: 20px; border-top: 1px solid #e5e7eb; }
    .footer { text-align: center; font-size: 12px; color: #9ca3af; margin-top: 40px; padding-top: 20px; border-top: 1px solid #e5e7eb; }
  </style>
</head>
<body>
  <div class="container">
    <h1>{{.Subject}}</h1>
    <div class="intro">{{.Intro}}</div>
    <div class="highlights">
      <h2>Key Takeaways</h2>
      <ul>
        {{range .Highlights}}<li>{{.}}</li>
        {{end}}
      </ul>
    </div>
    <div class="main-content">
      {{range .Paragraphs}}<p>{{.}}</p>
      {{end}}
    </div>
    <div class="cta">
      <a href="{{.CTA.URL}}" class="cta-button">{{.CTA.Text}}</a>
    </div>
    <div class="closing">{{.Closing}}</div>
    <div class="footer">
      <p>You're receiving this because you subscribed to our newsletter.</p>
    </div>
  </div>
</body>
</html>`))

type newsletterView struct {
	Newsletter
	Paragraphs []string
}

// RenderNewsletterHTML turns the parsed newsletter structure into the fixed
// email template.
func RenderNewsletterHTML(n Newsletter) (string, error) {
	view := newsletterView{Newsletter: n}
	for _, p := range strings.Split(n.MainContent, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			view.Paragraphs = append(view.Paragraphs, p)
		}
	}

	var sb strings.Builder
	if err := newsletterTemplate.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("failed to render newsletter: %w", err)
	}
	return sb.String(), nil
}
