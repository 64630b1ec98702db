package titlefetch

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var titleRe = regexp.MustCompile(`(?is)<title[^>]*>([^<]*)</title>`)

// Fetcher resolves page titles for single-link captures. Strictly best
// effort: any failure falls back to the URL and is never surfaced.
type Fetcher struct {
	client *resty.Client
}

func New(timeout time.Duration) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "text/html")

	return &Fetcher{client: client}
}

// Title returns the page's <title>, or rawURL when it cannot be determined.
func (f *Fetcher) Title(ctx context.Context, rawURL string) string {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(rawURL)
	if err != nil || resp.IsError() {
		return rawURL
	}

	title := ExtractTitle(resp.String())
	if title == "" {
		return rawURL
	}
	return title
}

// ExtractTitle pulls the first <title> out of an HTML document and
// unescapes the common entities. Empty when no usable title exists.
func ExtractTitle(html string) string {
	m := titleRe.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(unescapeEntities(m[1]))
}

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#x27;", "'",
	"&nbsp;", " ",
)

func unescapeEntities(s string) string {
	return entityReplacer.Replace(s)
}
