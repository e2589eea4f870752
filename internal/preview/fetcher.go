// Package preview fetches page metadata (Open Graph tags, title, meta
// description) for saved links.
package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/sundayezeilo/linkboard/internal/links"
)

const (
	DefaultMaxBodyBytes = 1 << 20
	DefaultUserAgent    = "linkboard-preview/1.0"
)

// Fetcher retrieves preview metadata over HTTP. It implements
// links.PreviewFetcher.
type Fetcher struct {
	client       *http.Client
	maxBodyBytes int64
	userAgent    string
}

// Config holds configuration for the fetcher.
type Config struct {
	Client       *http.Client // defaults to http.DefaultClient
	MaxBodyBytes int64
	UserAgent    string
}

// NewFetcher creates a new Fetcher instance.
func NewFetcher(config *Config) *Fetcher {
	if config == nil {
		config = &Config{}
	}

	client := config.Client
	if client == nil {
		client = http.DefaultClient
	}
	maxBody := config.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Fetcher{
		client:       client,
		maxBodyBytes: maxBody,
		userAgent:    userAgent,
	}
}

// Fetch downloads the page at url and extracts its preview metadata.
// The response body is read up to the configured cap; pages larger than
// that are parsed from the truncated prefix, which is where metadata
// lives anyway.
func (f *Fetcher) Fetch(ctx context.Context, url string) (links.LinkPreview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return links.LinkPreview{}, fmt.Errorf("building preview request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return links.LinkPreview{}, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return links.LinkPreview{}, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") {
		return links.LinkPreview{}, fmt.Errorf("fetching %s: unsupported content type %q", url, contentType)
	}

	return parsePreview(io.LimitReader(resp.Body, f.maxBodyBytes)), nil
}

// parsePreview walks the HTML token stream collecting Open Graph
// properties, falling back to <title> and the description meta tag.
// Open Graph values win over fallbacks regardless of document order.
func parsePreview(r io.Reader) links.LinkPreview {
	var (
		preview      links.LinkPreview
		fallback     links.LinkPreview
		inTitle      bool
		titleBuilder strings.Builder
	)

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			// Truncated input still yields whatever was parsed.
			return merge(preview, fallback, titleBuilder.String())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "meta":
				if hasAttr {
					applyMeta(z, &preview, &fallback)
				}
			case "title":
				inTitle = true
			case "body":
				// Metadata lives in <head>; stop early.
				return merge(preview, fallback, titleBuilder.String())
			}

		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "title" {
				inTitle = false
			}

		case html.TextToken:
			if inTitle && titleBuilder.Len() == 0 {
				titleBuilder.Write(z.Text())
			}
		}
	}
}

func applyMeta(z *html.Tokenizer, preview, fallback *links.LinkPreview) {
	var property, name, content string
	for {
		key, val, more := z.TagAttr()
		switch string(key) {
		case "property":
			property = string(val)
		case "name":
			name = string(val)
		case "content":
			content = string(val)
		}
		if !more {
			break
		}
	}
	if content == "" {
		return
	}

	switch property {
	case "og:title":
		preview.Title = content
	case "og:description":
		preview.Description = content
	case "og:image":
		preview.ImageURL = content
	}
	if name == "description" {
		fallback.Description = content
	}
}

func merge(preview, fallback links.LinkPreview, pageTitle string) links.LinkPreview {
	if preview.Title == "" {
		preview.Title = strings.TrimSpace(pageTitle)
	}
	if preview.Description == "" {
		preview.Description = fallback.Description
	}
	return preview
}
