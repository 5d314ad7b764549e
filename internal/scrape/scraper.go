package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"url-roaster/internal/config"
)

// MaxTextLen caps the page text handed to the script writer, in characters.
const MaxTextLen = 4000

var (
	// ErrFetch wraps any transport, status or parse failure during retrieval.
	ErrFetch = errors.New("page fetch failed")
	// ErrEmptyContent means the page was retrieved but yielded no text,
	// even after the readability fallback.
	ErrEmptyContent = errors.New("page has no extractable text")
)

// Scraper fetches a page and extracts its visible paragraph text.
type Scraper struct {
	httpClient *http.Client
	userAgent  string
	maxSizeMB  int
}

// New creates a Scraper from config.
func New(cfg *config.Config) *Scraper {
	return &Scraper{
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxSizeMB: cfg.MaxPageSizeMB,
	}
}

// FetchText retrieves pageURL and returns the text of its paragraph elements
// joined with single spaces, truncated to MaxTextLen. A page with no
// paragraph text falls back to readability extraction; if that is also empty
// the result is ErrEmptyContent, since an empty prompt produces meaningless
// output downstream.
func (s *Scraper) FetchText(ctx context.Context, pageURL string) (string, error) {
	html, err := s.fetchHTML(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}

	text, err := extractParagraphs(html)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}

	if text == "" {
		log.Printf("[Scrape] No <p> text on %s, trying readability fallback", pageURL)
		text = extractReadable(html, pageURL)
	}
	if text == "" {
		return "", ErrEmptyContent
	}

	// Cap is in characters, not bytes; slicing bytes could split a
	// multibyte sequence and feed invalid UTF-8 into the prompt.
	if r := []rune(text); len(r) > MaxTextLen {
		text = string(r[:MaxTextLen])
	}
	return text, nil
}

// fetchHTML retrieves the raw HTML body from a URL.
func (s *Scraper) fetchHTML(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	// Browser-like headers reduce 403s from servers that reject plain clients.
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "application/xhtml") {
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}

	maxBytes := int64(s.maxSizeMB * 1024 * 1024)
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) >= maxBytes {
		return "", fmt.Errorf("content exceeds size limit of %dMB", s.maxSizeMB)
	}

	return string(body), nil
}

// extractParagraphs returns the text of every <p> element joined with single
// spaces, with interior whitespace collapsed.
func extractParagraphs(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	var parts []string
	doc.Find("p").Each(func(i int, sel *goquery.Selection) {
		if t := strings.Join(strings.Fields(sel.Text()), " "); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " "), nil
}

// extractReadable runs readability article extraction over the same HTML.
// Any extraction failure is treated as empty content; the caller decides
// whether that is an error.
func extractReadable(html, pageURL string) string {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(article.TextContent), " ")
}
