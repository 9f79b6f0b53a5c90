// internal/registry/registry.go
// Package registry scrapes the public model registry website into normalized
// records. Extraction is structural and tolerant (CSS-selector based, not a
// semantic understanding of the page); a page that yields nothing is reported
// as a ScrapeError so layout drift is observable instead of looking like an
// empty catalog.
package registry

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
)

const userAgent = "ollamadash/1.0"

// RemoteModel represents one catalog entry on the registry.
type RemoteModel struct {
	Name        string `json:"name"`
	Sizes       string `json:"sizes"`
	Description string `json:"description"`
}

// ModelTag represents one downloadable version of a model.
type ModelTag struct {
	Tag       string `json:"tag"`
	Size      string `json:"size"`
	SizeBytes uint64 `json:"sizeBytes,omitempty"`
}

// Client fetches and extracts registry pages.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a Client for the given registry base URL with a bounded fetch
// timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// sizeTextPattern recognizes download size estimates like "4.9GB" or "986MB".
var sizeTextPattern = regexp.MustCompile(`^\d+(\.\d+)?\s*[KMGT]?B$`)

// FetchCatalog retrieves and extracts the full model catalog page.
func (c *Client) FetchCatalog(ctx context.Context) ([]RemoteModel, error) {
	url := c.baseURL + "/library"
	doc, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	var models []RemoteModel
	seen := make(map[string]struct{})
	doc.Find(`a[href^="/library/"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		name := strings.TrimPrefix(href, "/library/")
		if name == "" || strings.ContainsAny(name, "/?") {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}

		var sizes []string
		s.Find("span[x-test-size]").Each(func(_ int, span *goquery.Selection) {
			if t := strings.TrimSpace(span.Text()); t != "" {
				sizes = append(sizes, t)
			}
		})
		sizesText := "-"
		if len(sizes) > 0 {
			sizesText = strings.Join(sizes, ", ")
		}

		models = append(models, RemoteModel{
			Name:        name,
			Sizes:       sizesText,
			Description: strings.TrimSpace(s.Find("p").First().Text()),
		})
	})

	if len(models) == 0 {
		return nil, &ScrapeError{URL: url, Reason: "no catalog entries extracted"}
	}
	return models, nil
}

// FetchTags retrieves the downloadable versions of one model.
func (c *Client) FetchTags(ctx context.Context, model string) ([]ModelTag, error) {
	url := fmt.Sprintf("%s/library/%s/tags", c.baseURL, model)
	doc, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	var tags []ModelTag
	doc.Find("input.command").Each(func(_ int, s *goquery.Selection) {
		val, ok := s.Attr("value")
		if !ok || strings.TrimSpace(val) == "" {
			return
		}
		size := nearestSizeText(s)
		tag := ModelTag{Tag: val, Size: size}
		if n, err := humanize.ParseBytes(size); err == nil {
			tag.SizeBytes = n
		}
		tags = append(tags, tag)
	})

	if len(tags) == 0 {
		return nil, &ScrapeError{URL: url, Reason: "no tags extracted"}
	}
	return tags, nil
}

// nearestSizeText walks up from a tag input looking for a sibling paragraph
// carrying the download size. "-" marks an absent estimate.
func nearestSizeText(s *goquery.Selection) string {
	scope := s.Parent()
	for depth := 0; depth < 3 && scope.Length() > 0; depth++ {
		found := "-"
		scope.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			if t := strings.TrimSpace(p.Text()); sizeTextPattern.MatchString(t) {
				found = t
				return false
			}
			return true
		})
		if found != "-" {
			return found
		}
		scope = scope.Parent()
	}
	return "-"
}

// fetch performs a bounded GET and parses the response body.
func (c *Client) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{URL: url, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	return doc, nil
}
