// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/carmarket/seobench/internal/httputil"
)

// productEntityTypes is the fixed set of structured-data types counted as
// "product entity" coverage for a car marketplace.
var productEntityTypes = map[string]bool{
	"Car":        true,
	"Vehicle":    true,
	"Product":    true,
	"Offer":      true,
	"AutoDealer": true,
}

// pageFacts holds the raw per-page observations aggregated into domain KPIs.
type pageFacts struct {
	SchemaTypes   []string
	Canonical     string
	H1Count       int
	H2Count       int
	HasFAQ        bool
	WordCount     int
	InternalLinks int
	ImagesTotal   int
	ImagesWithAlt int
}

// fetchPage retrieves one sampled URL and extracts its facts. Any fetch
// or parse failure returns an error; the caller records the page as a
// missing data point (excluded from aggregates, not zero).
func fetchPage(ctx context.Context, client *http.Client, userAgent, pageURL string) (*pageFacts, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, pageURL)
	}

	return parsePage(resp.Body, pageURL)
}

// parsePage extracts structured-content facts from one HTML document.
func parsePage(r io.Reader, pageURL string) (*pageFacts, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing page URL: %w", err)
	}

	facts := &pageFacts{}

	// JSON-LD structured data: collect every @type, including @graph and
	// top-level array forms.
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		facts.SchemaTypes = append(facts.SchemaTypes, jsonLDTypes(s.Text())...)
	})

	if href, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		facts.Canonical = strings.TrimSpace(href)
	}

	facts.H1Count = doc.Find("h1").Length()
	facts.H2Count = doc.Find("h2").Length()

	// FAQ presence: FAQPage schema or a FAQ-marked section.
	for _, t := range facts.SchemaTypes {
		if t == "FAQPage" {
			facts.HasFAQ = true
		}
	}
	if !facts.HasFAQ {
		facts.HasFAQ = doc.Find(`[id*="faq"], [class*="faq"]`).Length() > 0
	}

	// Word count over visible copy, excluding boilerplate chrome.
	body := doc.Find("body").Clone()
	body.Find("script, style, nav, footer, noscript").Remove()
	facts.WordCount = len(strings.Fields(body.Text()))

	// Same-host internal links, resolved against the page URL.
	seen := map[string]bool{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		link, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(link)
		if abs.Host != base.Host {
			return
		}
		abs.Fragment = ""
		key := strings.TrimSuffix(abs.String(), "/")
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		facts.InternalLinks++
	})

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		facts.ImagesTotal++
		if alt, ok := s.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			facts.ImagesWithAlt++
		}
	})

	return facts, nil
}

// HasProductEntity reports whether any observed structured-data type is
// in the fixed product entity set.
func (p *pageFacts) HasProductEntity() bool {
	for _, t := range p.SchemaTypes {
		if productEntityTypes[t] {
			return true
		}
	}
	return false
}

// jsonLDTypes pulls @type values out of one JSON-LD payload. Malformed
// payloads contribute nothing.
func jsonLDTypes(raw string) []string {
	var node any
	if err := json.Unmarshal([]byte(raw), &node); err != nil {
		return nil
	}
	return collectTypes(node)
}

func collectTypes(node any) []string {
	var out []string
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			out = append(out, collectTypes(item)...)
		}
	case map[string]any:
		switch t := v["@type"].(type) {
		case string:
			out = append(out, t)
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
		}
		if graph, ok := v["@graph"]; ok {
			out = append(out, collectTypes(graph)...)
		}
	}
	return out
}
