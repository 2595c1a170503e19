// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/carmarket/seobench/internal/httputil"
)

// category buckets sitemap URLs so no single page type dominates the
// sampled signal.
type category int

const (
	catCity category = iota
	catListing
	catContent
	catOther
)

// trailing model-year pattern, e.g. /used-maruti-swift-2019.
var yearSuffixRe = regexp.MustCompile(`-(19|20)\d{2}/?$`)

var contentSegments = []string{
	"/blog", "/news", "/about", "/contact", "/sell", "/valuation", "/faq", "/community", "/guides",
}

var citySegments = []string{
	"cars-in-", "used-cars-", "/city/", "/cities/", "/locations/",
}

var listingSegments = []string{
	"/car/", "/cars/", "/listing", "/vehicle/", "/buy-used-",
}

// classifyURL assigns a sitemap URL to a sampling category by path
// heuristics. Content pages are checked before listing pages so that
// e.g. /sell-your-car lands in content.
func classifyURL(raw string) category {
	u, err := url.Parse(raw)
	if err != nil {
		return catOther
	}
	path := strings.ToLower(u.Path)

	for _, seg := range contentSegments {
		if strings.Contains(path, seg) {
			return catContent
		}
	}
	for _, seg := range citySegments {
		if strings.Contains(path, seg) {
			return catCity
		}
	}
	for _, seg := range listingSegments {
		if strings.Contains(path, seg) {
			return catListing
		}
	}
	if yearSuffixRe.MatchString(path) {
		return catListing
	}
	return catOther
}

// sampleURLs picks a stratified sample of at most max URLs: up to
// floor(max/3) each from the city, listing, and content buckets, with any
// remaining budget filled from the other bucket. The sample never exceeds
// max regardless of input size.
func sampleURLs(urls []string, max int) []string {
	if max <= 0 {
		return nil
	}

	buckets := map[category][]string{}
	for _, u := range urls {
		c := classifyURL(u)
		buckets[c] = append(buckets[c], u)
	}

	perCategory := max / 3
	var sample []string
	for _, c := range []category{catCity, catListing, catContent} {
		b := buckets[c]
		if len(b) > perCategory {
			b = b[:perCategory]
		}
		sample = append(sample, b...)
	}

	for _, u := range buckets[catOther] {
		if len(sample) >= max {
			break
		}
		sample = append(sample, u)
	}
	return sample
}

// Sitemap XML structures (urlset and index forms).
type sitemapURLSet struct {
	URLs []sitemapLoc `xml:"url"`
}

type sitemapIndex struct {
	Sitemaps []sitemapLoc `xml:"sitemap"`
}

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// maxChildSitemaps bounds how many children of a sitemap index are
// followed; one level deep is enough for the fixed sample budget.
const maxChildSitemaps = 3

// fetchSitemap retrieves and parses https://{domain}/sitemap.xml. A
// sitemap index is followed one level deep. Any failure surfaces as an
// error; the caller downgrades it to an empty URL list rather than
// aborting the crawl.
func fetchSitemap(ctx context.Context, client *http.Client, userAgent, domain string) ([]string, error) {
	return fetchSitemapURL(ctx, client, userAgent, "https://"+domain+"/sitemap.xml", true)
}

func fetchSitemapURL(ctx context.Context, client *http.Client, userAgent, sitemapURL string, followIndex bool) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching sitemap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, sitemapURL)
	}

	// The two sitemap forms share a shape; try urlset first.
	var raw struct {
		XMLName  xml.Name
		URLs     []sitemapLoc `xml:"url"`
		Children []sitemapLoc `xml:"sitemap"`
	}
	if err := xml.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing sitemap: %w", err)
	}

	if len(raw.URLs) > 0 {
		urls := make([]string, 0, len(raw.URLs))
		for _, u := range raw.URLs {
			if loc := strings.TrimSpace(u.Loc); loc != "" {
				urls = append(urls, loc)
			}
		}
		return urls, nil
	}

	if followIndex && len(raw.Children) > 0 {
		var urls []string
		children := raw.Children
		if len(children) > maxChildSitemaps {
			children = children[:maxChildSitemaps]
		}
		for _, child := range children {
			childURLs, err := fetchSitemapURL(ctx, client, userAgent, strings.TrimSpace(child.Loc), false)
			if err != nil {
				continue // a broken child sitemap is a missing data point
			}
			urls = append(urls, childURLs...)
		}
		return urls, nil
	}

	return nil, nil
}
