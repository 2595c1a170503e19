// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"strings"
	"testing"
)

const listingHTML = `<!DOCTYPE html>
<html><head>
<link rel="canonical" href="https://example.com/car/42" />
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"Car","name":"Maruti Swift 2019"}
</script>
<script type="application/ld+json">
{"@graph":[{"@type":"BreadcrumbList"},{"@type":["Product","Offer"]}]}
</script>
</head><body>
<nav><a href="/">Home</a> navigation words that should not count</nav>
<h1>Maruti Swift 2019</h1>
<h2>Overview</h2>
<h2>Specifications</h2>
<section class="faq-section"><h2>FAQs</h2><p>Is this car inspected? Yes.</p></section>
<p>A well maintained single owner hatchback with full service history and
new tyres, available for inspection in Hyderabad.</p>
<a href="/car/43">Similar car</a>
<a href="/car/43#gallery">Same car, fragment</a>
<a href="/used-cars-in-hyderabad">More in Hyderabad</a>
<a href="https://other.example.org/external">External</a>
<img src="a.jpg" alt="Maruti Swift front view" />
<img src="b.jpg" alt="" />
<img src="c.jpg" />
<footer>footer words excluded</footer>
<script>var ignored = "script words excluded";</script>
</body></html>`

func TestParsePageListing(t *testing.T) {
	facts, err := parsePage(strings.NewReader(listingHTML), "https://example.com/car/42")
	if err != nil {
		t.Fatalf("parsePage: %v", err)
	}

	if facts.Canonical != "https://example.com/car/42" {
		t.Errorf("Canonical = %q", facts.Canonical)
	}
	if facts.H1Count != 1 || facts.H2Count != 3 {
		t.Errorf("headings = h1:%d h2:%d, want h1:1 h2:3", facts.H1Count, facts.H2Count)
	}
	if !facts.HasFAQ {
		t.Error("HasFAQ = false, want true (faq-section present)")
	}
	if !facts.HasProductEntity() {
		t.Errorf("HasProductEntity() = false with types %v", facts.SchemaTypes)
	}

	// Car, BreadcrumbList, Product, Offer.
	if len(facts.SchemaTypes) != 4 {
		t.Errorf("SchemaTypes = %v, want 4 entries", facts.SchemaTypes)
	}

	// "/", "/car/43" (fragment dedups into it), "/used-cars-in-hyderabad".
	if facts.InternalLinks != 3 {
		t.Errorf("InternalLinks = %d, want 3", facts.InternalLinks)
	}

	if facts.ImagesTotal != 3 || facts.ImagesWithAlt != 1 {
		t.Errorf("images = %d/%d with alt, want 1/3", facts.ImagesWithAlt, facts.ImagesTotal)
	}

	if facts.WordCount == 0 {
		t.Error("WordCount = 0, want > 0")
	}
}

func TestParsePageExcludesChromeFromWordCount(t *testing.T) {
	withChrome := `<html><body><nav>` + strings.Repeat("navword ", 100) + `</nav><p>real copy here</p></body></html>`
	facts, err := parsePage(strings.NewReader(withChrome), "https://example.com/")
	if err != nil {
		t.Fatalf("parsePage: %v", err)
	}
	if facts.WordCount != 3 {
		t.Errorf("WordCount = %d, want 3 (nav text excluded)", facts.WordCount)
	}
}

func TestParsePageFAQFromSchema(t *testing.T) {
	html := `<html><head><script type="application/ld+json">{"@type":"FAQPage"}</script></head><body></body></html>`
	facts, err := parsePage(strings.NewReader(html), "https://example.com/faq")
	if err != nil {
		t.Fatalf("parsePage: %v", err)
	}
	if !facts.HasFAQ {
		t.Error("HasFAQ = false, want true for FAQPage schema")
	}
}

func TestJSONLDTypesMalformed(t *testing.T) {
	if got := jsonLDTypes("{broken"); got != nil {
		t.Errorf("jsonLDTypes(malformed) = %v, want nil", got)
	}
}

func TestParsePageBadURL(t *testing.T) {
	if _, err := parsePage(strings.NewReader("<html></html>"), "://notaurl"); err == nil {
		t.Error("expected error for unparseable page URL")
	}
}
