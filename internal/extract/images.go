package extract

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"partnerscout/internal/scout"
)

var faviconSelectors = []string{
	`link[rel="icon"]`,
	`link[rel="shortcut icon"]`,
	`link[rel="apple-touch-icon"]`,
	`link[rel="apple-touch-icon-precomposed"]`,
}

var logoSelectors = []string{
	"header img",
	".logo img",
	"#logo img",
	`a[href="/"] img`,
	".navbar-brand img",
	".header img",
	".site-logo img",
	".brand img",
}

var heroSelectors = []string{
	".hero img",
	".banner img",
	".product-image img",
	".featured-image img",
	"main img",
	".main-content img",
	".hero-section img",
	"#hero img",
}

// minHeroDimension filters fallback images down to ones large enough to be
// a product shot rather than an icon.
const minHeroDimension = 200

// FaviconURL locates the site favicon through the conventional link tags,
// falling back to /favicon.ico at the site origin.
func FaviconURL(html []byte, base string) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ""
	}
	for _, selector := range faviconSelectors {
		if href, ok := doc.Find(selector).First().Attr("href"); ok && href != "" {
			if resolved := scout.ResolveLink(href, base); resolved != "" {
				return resolved
			}
		}
	}
	return scout.ResolveLink("/favicon.ico", base)
}

// LogoURL locates a site logo via conventional header/logo containers.
func LogoURL(html []byte, base string) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ""
	}
	for _, selector := range logoSelectors {
		if src, ok := doc.Find(selector).First().Attr("src"); ok && src != "" {
			if resolved := scout.ResolveLink(src, base); resolved != "" {
				return resolved
			}
		}
	}
	return ""
}

// HeroImageURL locates a representative product/hero image: conventional
// banner containers first, excluding anything that looks like a logo or
// icon, then any sufficiently large image by width/height attribute.
func HeroImageURL(html []byte, base string) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ""
	}
	for _, selector := range heroSelectors {
		if src, ok := doc.Find(selector).First().Attr("src"); ok {
			if src != "" && !looksLikeIcon(src) {
				if resolved := scout.ResolveLink(src, base); resolved != "" {
					return resolved
				}
			}
		}
	}

	var fallback string
	doc.Find("img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, ok := sel.Attr("src")
		if !ok || src == "" || looksLikeIcon(src) {
			return true
		}
		if attrDimension(sel, "width") > minHeroDimension || attrDimension(sel, "height") > minHeroDimension {
			fallback = scout.ResolveLink(src, base)
			if fallback != "" {
				return false
			}
		}
		return true
	})
	return fallback
}

func looksLikeIcon(src string) bool {
	lower := strings.ToLower(src)
	return strings.Contains(lower, "logo") || strings.Contains(lower, "icon")
}

func attrDimension(sel *goquery.Selection, name string) int {
	raw, ok := sel.Attr(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(raw), "px"))
	if err != nil {
		return 0
	}
	return n
}
