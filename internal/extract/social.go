package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"partnerscout/internal/scout"
)

// socialDomains are the recognized social-platform hosts, checked in order
// against each anchor href.
var socialDomains = []string{
	"twitter.com", "x.com", "linkedin.com", "facebook.com", "instagram.com",
	"youtube.com", "discord.gg", "discord.com", "github.com", "medium.com",
	"tiktok.com", "pinterest.com", "reddit.com", "slack.com",
}

// SocialLinks scans anchors for known social-platform domains and labels
// each match with a platform derived from the domain. x.com maps to
// twitter and any discord domain maps to discord.
func SocialLinks(html []byte, base string) []scout.SocialLink {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var links []scout.SocialLink
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		resolved := scout.ResolveLink(href, base)
		if resolved == "" {
			return
		}
		for _, domain := range socialDomains {
			if !strings.Contains(resolved, domain) {
				continue
			}
			if _, dup := seen[resolved]; dup {
				break
			}
			seen[resolved] = struct{}{}
			links = append(links, scout.SocialLink{
				Platform: platformForDomain(domain),
				URL:      resolved,
			})
			break
		}
	})
	return links
}

func platformForDomain(domain string) string {
	switch {
	case domain == "x.com":
		return "twitter"
	case strings.Contains(domain, "discord"):
		return "discord"
	default:
		return strings.SplitN(domain, ".", 2)[0]
	}
}
