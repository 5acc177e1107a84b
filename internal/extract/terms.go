package extract

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Ordered pattern lists per commercial-terms category. Each category stops
// at its first hit; patterns tolerate currency symbols, ranges, and
// percentage forms. Inputs are expected lower-cased (see VisibleText).
var (
	commissionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+(?:\.\d+)?%\s*(?:commission(?:\s*per\s*sale)?|per\s*sale))`),
		regexp.MustCompile(`(earn\s*\$?\d+(?:\.\d+)?(?:\s*[-–]\s*\$?\d+(?:\.\d+)?)?(?:\s*per\s*sale)?)`),
		regexp.MustCompile(`(pay(?:s|ing|ment)?\s*\$?\d+(?:\.\d+)?(?:\s*[-–]\s*\$?\d+(?:\.\d+)?)?(?:\s*per\s*sale)?)`),
		regexp.MustCompile(`(\d+(?:\.\d+)?%\s*(?:of|on)\s*(?:each|every|all)\s*(?:sale|purchase|order))`),
		regexp.MustCompile(`(commission(?:\s*rate)?(?:\s*of)?\s*\d+(?:\.\d+)?%)`),
		regexp.MustCompile(`(up\s*to\s*\d+(?:\.\d+)?%\s*commission)`),
	}

	cookiePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+(?:[-–]\d+)?\s*(?:day|month|year)s?\s*cookie)`),
		regexp.MustCompile(`(cookie\s*(?:duration|period|lifetime)(?:\s*of)?\s*\d+(?:[-–]\d+)?\s*(?:day|month|year)s?)`),
		regexp.MustCompile(`(\d+(?:[-–]\d+)?\s*(?:day|month|year)s?\s*tracking\s*(?:period|window))`),
		regexp.MustCompile(`(tracking\s*(?:period|window)(?:\s*of)?\s*\d+(?:[-–]\d+)?\s*(?:day|month|year)s?)`),
		regexp.MustCompile(`(\d+(?:[-–]\d+)?\s*(?:day|month|year)s?\s*referral\s*(?:period|window))`),
	}

	payoutPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(revenue\s*share|rev\s*share)`),
		regexp.MustCompile(`(cost\s*per\s*acquisition|cpa)`),
		regexp.MustCompile(`(cost\s*per\s*lead|cpl)`),
		regexp.MustCompile(`(pay\s*per\s*click|ppc)`),
		regexp.MustCompile(`(recurring\s*commission)`),
		regexp.MustCompile(`(lifetime\s*commission)`),
		regexp.MustCompile(`(one[\s-]time\s*commission)`),
		regexp.MustCompile(`(two[\s-]tier\s*commission)`),
	}
)

// VisibleText renders the page body to lower-cased plain text for the
// commercial-terms matchers. Unparseable input yields "".
func VisibleText(html []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ""
	}
	text := doc.Find("body").Text()
	if text == "" {
		text = doc.Text()
	}
	return strings.ToLower(text)
}

// Commission returns the first commission-rate span found in text.
func Commission(text string) string {
	return firstCapture(commissionPatterns, text)
}

// CookieWindow returns the first cookie/attribution-window span found in text.
func CookieWindow(text string) string {
	return firstCapture(cookiePatterns, text)
}

// PayoutModel returns the first payout-model span found in text.
func PayoutModel(text string) string {
	return firstCapture(payoutPatterns, text)
}

func firstCapture(patterns []*regexp.Regexp, text string) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
