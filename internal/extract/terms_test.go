package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisibleText(t *testing.T) {
	t.Parallel()

	html := []byte(`<html><head><title>Hi</title></head><body><h1>Earn 30% Commission</h1></body></html>`)
	text := VisibleText(html)
	require.Contains(t, text, "earn 30% commission")
	require.NotContains(t, text, "Earn")
}

func TestCommission(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"we offer 30% commission on every plan":  "30% commission",
		"affiliates get 15% commission per sale": "15% commission per sale",
		"earn $50 per sale through our program":  "earn $50 per sale",
		"you get 25% of each sale you refer":     "25% of each sale",
		"commission rate of 15%":                 "commission rate of 15%",
		"up to 40% commission for top partners":  "40% commission",
		"no numbers here":                        "",
	}
	for text, want := range cases {
		require.Equal(t, want, Commission(text), "text: %s", text)
	}
}

func TestCookieWindow(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"enjoy a 90 day cookie on all referrals": "90 day cookie",
		"cookie duration of 30 days":             "cookie duration of 30 days",
		"60 day tracking window applies":         "60 day tracking window",
		"no window mentioned":                    "",
	}
	for text, want := range cases {
		require.Equal(t, want, CookieWindow(text), "text: %s", text)
	}
}

func TestPayoutModel(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"we pay a revenue share to partners":  "revenue share",
		"cpa payouts for qualified leads":     "cpa",
		"recurring commission every month":    "recurring commission",
		"one-time commission per sale":        "one-time commission",
		"nothing about payout structure here": "",
	}
	for text, want := range cases {
		require.Equal(t, want, PayoutModel(text), "text: %s", text)
	}
}
