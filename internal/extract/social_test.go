package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"partnerscout/internal/scout"
)

func TestSocialLinks(t *testing.T) {
	t.Parallel()

	html := []byte(`<footer>
		<a href="https://x.com/acme">X</a>
		<a href="https://www.linkedin.com/company/acme">LinkedIn</a>
		<a href="https://discord.gg/acme">Chat</a>
		<a href="https://acme.test/blog">Blog</a>
	</footer>`)

	links := SocialLinks(html, "https://acme.test")
	require.Equal(t, []scout.SocialLink{
		{Platform: "twitter", URL: "https://x.com/acme"},
		{Platform: "linkedin", URL: "https://www.linkedin.com/company/acme"},
		{Platform: "discord", URL: "https://discord.gg/acme"},
	}, links)
}

func TestSocialLinksDedupesByURL(t *testing.T) {
	t.Parallel()

	html := []byte(`
		<a href="https://x.com/acme">header</a>
		<a href="https://x.com/acme">footer</a>
	`)

	require.Len(t, SocialLinks(html, "https://acme.test"), 1)
}

func TestSocialLinksEmptyInput(t *testing.T) {
	t.Parallel()

	require.Empty(t, SocialLinks(nil, "https://acme.test"))
}
