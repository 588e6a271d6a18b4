package crawl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ursisterbtw/markdown-lab-sub000/core"
)

// mapFetcher serves pages from memory, keyed by URL.
type mapFetcher struct {
	pages map[string]string
}

func (f *mapFetcher) Fetch(_ context.Context, url string) (*core.FetchResult, error) {
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("no such page: %s", url)
	}
	return &core.FetchResult{
		URL:        url,
		FinalURL:   url,
		StatusCode: http.StatusOK,
		HTML:       html,
		FetchedAt:  time.Now().UTC(),
	}, nil
}

func TestDiscoverAllViaSitemap(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>%s/docs</loc></url>
  <url><loc>%s/about/</loc></url>
  <url><loc>%s/logo.png</loc></url>
  <url><loc>https://other.test/page</loc></url>
</urlset>`, srvURL, srvURL, srvURL)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	urls, err := DiscoverAll(context.Background(), srv.URL, &mapFetcher{})
	require.NoError(t, err)

	assert.Equal(t, []string{srv.URL + "/docs", srv.URL + "/about"}, urls)
}

func TestDiscoverAllFallsBackToCrawling(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	fetcher := &mapFetcher{pages: map[string]string{
		srv.URL: fmt.Sprintf(`<html><body>
			<a href="/a">A</a>
			<a href="%s/b">B</a>
			<a href="/logo.png">Logo</a>
			<a href="https://external.test/x">External</a>
			<a href="mailto:hi@example.com">Mail</a>
		</body></html>`, srv.URL),
		srv.URL + "/a": `<html><body><a href="/b">B again</a></body></html>`,
		srv.URL + "/b": `<html><body><p>leaf</p></body></html>`,
	}}

	urls, err := DiscoverAll(context.Background(), srv.URL, fetcher)
	require.NoError(t, err)

	assert.Equal(t, []string{srv.URL, srv.URL + "/a", srv.URL + "/b"}, urls)
}

func TestExtractLinksResolvesRelative(t *testing.T) {
	html := `<html><body>
		<a href="/abs">Abs</a>
		<a href="rel">Rel</a>
		<a href="#frag">Frag</a>
		<a href="javascript:void(0)">JS</a>
		<a href="tel:+123">Tel</a>
	</body></html>`

	links, err := extractLinks(html, "https://x.test/dir/page")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://x.test/abs", "https://x.test/dir/rel"}, links)
}
