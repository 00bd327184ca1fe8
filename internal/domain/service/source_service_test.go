package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"github.com/wolfitem/talent-news/internal/domain/model"
)

func rssFixture(items int, description string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>HR</title><link>https://hr.example</link><description>HR news</description>`)
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := 1; i <= items; i++ {
		// 订阅源中旧的条目在前
		fmt.Fprintf(&sb, `<item><title>Item %d</title><link>https://hr.example/%d</link><description><![CDATA[%s]]></description><pubDate>%s</pubDate></item>`,
			i, i, description, base.Add(time.Duration(i)*time.Hour).Format(time.RFC1123Z))
	}
	sb.WriteString(`</channel></rss>`)
	return sb.String()
}

func newTestService() SourceService {
	return NewSourceService(model.FetchConfig{Timeout: 1})
}

func TestFetchFeedLimitsAndOrdersItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssFixture(12, "<p>Employer branding <b>matters</b></p>"))
	}))
	defer server.Close()

	blocks := newTestService().FetchBlocks(context.Background(), model.Source{Kind: model.SourceKindFeed, URL: server.URL})
	require.Len(t, blocks, MaxBlocksPerSource)
	require.Equal(t, "Item 12", blocks[0].Headline)
	require.Equal(t, "Item 3", blocks[9].Headline)
	require.Equal(t, "https://hr.example/12", blocks[0].Link)
	require.Equal(t, "Employer branding matters", blocks[0].Snippet)
}

func TestFetchFeedTruncatesSnippet(t *testing.T) {
	long := strings.Repeat("æ", 250)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFixture(1, long))
	}))
	defer server.Close()

	blocks := newTestService().FetchBlocks(context.Background(), model.Source{Kind: model.SourceKindFeed, URL: server.URL})
	require.Len(t, blocks, 1)
	require.True(t, strings.HasSuffix(blocks[0].Snippet, Ellipsis))
	require.Equal(t, MaxSnippetLength+len(Ellipsis), len([]rune(blocks[0].Snippet)))
}

func TestFetchFailuresYieldEmptyResult(t *testing.T) {
	notFound := httptest.NewServer(http.NotFoundHandler())
	defer notFound.Close()

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "this is not a feed")
	}))
	defer garbage.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer slow.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name   string
		source model.Source
	}{
		{name: "feed 404", source: model.Source{Kind: model.SourceKindFeed, URL: notFound.URL}},
		{name: "page 404", source: model.Source{Kind: model.SourceKindPage, URL: notFound.URL}},
		{name: "malformed feed", source: model.Source{Kind: model.SourceKindFeed, URL: garbage.URL}},
		{name: "timeout", source: model.Source{Kind: model.SourceKindPage, URL: slow.URL}},
		{name: "connection refused", source: model.Source{Kind: model.SourceKindFeed, URL: closedURL}},
		{name: "unknown kind", source: model.Source{Kind: "ftp", URL: notFound.URL}},
	}

	svc := newTestService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Empty(t, svc.FetchBlocks(context.Background(), tt.source))
		})
	}
}

const pageFixture = `<html><head><title>Blog</title></head><body>%s</body></html>`

func articlesHTML(n int) string {
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, `<article><h2> Post %d </h2><p>Talent attraction
			tips %d</p><a class="read-more" href="post-%d">Read more</a></article>`, i, i, i)
	}
	return sb.String()
}

func TestFetchPageWithSelectors(t *testing.T) {
	userAgents := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case userAgents <- r.Header.Get("User-Agent"):
		default:
		}
		fmt.Fprintf(w, pageFixture, articlesHTML(12))
	}))
	defer server.Close()

	source := model.Source{
		Kind: model.SourceKindPage,
		URL:  server.URL + "/employers/blog/",
		Selectors: &model.Selectors{
			Container:   "article",
			Title:       "h2",
			Description: "p",
			Link:        "a.read-more",
		},
	}

	blocks := newTestService().FetchBlocks(context.Background(), source)
	require.Len(t, blocks, MaxBlocksPerSource)
	require.Equal(t, "Post 1", blocks[0].Headline)
	require.Equal(t, "Talent attraction tips 1", blocks[0].Snippet)
	require.Equal(t, server.URL+"/employers/blog/post-1", blocks[0].Link)
	require.Equal(t, defaultUserAgent, <-userAgents)
}

func TestFetchPageWithoutSelectors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, pageFixture, articlesHTML(3))
	}))
	defer server.Close()

	blocks := newTestService().FetchBlocks(context.Background(), model.Source{Kind: model.SourceKindPage, URL: server.URL})
	require.Equal(t, []model.ContentBlock{{Headline: "", Snippet: "", Link: server.URL}}, blocks)
}

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractBlocks(t *testing.T) {
	html := fmt.Sprintf(pageFixture, `
		<div class="news"><h3>Absolute</h3><span>EVP launch</span><a href="https://other.example/x">x</a></div>
		<div class="news"><h3>Rooted</h3><a href="/press/2">y</a></div>
		<div class="news"><span>No title</span></div>`)
	doc := parseDoc(t, html)

	blocks := ExtractBlocks(doc, "https://www.example.dk/presse/nyheder.aspx", model.Selectors{
		Container:   "div.news",
		Title:       "h3",
		Description: "span",
		Link:        "a",
	})

	require.Equal(t, []model.ContentBlock{
		{Headline: "Absolute", Snippet: "EVP launch", Link: "https://other.example/x"},
		{Headline: "Rooted", Snippet: "", Link: "https://www.example.dk/press/2"},
		{Headline: "", Snippet: "No title", Link: "https://www.example.dk/presse/nyheder.aspx"},
	}, blocks)
}

func TestExtractBlocksWholeDocument(t *testing.T) {
	doc := parseDoc(t, fmt.Sprintf(pageFixture, `<p>Employer branding in Denmark</p>`))

	blocks := ExtractBlocks(doc, "https://example.com/", model.Selectors{Description: "p"})
	require.Len(t, blocks, 1)
	require.Empty(t, blocks[0].Headline)
	require.Equal(t, "Employer branding in Denmark", blocks[0].Snippet)
	require.Equal(t, "https://example.com/", blocks[0].Link)
}

func TestExtractBlocksNoContainerMatch(t *testing.T) {
	doc := parseDoc(t, fmt.Sprintf(pageFixture, `<p>text</p>`))
	require.Empty(t, ExtractBlocks(doc, "https://example.com/", model.Selectors{Container: "article"}))
}

func TestResolveLink(t *testing.T) {
	tests := []struct {
		base string
		link string
		want string
	}{
		{base: "https://a.example/blog/", link: "https://b.example/x", want: "https://b.example/x"},
		{base: "https://a.example/blog/", link: "post", want: "https://a.example/blog/post"},
		{base: "https://a.example/blog/", link: "/root", want: "https://a.example/root"},
		{base: "https://a.example/blog/", link: "", want: "https://a.example/blog/"},
		{base: "https://a.example/blog/", link: "//cdn.example/y", want: "https://cdn.example/y"},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			got := resolveLink(tt.base, tt.link)
			require.Equal(t, tt.want, got)
			require.True(t, strings.HasPrefix(got, "http"))
		})
	}
}

func TestTruncateSnippet(t *testing.T) {
	short := strings.Repeat("a", MaxSnippetLength)
	require.Equal(t, short, truncateSnippet(short))

	long := strings.Repeat("ø", MaxSnippetLength+1)
	got := truncateSnippet(long)
	require.Equal(t, strings.Repeat("ø", MaxSnippetLength)+Ellipsis, got)
	require.LessOrEqual(t, len([]rune(got)), MaxSnippetLength+len(Ellipsis))
}

func TestNewestFirstKeepsOrderWithoutDates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>x</title>
			<item><title>First</title><link>https://x.example/1</link></item>
			<item><title>Second</title><link>https://x.example/2</link><pubDate>Mon, 01 Jan 2024 10:00:00 +0000</pubDate></item>
			</channel></rss>`)
	}))
	defer server.Close()

	blocks := newTestService().FetchBlocks(context.Background(), model.Source{Kind: model.SourceKindFeed, URL: server.URL})
	require.Len(t, blocks, 2)
	require.Equal(t, "First", blocks[0].Headline)
	require.Equal(t, "Second", blocks[1].Headline)
}

func TestParseOpml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.opml")
	content := `<?xml version="1.0" encoding="UTF-8"?>
<opml version="1.0">
  <head><title>Feeds</title></head>
  <body>
    <outline text="HR" title="HR">
      <outline type="rss" text="A" title="A" xmlUrl="https://a.example/feed"/>
    </outline>
    <outline type="rss" text="B" title="B" xmlUrl="https://b.example/rss"/>
  </body>
</opml>`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	sources, err := newTestService().ParseOpml(path)
	require.NoError(t, err)
	require.Equal(t, []model.Source{
		{Kind: model.SourceKindFeed, URL: "https://a.example/feed", Name: "A"},
		{Kind: model.SourceKindFeed, URL: "https://b.example/rss", Name: "B"},
	}, sources)

	_, err = newTestService().ParseOpml(filepath.Join(t.TempDir(), "missing.opml"))
	require.Error(t, err)
}
