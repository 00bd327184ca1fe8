package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wolfitem/talent-news/internal/domain/model"
	"github.com/wolfitem/talent-news/internal/domain/service"
)

func TestReportBuilder(t *testing.T) {
	runAt := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	b := service.NewReportBuilder("Updates", runAt)

	b.AddSourceReport(model.SourceReport{
		Source: model.Source{Kind: model.SourceKindFeed, URL: "https://a.example/feed"},
		Blocks: []model.AnnotatedBlock{{
			ContentBlock: model.ContentBlock{Headline: "H1", Snippet: "S1", Link: "https://a.example/1"},
			Language:     "en",
			Category:     "Research",
		}},
	})
	b.AddSourceReport(model.SourceReport{
		Source: model.Source{Kind: model.SourceKindPage, URL: "https://b.example/"},
	})

	want := "Updates - 2024-03-05 14:07:09\n\n" +
		"From source: https://a.example/feed\n" +
		"Language: EN\nCategory: Research\n" +
		"Headline: H1\nDescription: S1\nLink: https://a.example/1\n" +
		"\n---\n\n" +
		"From source: https://b.example/\n"
	require.Equal(t, want, b.String())
}

func TestReportBuilderKeepsSourceOrder(t *testing.T) {
	b := service.NewReportBuilder("T", time.Now())
	for _, u := range []string{"https://1.example", "https://2.example", "https://3.example"} {
		b.AddSource(model.Source{URL: u})
	}

	out := b.String()
	first := strings.Index(out, "https://1.example")
	second := strings.Index(out, "https://2.example")
	third := strings.Index(out, "https://3.example")
	require.True(t, first < second && second < third)
}

func TestRenderBlockWithEmptyHeadline(t *testing.T) {
	got := service.RenderBlock(model.ContentBlock{Snippet: "text", Link: "https://x.example"})
	require.Equal(t, "Headline: \nDescription: text\nLink: https://x.example\n", got)
}
