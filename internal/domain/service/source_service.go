package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gilliek/go-opml/opml"
	"github.com/mmcdole/gofeed"
	"github.com/wolfitem/talent-news/internal/domain/model"
	"github.com/wolfitem/talent-news/internal/infrastructure/logger"
)

const (
	// MaxBlocksPerSource 每个来源最多保留的条目数
	MaxBlocksPerSource = 10
	// MaxSnippetLength 摘要最大字符数（不含省略号）
	MaxSnippetLength = 200
	// Ellipsis 摘要被截断时追加的标记
	Ellipsis = "..."

	defaultTimeout   = 15
	defaultUserAgent = "talent-news/1.0 (+https://github.com/wolfitem/talent-news)"
)

// SourceService 定义来源抓取的领域服务接口
type SourceService interface {
	// ParseOpml 解析OPML文件并返回其中的订阅源
	ParseOpml(opmlFilePath string) ([]model.Source, error)

	// FetchBlocks 抓取一个来源并返回内容块，任何失败都返回空结果
	FetchBlocks(ctx context.Context, source model.Source) []model.ContentBlock
}

// sourceService 实现SourceService接口
type sourceService struct {
	client    *http.Client
	parser    *gofeed.Parser
	timeout   time.Duration
	userAgent string
	maxItems  int
}

// NewSourceService 创建一个新的来源服务实例
func NewSourceService(config model.FetchConfig) SourceService {
	timeout := defaultTimeout
	if config.Timeout > 0 {
		timeout = config.Timeout
	}
	userAgent := defaultUserAgent
	if config.UserAgent != "" {
		userAgent = config.UserAgent
	}
	maxItems := MaxBlocksPerSource
	if config.MaxItems > 0 && config.MaxItems < MaxBlocksPerSource {
		maxItems = config.MaxItems
	}

	client := &http.Client{
		Timeout: time.Duration(timeout) * time.Second,
	}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent

	return &sourceService{
		client:    client,
		parser:    parser,
		timeout:   time.Duration(timeout) * time.Second,
		userAgent: userAgent,
		maxItems:  maxItems,
	}
}

// ParseOpml 解析OPML文件并返回订阅源列表
func (s *sourceService) ParseOpml(opmlFilePath string) ([]model.Source, error) {
	logger.Info("开始解析OPML文件", "file", opmlFilePath)
	defer logger.TimeTrack("ParseOpml")()

	doc, err := opml.NewOPMLFromFile(opmlFilePath)
	if err != nil {
		logger.Error("解析OPML文件失败", "file", opmlFilePath, "error", err)
		return nil, fmt.Errorf("解析OPML文件失败: %w", err)
	}

	var sources []model.Source
	for _, outline := range doc.Outlines() {
		sources = append(sources, extractSources(outline)...)
	}

	logger.Info("OPML文件解析完成", "file", opmlFilePath, "sources_count", len(sources))
	return sources, nil
}

// extractSources 递归提取outline中的订阅源
func extractSources(outline opml.Outline) []model.Source {
	var sources []model.Source

	if outline.XMLURL != "" {
		sources = append(sources, model.Source{
			Kind: model.SourceKindFeed,
			URL:  outline.XMLURL,
			Name: outline.Title,
		})
	}

	for _, child := range outline.Outlines {
		sources = append(sources, extractSources(child)...)
	}

	return sources
}

// FetchBlocks 抓取来源内容并规范化为内容块
func (s *sourceService) FetchBlocks(ctx context.Context, source model.Source) []model.ContentBlock {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		blocks []model.ContentBlock
		err    error
	)
	switch source.Kind {
	case model.SourceKindFeed:
		logger.Info("开始获取订阅源", "url", source.URL)
		blocks, err = s.fetchFeed(ctx, source)
	case model.SourceKindPage:
		logger.Info("开始抓取页面", "url", source.URL)
		blocks, err = s.fetchPage(ctx, source)
	default:
		err = fmt.Errorf("未知的来源类型: %q", source.Kind)
	}

	if err != nil {
		logger.Error("获取来源失败，跳过", "url", source.URL, "kind", source.Kind, "error", err)
		return nil
	}

	logger.Info("来源获取完成", "url", source.URL, "blocks_count", len(blocks))
	return blocks
}

// fetchFeed 获取并解析RSS/Atom订阅源
func (s *sourceService) fetchFeed(ctx context.Context, source model.Source) ([]model.ContentBlock, error) {
	feed, err := s.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("解析订阅源失败: %w", err)
	}

	items := newestFirst(feed.Items)
	if len(items) > s.maxItems {
		items = items[:s.maxItems]
	}

	blocks := make([]model.ContentBlock, 0, len(items))
	for _, item := range items {
		content := item.Description
		if content == "" {
			content = item.Content
		}

		blocks = append(blocks, model.ContentBlock{
			Headline: strings.TrimSpace(item.Title),
			Snippet:  truncateSnippet(stripHTMLTags(content)),
			Link:     item.Link,
		})
	}
	return blocks, nil
}

// newestFirst 所有条目都有发布时间时按时间倒序排列，否则保留订阅源中的顺序
func newestFirst(items []*gofeed.Item) []*gofeed.Item {
	for _, item := range items {
		if item.PublishedParsed == nil {
			return items
		}
	}

	sorted := make([]*gofeed.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedParsed.After(*sorted[j].PublishedParsed)
	})
	return sorted
}

// fetchPage 获取HTML页面并按选择器提取内容块
func (s *sourceService) fetchPage(ctx context.Context, source model.Source) ([]model.ContentBlock, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP请求失败: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("关闭响应体失败", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP状态码异常: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("解析HTML失败: %w", err)
	}

	var selectors model.Selectors
	if source.Selectors != nil {
		selectors = *source.Selectors
	}

	blocks := ExtractBlocks(doc, source.URL, selectors)
	if len(blocks) > s.maxItems {
		blocks = blocks[:s.maxItems]
	}
	return blocks, nil
}

// ExtractBlocks 按选择器从文档中提取内容块。
// 未配置容器选择器时整个文档视为一个容器；缺失的字段返回空字符串。
func ExtractBlocks(doc *goquery.Document, baseURL string, selectors model.Selectors) []model.ContentBlock {
	var containers []*goquery.Selection
	if selectors.Container != "" {
		doc.Find(selectors.Container).EachWithBreak(func(i int, sel *goquery.Selection) bool {
			containers = append(containers, sel)
			return len(containers) < MaxBlocksPerSource
		})
	} else {
		containers = append(containers, doc.Selection)
	}

	blocks := make([]model.ContentBlock, 0, len(containers))
	for _, container := range containers {
		blocks = append(blocks, model.ContentBlock{
			Headline: selectText(container, selectors.Title),
			Snippet:  truncateSnippet(selectText(container, selectors.Description)),
			Link:     resolveLink(baseURL, selectLink(container, selectors.Link)),
		})
	}
	return blocks
}

// selectText 返回第一个匹配元素的文本，选择器为空或无匹配时返回空字符串
func selectText(container *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return collapseSpaces(container.Find(selector).First().Text())
}

// selectLink 优先读取href属性，没有时退回到元素文本
func selectLink(container *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	link := container.Find(selector).First()
	if href, ok := link.Attr("href"); ok {
		return strings.TrimSpace(href)
	}
	return strings.TrimSpace(link.Text())
}

// resolveLink 把相对链接解析为基于来源地址的绝对链接，空链接退回到来源地址
func resolveLink(baseURL, link string) string {
	if link == "" {
		return baseURL
	}

	ref, err := url.Parse(link)
	if err != nil {
		logger.Warn("无法解析链接，使用来源地址", "link", link, "error", err)
		return baseURL
	}
	if ref.IsAbs() {
		return link
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return baseURL + link
	}
	return base.ResolveReference(ref).String()
}

// truncateSnippet 把摘要截断为最多200个字符，截断时追加省略号
func truncateSnippet(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxSnippetLength {
		return s
	}
	return string(runes[:MaxSnippetLength]) + Ellipsis
}

// 截断字符串，用于日志输出预览内容
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// stripHTMLTags 去除HTML标签，只保留纯文本
func stripHTMLTags(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Warn("解析HTML失败，返回原始内容", "error", err)
		return html
	}

	return collapseSpaces(doc.Text())
}

// collapseSpaces 去除首尾空白并把连续空白替换为单个空格
func collapseSpaces(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
