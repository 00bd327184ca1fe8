package model

import "sort"

// SourceKind 来源类型
type SourceKind string

const (
	// SourceKindFeed RSS/Atom订阅源
	SourceKindFeed SourceKind = "feed"
	// SourceKindPage 需要按选择器抓取的HTML页面
	SourceKindPage SourceKind = "page"
)

// DefaultCategory 没有任何分类关键词命中时使用的分类
const DefaultCategory = "Other"

// UnknownLanguage 语言检测失败时的标签
const UnknownLanguage = "unknown"

// ProcessParams 包含一次聚合运行的所有参数
type ProcessParams struct {
	Title      string      // 报告标题
	OutputFile string      // 输出文件路径
	OpmlFile   string      // 可选的OPML文件，其中的订阅源追加到Sources之后
	Sources    []Source    // 按配置顺序排列的来源
	Keywords   KeywordSet  // 主题与分类关键词
	Fetch      FetchConfig // 抓取配置
}

// FetchConfig 包含抓取来源时的配置
type FetchConfig struct {
	Timeout   int    `mapstructure:"timeout_seconds"` // 单个来源的超时时间（秒）
	UserAgent string `mapstructure:"user_agent"`      // 请求头User-Agent
	MaxItems  int    `mapstructure:"max_items"`       // 每个来源最多保留的条目数
}

// Selectors 页面抓取规则，所有字段均可为空
type Selectors struct {
	Container   string `mapstructure:"container" yaml:"container,omitempty"`
	Title       string `mapstructure:"title" yaml:"title,omitempty"`
	Description string `mapstructure:"description" yaml:"description,omitempty"`
	Link        string `mapstructure:"link" yaml:"link,omitempty"`
}

// Source 表示一个配置好的来源
type Source struct {
	Kind      SourceKind `mapstructure:"kind" yaml:"kind"`
	URL       string     `mapstructure:"url" yaml:"url"`
	Name      string     `mapstructure:"name" yaml:"name,omitempty"`
	Selectors *Selectors `mapstructure:"selectors" yaml:"selectors,omitempty"`
}

// ContentBlock 从来源中提取出的一条候选新闻
type ContentBlock struct {
	Headline string
	Snippet  string
	Link     string
}

// Text 返回用于语言检测和关键词匹配的文本
func (b ContentBlock) Text() string {
	return b.Headline + "\n" + b.Snippet
}

// CategoryRule 一个分类及其各语言的关键词
type CategoryRule struct {
	Name     string              `mapstructure:"name"`
	Keywords map[string][]string `mapstructure:"keywords"`
}

// KeywordSet 主题关键词和有序的分类规则
type KeywordSet struct {
	Topics     map[string][]string // 语言标签 -> 主题关键词
	Categories []CategoryRule      // 按定义顺序排列
}

// Supports 判断语言标签是否有对应的主题关键词
func (k KeywordSet) Supports(lang string) bool {
	_, ok := k.Topics[lang]
	return ok
}

// Languages 返回按字母排序的受支持语言标签
func (k KeywordSet) Languages() []string {
	langs := make([]string, 0, len(k.Topics))
	for lang := range k.Topics {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// AnnotatedBlock 通过相关性过滤并完成分类的内容块
type AnnotatedBlock struct {
	ContentBlock
	Language string
	Category string
}

// SourceReport 一个来源的处理结果
type SourceReport struct {
	Source Source
	Blocks []AnnotatedBlock
}
