package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/wolfitem/talent-news/internal/domain/model"
)

// ReportTimeLayout 报告标题中运行时间的格式
const ReportTimeLayout = "2006-01-02 15:04:05"

// ReportBuilder 按来源顺序累积报告文本
type ReportBuilder struct {
	sb strings.Builder
}

// NewReportBuilder 创建报告并写入带运行时间的标题行
func NewReportBuilder(title string, runAt time.Time) *ReportBuilder {
	b := &ReportBuilder{}
	fmt.Fprintf(&b.sb, "%s - %s\n\n", title, runAt.Format(ReportTimeLayout))
	return b
}

// AddSource 写入来源标题行
func (b *ReportBuilder) AddSource(source model.Source) {
	fmt.Fprintf(&b.sb, "From source: %s\n", source.URL)
}

// AddBlock 写入一条带语言和分类的内容块，后接分隔线
func (b *ReportBuilder) AddBlock(block model.AnnotatedBlock) {
	fmt.Fprintf(&b.sb, "Language: %s\nCategory: %s\n%s\n---\n\n",
		strings.ToUpper(block.Language), block.Category, RenderBlock(block.ContentBlock))
}

// AddSourceReport 写入一个来源及其全部内容块
func (b *ReportBuilder) AddSourceReport(report model.SourceReport) {
	b.AddSource(report.Source)
	for _, block := range report.Blocks {
		b.AddBlock(block)
	}
}

// String 返回完整的报告文本
func (b *ReportBuilder) String() string {
	return b.sb.String()
}

// RenderBlock 渲染内容块的标题、摘要和链接
func RenderBlock(block model.ContentBlock) string {
	return fmt.Sprintf("Headline: %s\nDescription: %s\nLink: %s\n", block.Headline, block.Snippet, block.Link)
}
