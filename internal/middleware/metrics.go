package middleware

import (
	"sort"
	"sync"
	"time"

	"github.com/wolfitem/talent-news/internal/infrastructure/logger"
)

// MetricsCollector 收集一次聚合运行的统计信息
type MetricsCollector struct {
	mu sync.RWMutex

	startTime time.Time

	// 来源统计
	sources      int64
	emptySources int64

	// 内容块统计
	fetched          int64
	droppedLanguage  int64
	droppedRelevance int64
	kept             int64

	languages  map[string]int64
	categories map[string]int64
}

// NewMetricsCollector 创建新的统计收集器
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		startTime:  time.Now(),
		languages:  make(map[string]int64),
		categories: make(map[string]int64),
	}
}

// RecordSource 记录一个来源及其抓取到的内容块数量
func (m *MetricsCollector) RecordSource(blocks int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sources++
	if blocks == 0 {
		m.emptySources++
	}
	m.fetched += int64(blocks)
}

// RecordLanguage 记录检测到的语言
func (m *MetricsCollector) RecordLanguage(lang string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.languages[lang]++
}

// RecordDropped 记录被丢弃的内容块，unsupported表示语言不受支持
func (m *MetricsCollector) RecordDropped(unsupported bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if unsupported {
		m.droppedLanguage++
	} else {
		m.droppedRelevance++
	}
}

// RecordKept 记录写入报告的内容块及其分类
func (m *MetricsCollector) RecordKept(category string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.kept++
	m.categories[category]++
}

// GetReport 获取统计报告
func (m *MetricsCollector) GetReport() Report {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Report{
		StartTime: m.startTime,
		Duration:  time.Since(m.startTime),
		SourceStats: SourceStats{
			Total: m.sources,
			Empty: m.emptySources,
		},
		BlockStats: BlockStats{
			Fetched:          m.fetched,
			DroppedLanguage:  m.droppedLanguage,
			DroppedRelevance: m.droppedRelevance,
			Kept:             m.kept,
		},
		Languages:  copyCounts(m.languages),
		Categories: copyCounts(m.categories),
	}
}

func copyCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Report 运行统计报告
type Report struct {
	StartTime   time.Time
	Duration    time.Duration
	SourceStats SourceStats
	BlockStats  BlockStats
	Languages   map[string]int64
	Categories  map[string]int64
}

// SourceStats 来源统计
type SourceStats struct {
	Total int64
	Empty int64
}

// BlockStats 内容块统计
type BlockStats struct {
	Fetched          int64
	DroppedLanguage  int64
	DroppedRelevance int64
	Kept             int64
}

// LogMetrics 记录指标到日志
func LogMetrics(metrics *MetricsCollector) {
	report := metrics.GetReport()
	logger.Info("运行统计",
		"start_time", report.StartTime,
		"duration", report.Duration,
		"sources", report.SourceStats.Total,
		"empty_sources", report.SourceStats.Empty,
		"blocks_fetched", report.BlockStats.Fetched,
		"dropped_language", report.BlockStats.DroppedLanguage,
		"dropped_relevance", report.BlockStats.DroppedRelevance,
		"blocks_kept", report.BlockStats.Kept,
	)

	logCounts("语言统计", "language", report.Languages)
	logCounts("分类统计", "category", report.Categories)
}

// logCounts 按键排序输出直方图
func logCounts(msg, key string, counts map[string]int64) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		logger.Debug(msg, key, k, "count", counts[k])
	}
}
