package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/wolfitem/talent-news/internal/domain/model"
	"github.com/wolfitem/talent-news/internal/domain/service"
	"github.com/wolfitem/talent-news/internal/infrastructure/logger"
	"github.com/wolfitem/talent-news/internal/middleware"
)

// AggregatorService 定义新闻聚合的应用服务接口
type AggregatorService interface {
	// Aggregate 依次处理所有来源并返回报告文本
	Aggregate(ctx context.Context, params model.ProcessParams) (string, error)
}

// aggregatorService 实现AggregatorService接口
type aggregatorService struct {
	sources  service.SourceService
	detector service.LanguageDetector
	metrics  *middleware.MetricsCollector
	now      func() time.Time
}

// NewAggregatorService 创建一个新的聚合服务实例
func NewAggregatorService(sources service.SourceService, detector service.LanguageDetector) AggregatorService {
	return &aggregatorService{
		sources:  sources,
		detector: detector,
		now:      time.Now,
	}
}

// Aggregate 处理所有来源并生成报告。
// 单个来源或内容块的失败只会被跳过，只有OPML加载失败会返回错误。
func (s *aggregatorService) Aggregate(ctx context.Context, params model.ProcessParams) (string, error) {
	runLog := logger.With("run_id", uuid.NewString())
	runLog.Info("开始聚合雇主品牌新闻", "sources_count", len(params.Sources))
	defer logger.TimeTrack("Aggregate")()
	logger.LogMemStatsOnce("start")
	s.metrics = middleware.NewMetricsCollector()

	sources := params.Sources
	if params.OpmlFile != "" {
		extra, err := s.sources.ParseOpml(params.OpmlFile)
		if err != nil {
			runLog.Error("加载OPML来源失败", "file", params.OpmlFile, "error", err)
			return "", fmt.Errorf("加载OPML来源失败: %w", err)
		}
		sources = append(append([]model.Source{}, sources...), extra...)
	}

	report := service.NewReportBuilder(params.Title, s.now())
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			runLog.Warn("运行被取消，停止处理剩余来源", "error", err)
			return "", fmt.Errorf("运行被取消: %w", err)
		}

		runLog.Info("处理来源", "url", source.URL, "kind", source.Kind)
		report.AddSourceReport(s.processSource(ctx, runLog, source, params.Keywords))
	}

	middleware.LogMetrics(s.metrics)
	logger.LogMemStatsOnce("end")
	runLog.Info("聚合完成", "sources_count", len(sources))
	return report.String(), nil
}

// processSource 抓取一个来源，并对每个内容块做语言检测、相关性过滤和分类
func (s *aggregatorService) processSource(ctx context.Context, runLog *logger.ContextLogger, source model.Source, keywords model.KeywordSet) model.SourceReport {
	blocks := s.sources.FetchBlocks(ctx, source)
	s.metrics.RecordSource(len(blocks))

	result := model.SourceReport{Source: source}
	for _, block := range blocks {
		lang := s.detector.Detect(block.Text())
		s.metrics.RecordLanguage(lang)

		annotated, ok := service.Annotate(block, lang, keywords)
		if !ok {
			s.metrics.RecordDropped(!keywords.Supports(lang))
			runLog.Debug("内容块被过滤", "source", source.URL, "headline", block.Headline, "language", lang)
			continue
		}

		s.metrics.RecordKept(annotated.Category)
		result.Blocks = append(result.Blocks, annotated)
	}
	return result
}

// SaveReport 把报告写入文件，必要时创建输出目录
func SaveReport(outputFile, report string) error {
	outputDir := filepath.Dir(outputFile)
	if outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}

	if err := os.WriteFile(outputFile, []byte(report), 0644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}
