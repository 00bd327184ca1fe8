package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	appservice "github.com/wolfitem/talent-news/internal/application/service"
	"github.com/wolfitem/talent-news/internal/config"
	"github.com/wolfitem/talent-news/internal/domain/service"
	"github.com/wolfitem/talent-news/internal/infrastructure/logger"
)

var outputFile string

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "抓取所有来源并生成新闻报告",
	Long: `按配置顺序依次抓取每个来源，检测语言、过滤相关内容并分类，
最终把报告写入输出文件（每次运行覆盖）。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAggregation(cmd)
	},
}

func runAggregation(cmd *cobra.Command) error {
	params, err := config.Load(viper.GetViper())
	if err != nil {
		logger.Error("加载配置失败", "error", err)
		return err
	}
	if outputFile != "" {
		params.OutputFile = outputFile
	}

	if err := service.NewValidator().ValidateParams(params); err != nil {
		logger.Error("配置校验失败", "error", err)
		return fmt.Errorf("配置校验失败: %w", err)
	}

	appService := appservice.NewAggregatorService(
		service.NewSourceService(params.Fetch),
		service.NewLanguageDetector(params.Keywords.Languages()),
	)

	report, err := appService.Aggregate(cmd.Context(), params)
	if err != nil {
		logger.Error("生成报告失败", "error", err)
		return fmt.Errorf("生成报告失败: %w", err)
	}

	if err := appservice.SaveReport(params.OutputFile, report); err != nil {
		logger.Error("保存报告失败", "output_file", params.OutputFile, "error", err)
		return err
	}

	logger.Info("报告已保存", "output_file", params.OutputFile)
	fmt.Fprintf(cmd.OutOrStdout(), "报告已保存到: %s\n", params.OutputFile)
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&outputFile, "output", "f", "", "输出文件路径（默认使用配置中的 report.output_file）")
}
