package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wolfitem/talent-news/internal/config"
	"github.com/wolfitem/talent-news/internal/infrastructure/logger"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "talent-news",
	Short: "雇主品牌与人才吸引新闻聚合工具",
	Long: `talent-news 从配置好的RSS订阅源和网页中抓取雇主品牌、人才吸引相关的新闻，
检测语言并按关键词过滤和分类，最终输出一份文本报告。
不带子命令运行时等同于 run。`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAggregation(cmd)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	// 程序退出前同步日志
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径 (默认为 ./config.yaml，不存在时使用内置配置)")
}

// initConfig 读取内置默认配置和用户配置文件，并初始化日志系统
func initConfig() error {
	used, err := config.Init(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}

	logConfig, err := config.Logger(viper.GetViper())
	if err != nil {
		return err
	}
	if err := logger.Init(logConfig); err != nil {
		return fmt.Errorf("初始化日志系统失败: %w", err)
	}

	if used != "" {
		logger.Info("使用配置文件", "file", used)
	} else {
		logger.Info("未找到配置文件，使用内置配置")
	}
	return nil
}
