// Package config loads the embedded default configuration and merges an
// optional user YAML file and TALENT_NEWS_* environment variables over it.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/wolfitem/talent-news/internal/domain/model"
	"github.com/wolfitem/talent-news/internal/infrastructure/logger"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "TALENT_NEWS"

// defaultConfigName 未指定配置文件时在当前目录查找的文件
const defaultConfigName = "config.yaml"

//go:embed defaults.yaml
var defaults []byte

// Init 读取内置默认配置，再合并用户配置文件。
// path为空时尝试当前目录下的config.yaml，文件不存在时只使用默认配置。
func Init(v *viper.Viper, path string) (string, error) {
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return "", fmt.Errorf("读取默认配置失败: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = defaultConfigName
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("无法读取配置文件: %w", err)
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return "", fmt.Errorf("合并配置文件失败: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Logger 返回日志配置
func Logger(v *viper.Viper) (logger.Config, error) {
	var cfg logger.Config
	if err := v.UnmarshalKey("logger", &cfg); err != nil {
		return logger.Config{}, fmt.Errorf("解析日志配置失败: %w", err)
	}
	return cfg, nil
}

// Load 把配置转换为一次运行的参数
func Load(v *viper.Viper) (model.ProcessParams, error) {
	params := model.ProcessParams{
		Title:      v.GetString("report.title"),
		OutputFile: v.GetString("report.output_file"),
		OpmlFile:   v.GetString("rss.opml_file"),
	}

	if err := v.UnmarshalKey("fetch", &params.Fetch); err != nil {
		return model.ProcessParams{}, fmt.Errorf("解析抓取配置失败: %w", err)
	}
	if err := v.UnmarshalKey("sources", &params.Sources); err != nil {
		return model.ProcessParams{}, fmt.Errorf("解析来源配置失败: %w", err)
	}
	if err := v.UnmarshalKey("keywords", &params.Keywords.Topics); err != nil {
		return model.ProcessParams{}, fmt.Errorf("解析主题关键词失败: %w", err)
	}
	if err := v.UnmarshalKey("categories", &params.Keywords.Categories); err != nil {
		return model.ProcessParams{}, fmt.Errorf("解析分类配置失败: %w", err)
	}

	return params, nil
}
