package service

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/wolfitem/talent-news/internal/domain/model"
)

// Validator 提供输入验证功能
type Validator struct{}

// NewValidator 创建新的验证器实例
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateParams 验证一次运行的参数
func (v *Validator) ValidateParams(params model.ProcessParams) error {
	if strings.TrimSpace(params.OutputFile) == "" {
		return errors.New("输出文件路径不能为空")
	}
	if len(params.Keywords.Topics) == 0 {
		return errors.New("至少需要配置一种语言的主题关键词")
	}
	for i, source := range params.Sources {
		if err := v.ValidateSource(source); err != nil {
			return fmt.Errorf("第%d个来源无效: %w", i+1, err)
		}
	}
	for _, rule := range params.Keywords.Categories {
		if strings.TrimSpace(rule.Name) == "" {
			return errors.New("分类名称不能为空")
		}
	}
	if params.OpmlFile != "" {
		if err := v.ValidateOpmlPath(params.OpmlFile); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSource 验证来源类型和地址
func (v *Validator) ValidateSource(source model.Source) error {
	switch source.Kind {
	case model.SourceKindFeed:
		if source.Selectors != nil {
			return fmt.Errorf("订阅源不支持选择器: %s", source.URL)
		}
	case model.SourceKindPage:
	default:
		return fmt.Errorf("未知的来源类型 %q: %s", source.Kind, source.URL)
	}
	return v.ValidateURL(source.URL)
}

// ValidateURL 验证来源URL合法性
func (v *Validator) ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return errors.New("URL不能为空")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("无效的URL格式: %w", err)
	}

	// 限制协议类型
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("只允许HTTP/HTTPS协议: %s", rawURL)
	}
	if u.Host == "" {
		return fmt.Errorf("URL缺少主机名: %s", rawURL)
	}
	return nil
}

// ValidateOpmlPath 验证OPML文件路径
func (v *Validator) ValidateOpmlPath(filePath string) error {
	if strings.TrimSpace(filePath) == "" {
		return errors.New("文件路径不能为空")
	}

	cleanPath := filepath.Clean(filePath)

	if !strings.HasSuffix(strings.ToLower(cleanPath), ".opml") {
		return fmt.Errorf("只允许.OPML文件格式: %s", cleanPath)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("文件访问失败: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("路径指向目录而非文件: %s", cleanPath)
	}

	// 验证文件大小合理性（最大10MB限制）
	if info.Size() > 10*1024*1024 {
		return fmt.Errorf("文件过大(>10MB): %s", cleanPath)
	}
	return nil
}
