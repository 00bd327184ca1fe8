package service

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/wolfitem/talent-news/internal/domain/model"
	"github.com/wolfitem/talent-news/internal/infrastructure/logger"
)

// LanguageDetector 定义语言检测接口
type LanguageDetector interface {
	// Detect 返回ISO 639-1语言标签，检测失败时返回"unknown"
	Detect(text string) string
}

type whatlangDetector struct {
	options whatlanggo.Options
}

// NewLanguageDetector 创建基于whatlanggo的语言检测器。
// 检测只在supported列出的语言中进行，短标题在全部语言中很容易被误判；
// supported为空时不做限制。
func NewLanguageDetector(supported []string) LanguageDetector {
	d := &whatlangDetector{}
	if len(supported) == 0 {
		return d
	}

	wanted := make(map[string]bool, len(supported))
	for _, tag := range supported {
		wanted[strings.ToLower(strings.TrimSpace(tag))] = true
	}

	whitelist := make(map[whatlanggo.Lang]bool, len(wanted))
	for lang := range whatlanggo.Langs {
		if code := lang.Iso6391(); wanted[code] {
			whitelist[lang] = true
			delete(wanted, code)
		}
	}
	for tag := range wanted {
		logger.Warn("语言检测不支持该语言标签", "language", tag)
	}

	if len(whitelist) > 0 {
		d.options.Whitelist = whitelist
	}
	return d
}

func (d *whatlangDetector) Detect(text string) (lang string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("语言检测异常", "panic", r)
			lang = model.UnknownLanguage
		}
	}()

	if strings.TrimSpace(text) == "" {
		return model.UnknownLanguage
	}

	info := whatlanggo.DetectWithOptions(text, d.options)
	code := info.Lang.Iso6391()
	if code == "" {
		logger.Debug("无法识别文本语言", "preview", truncateString(text, 50))
		return model.UnknownLanguage
	}
	return code
}
