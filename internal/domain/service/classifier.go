package service

import (
	"strings"

	"github.com/wolfitem/talent-news/internal/domain/model"
)

// IsRelevant 判断文本是否包含任意一个关键词（不区分大小写的子串匹配）
func IsRelevant(text string, keywords []string) bool {
	lowerText := strings.ToLower(text)
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		if strings.Contains(lowerText, keyword) {
			return true
		}
	}
	return false
}

// Categorize 按定义顺序返回第一个命中的分类，都未命中时返回默认分类
func Categorize(text string, rules []model.CategoryRule, lang string) string {
	for _, rule := range rules {
		if IsRelevant(text, rule.Keywords[lang]) {
			return rule.Name
		}
	}
	return model.DefaultCategory
}

// Annotate 对内容块做相关性过滤和分类。
// 语言不受支持或不相关时第二个返回值为false。
func Annotate(block model.ContentBlock, lang string, keywords model.KeywordSet) (model.AnnotatedBlock, bool) {
	if !keywords.Supports(lang) {
		return model.AnnotatedBlock{}, false
	}

	text := block.Text()
	if !IsRelevant(text, keywords.Topics[lang]) {
		return model.AnnotatedBlock{}, false
	}

	// 主题关键词和分类关键词使用同一个检测结果
	return model.AnnotatedBlock{
		ContentBlock: block,
		Language:     lang,
		Category:     Categorize(text, keywords.Categories, lang),
	}, true
}
