package services

import (
	"strings"

	"jielong/internal/models"
)

// 页面上展示的分类/规则名称到存储枚举的映射
var categoryLabels = map[string]models.Category{
	"散文":     models.CategoryProse,
	"诗歌":     models.CategoryPoetry,
	"诗":      models.CategoryPoetry,
	"小说":     models.CategoryNovel,
	"prose":  models.CategoryProse,
	"poetry": models.CategoryPoetry,
	"novel":  models.CategoryNovel,
}

var subCategoryLabels = map[string]string{
	"现代诗": "modern",
	"古体诗": "classical",
	"词":   "ci",
	"散文诗": "prose_poem",
	"随笔":  "essay",
	"游记":  "travel",
	"杂文":  "miscellany",
	"微小说": "flash",
	"短篇":  "short",
	"长篇":  "long",
}

var ruleLabels = map[string]models.WritingRule{
	"一句":            models.RuleSentence,
	"每人一句":          models.RuleSentence,
	"一字":            models.RuleCharacter,
	"每人一字":          models.RuleCharacter,
	"sentence":      models.RuleSentence,
	"per-sentence":  models.RuleSentence,
	"character":     models.RuleCharacter,
	"per-character": models.RuleCharacter,
}

// 未识别的标签原样保存
func mapCategory(label string) models.Category {
	label = strings.TrimSpace(label)
	if label == "" {
		return models.CategoryProse
	}
	if c, ok := categoryLabels[strings.ToLower(label)]; ok {
		return c
	}
	return models.Category(label)
}

func mapSubCategory(label string) string {
	label = strings.TrimSpace(label)
	if v, ok := subCategoryLabels[label]; ok {
		return v
	}
	return label
}

func mapRule(label string) models.WritingRule {
	label = strings.TrimSpace(label)
	if label == "" {
		return models.RuleSentence
	}
	if r, ok := ruleLabels[strings.ToLower(label)]; ok {
		return r
	}
	return models.WritingRule(label)
}

// visibilityForLicense 只有 private 许可为私密，其余都公开
func visibilityForLicense(license string) models.Visibility {
	if strings.EqualFold(strings.TrimSpace(license), "private") {
		return models.VisibilityPrivate
	}
	return models.VisibilityPublic
}
