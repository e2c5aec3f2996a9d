/*
 * @module service/quality/enrichment
 * @description 富化建议生成器，将失败字段与契约富化数据源目录交叉匹配
 * @architecture 分层架构 - 质量校验层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 失败字段收集 -> 数据源目录遍历 -> 字段交集过滤 -> 富化建议列表
 * @rules 建议中的fields_provided仅保留与失败字段的交集；无交集的数据源整条省略，不产生空建议
 * @dependencies service/models
 * @refs scorer.go, service/enrichment/
 */

package quality

import (
	"submission-quality-service/service/models"
)

// SuggestEnrichment 根据失败的检查结果生成富化建议
// 只做目录匹配，不发起任何外部调用
func SuggestEnrichment(results []models.ValidationResult, contract *models.QualityRulesContract) []models.EnrichmentSuggestion {
	failedFields := collectFailedFields(results)
	if len(failedFields) == 0 {
		return nil
	}

	suggestions := make([]models.EnrichmentSuggestion, 0)
	for _, source := range contract.EnrichmentSources {
		relevant := make([]string, 0, len(source.FieldsProvided))
		for _, field := range source.FieldsProvided {
			if failedFields[field] {
				relevant = append(relevant, field)
			}
		}
		if len(relevant) == 0 {
			continue
		}

		suggestions = append(suggestions, models.EnrichmentSuggestion{
			Source:              source.Source,
			APIEndpoint:         source.APIEndpoint,
			FieldsProvided:      relevant,
			Cost:                source.Cost,
			ConfidenceThreshold: source.ConfidenceThreshold,
		})
	}

	return suggestions
}

// collectFailedFields 收集所有未通过检查涉及的字段名集合
func collectFailedFields(results []models.ValidationResult) map[string]bool {
	failed := make(map[string]bool)
	for i := range results {
		if results[i].Passed {
			continue
		}
		for _, field := range results[i].FieldNames {
			failed[field] = true
		}
	}
	return failed
}
