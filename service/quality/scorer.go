/*
 * @module service/quality/scorer
 * @description 质量评分器，将检查结果聚合为完整性、一致性和综合评分
 * @architecture 分层架构 - 质量校验层
 * @documentReference ai_docs/submission_quality_req.md, contracts/submission_quality_rules.yml
 * @stateFlow 检查结果列表 -> 通过率计算 -> 加权综合评分 -> 汇总计数
 * @rules 综合评分固定为 completeness*0.6 + consistency*0.4，与契约quality_thresholds声明一致；
 *        三项评分在报告边界一次性保留两位小数，不允许累积舍入
 * @dependencies math
 * @refs field_rules.go, consistency_rules.go
 */

package quality

import (
	"math"

	"submission-quality-service/service/models"
)

// 契约声明的综合评分权重
const (
	completenessWeight = 0.6
	consistencyWeight  = 0.4
)

// Score 聚合必填字段与一致性检查结果，生成质量报告（不含富化建议）
func Score(requiredResults, consistencyResults []models.ValidationResult) *models.QualityReport {
	completeness := passRatio(requiredResults)
	consistency := passRatio(consistencyResults)

	// 综合评分基于未舍入的分项计算，三项在此统一舍入一次
	overall := completeness*completenessWeight + consistency*consistencyWeight

	allResults := make([]models.ValidationResult, 0, len(requiredResults)+len(consistencyResults))
	allResults = append(allResults, requiredResults...)
	allResults = append(allResults, consistencyResults...)

	return &models.QualityReport{
		CompletenessScore:   round2(completeness),
		ConsistencyScore:    round2(consistency),
		OverallQualityScore: round2(overall),
		ValidationResults:   allResults,
		Summary:             summarize(allResults),
	}
}

// passRatio 通过率，零检查时按1.0处理（空集默认通过，不是除零错误）
func passRatio(results []models.ValidationResult) float64 {
	if len(results) == 0 {
		return 1.0
	}

	passed := 0
	for i := range results {
		if results[i].Passed {
			passed++
		}
	}
	return float64(passed) / float64(len(results))
}

// summarize 汇总计数
// 未通过的info级检查计入failed_checks但不计入errors/warnings，
// 因此 errors + warnings <= failed_checks 恒成立
func summarize(results []models.ValidationResult) models.ReportSummary {
	summary := models.ReportSummary{TotalChecks: len(results)}

	for i := range results {
		r := &results[i]
		if r.Passed {
			summary.PassedChecks++
			continue
		}

		summary.FailedChecks++
		switch r.Severity {
		case models.SeverityError:
			summary.Errors++
		case models.SeverityWarning:
			summary.Warnings++
		}
	}

	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
