/*
 * @module service/quality/field_rules
 * @description 必填字段规则评估器，执行空值、正则、长度和数值区间检查
 * @architecture 分层架构 - 质量校验层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 契约分类遍历 -> 字段取值 -> 空值检查 -> 约束检查 -> 检查结果列表
 * @rules 缺失且不可空的字段短路该字段的其余检查；单个字段的转换失败降级为失败结果，不中断整体评估
 * @dependencies log/slog, regexp
 * @refs accessor.go, scorer.go
 */

package quality

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"submission-quality-service/service/models"
)

// EvaluateRequiredFields 按契约对记录执行全部必填字段检查
// 返回结果顺序与契约分类和字段声明顺序一致
func EvaluateRequiredFields(sub *models.Submission, contract *models.QualityRulesContract) []models.ValidationResult {
	results := make([]models.ValidationResult, 0)

	for _, category := range contract.RequiredFields {
		for i := range category.Fields {
			rule := &category.Fields[i]
			results = append(results, evaluateFieldRule(sub, rule)...)
		}
	}

	return results
}

// evaluateFieldRule 评估单个字段规则，可能产生多条子检查结果
func evaluateFieldRule(sub *models.Submission, rule *models.FieldRule) []models.ValidationResult {
	baseRuleID := "REQ-" + strings.ToUpper(rule.Field)
	ruleLabel := rule.Description
	if ruleLabel == "" {
		ruleLabel = rule.Field
	}

	value, present, known := lookupField(sub, rule.Field)
	if !known {
		slog.Warn("契约引用了记录之外的字段，按缺失处理", "field", rule.Field)
	}

	// 缺失值：不可空字段产生error级失败，该字段不再执行后续检查
	if !present {
		if !rule.IsNullable() {
			return []models.ValidationResult{{
				RuleID:        baseRuleID,
				RuleName:      fmt.Sprintf("必填字段: %s", ruleLabel),
				Passed:        false,
				Severity:      models.SeverityError,
				FieldNames:    []string{rule.Field},
				ExpectedValue: "not null",
				ActualValue:   "null",
				ErrorMessage:  fmt.Sprintf("字段 %s 为必填项但缺失", rule.Field),
			}}
		}
		return nil
	}

	// 无约束的字段只记录一条"必填字段存在"的通过结果，
	// 保证每个必填字段至少贡献一条检查进入完整性分母
	if !rule.HasConstraints() {
		return []models.ValidationResult{{
			RuleID:     baseRuleID,
			RuleName:   fmt.Sprintf("必填字段: %s", ruleLabel),
			Passed:     true,
			Severity:   models.SeverityInfo,
			FieldNames: []string{rule.Field},
		}}
	}

	var results []models.ValidationResult
	text := formatFieldValue(value)

	if rule.Pattern != "" {
		results = append(results, checkPattern(rule, text))
	}
	if rule.MinLength != nil || rule.MaxLength != nil {
		results = append(results, checkLength(rule, text))
	}
	if len(rule.Range) == 2 {
		results = append(results, checkRange(rule, value))
	}

	return results
}

// checkPattern 正则约束检查
func checkPattern(rule *models.FieldRule, text string) models.ValidationResult {
	result := models.ValidationResult{
		RuleID:        "REQ-" + strings.ToUpper(rule.Field) + "-PATTERN",
		RuleName:      fmt.Sprintf("格式校验: %s", rule.Field),
		FieldNames:    []string{rule.Field},
		ExpectedValue: fmt.Sprintf("Pattern: %s", rule.Pattern),
	}

	re, err := regexp.Compile(rule.Pattern)
	if err != nil {
		// 契约中的非法正则降级为失败结果，不允许中断整体评估
		slog.Warn("契约正则表达式非法", "field", rule.Field, "pattern", rule.Pattern, "error", err)
		result.Passed = false
		result.Severity = models.SeverityError
		result.ActualValue = text
		result.ErrorMessage = fmt.Sprintf("字段 %s 的契约正则 %s 非法: %v", rule.Field, rule.Pattern, err)
		return result
	}

	if re.MatchString(text) {
		result.Passed = true
		result.Severity = models.SeverityInfo
		return result
	}

	result.Passed = false
	result.Severity = models.SeverityError
	result.ActualValue = text
	result.ErrorMessage = fmt.Sprintf("字段 %s 不符合要求的格式 %s", rule.Field, rule.Pattern)
	return result
}

// checkLength 长度约束检查，默认区间 [0, +inf)
func checkLength(rule *models.FieldRule, text string) models.ValidationResult {
	length := len([]rune(text))
	minLen := 0
	if rule.MinLength != nil {
		minLen = *rule.MinLength
	}
	maxLen := -1 // -1 表示无上限
	if rule.MaxLength != nil {
		maxLen = *rule.MaxLength
	}

	maxLabel := "inf"
	if maxLen >= 0 {
		maxLabel = fmt.Sprintf("%d", maxLen)
	}

	result := models.ValidationResult{
		RuleID:        "REQ-" + strings.ToUpper(rule.Field) + "-LENGTH",
		RuleName:      fmt.Sprintf("长度校验: %s", rule.Field),
		FieldNames:    []string{rule.Field},
		ExpectedValue: fmt.Sprintf("Length in [%d, %s]", minLen, maxLabel),
	}

	if length < minLen || (maxLen >= 0 && length > maxLen) {
		result.Passed = false
		result.Severity = models.SeverityError
		result.ActualValue = fmt.Sprintf("Length: %d", length)
		result.ErrorMessage = fmt.Sprintf("字段 %s 长度 %d 不在区间 [%d, %s] 内", rule.Field, length, minLen, maxLabel)
		return result
	}

	result.Passed = true
	result.Severity = models.SeverityInfo
	return result
}

// checkRange 数值区间约束检查，闭区间
func checkRange(rule *models.FieldRule, value interface{}) models.ValidationResult {
	minVal, maxVal := rule.Range[0], rule.Range[1]
	result := models.ValidationResult{
		RuleID:        "REQ-" + strings.ToUpper(rule.Field) + "-RANGE",
		RuleName:      fmt.Sprintf("区间校验: %s", rule.Field),
		FieldNames:    []string{rule.Field},
		ExpectedValue: fmt.Sprintf("[%v, %v]", minVal, maxVal),
	}

	numeric, err := numericValue(value)
	if err != nil {
		// 转换失败按失败结果处理，单个坏字段不能中断整条记录的评估
		slog.Warn("区间检查数值转换失败", "field", rule.Field, "value", value, "error", err)
		result.Passed = false
		result.Severity = models.SeverityError
		result.ActualValue = formatFieldValue(value)
		result.ErrorMessage = fmt.Sprintf("字段 %s 的值无法参与区间检查: %v", rule.Field, err)
		return result
	}

	if numeric < minVal || numeric > maxVal {
		result.Passed = false
		result.Severity = models.SeverityError
		result.ActualValue = formatFieldValue(numeric)
		result.ErrorMessage = fmt.Sprintf("字段 %s 的值 %v 不在区间 [%v, %v] 内", rule.Field, numeric, minVal, maxVal)
		return result
	}

	result.Passed = true
	result.Severity = models.SeverityInfo
	return result
}
