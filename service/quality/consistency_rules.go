/*
 * @module service/quality/consistency_rules
 * @description 跨字段一致性规则评估器，基于规则注册表分发谓词
 * @architecture 分层架构 - 质量校验层，注册表模式
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 契约规则遍历 -> 注册表查找 -> 谓词执行 -> 消息模板插值 -> 检查结果列表
 * @rules 注册表未命中且无内联表达式的规则记录告警后跳过，不允许按通过计数，也不允许抛出异常
 * @dependencies log/slog, regexp
 * @refs accessor.go, expression.go
 */

package quality

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"submission-quality-service/service/models"
)

// 内置一致性规则ID
const (
	RuleRevenueEmployee = "CONS-001"
	RuleYearsRevenue    = "CONS-002"
	RuleNAICSFormat     = "CONS-003"
)

var naicsPattern = regexp.MustCompile(`^\d{6}$`)

// ConsistencyRule 一致性规则实现：涉及字段、期望描述和纯谓词
type ConsistencyRule struct {
	Fields    []string
	Expected  string
	Predicate func(*models.Submission) bool
}

// ConsistencyRegistry 一致性规则注册表
// 新规则通过Register注册即可生效，评估流程不需要修改
type ConsistencyRegistry struct {
	rules map[string]ConsistencyRule
}

// NewConsistencyRegistry 创建注册表并注册全部内置规则
func NewConsistencyRegistry() *ConsistencyRegistry {
	r := &ConsistencyRegistry{rules: make(map[string]ConsistencyRule)}

	r.Register(RuleRevenueEmployee, ConsistencyRule{
		Fields:    []string{"annual_revenue", "employee_count"},
		Expected:  "营收与员工规模成比例",
		Predicate: checkRevenueEmployeeConsistency,
	})
	r.Register(RuleYearsRevenue, ConsistencyRule{
		Fields:    []string{"years_in_business", "annual_revenue"},
		Expected:  "经营不足2年的企业营收应低于500万美元",
		Predicate: checkYearsRevenueConsistency,
	})
	r.Register(RuleNAICSFormat, ConsistencyRule{
		Fields:    []string{"naics_code"},
		Expected:  "有效的6位NAICS行业代码",
		Predicate: checkNAICSValidity,
	})

	return r
}

// Register 注册规则，同ID覆盖
func (r *ConsistencyRegistry) Register(ruleID string, rule ConsistencyRule) {
	r.rules[ruleID] = rule
}

// Lookup 按规则ID查找实现
func (r *ConsistencyRegistry) Lookup(ruleID string) (ConsistencyRule, bool) {
	rule, ok := r.rules[ruleID]
	return rule, ok
}

// EvaluateConsistency 按契约顺序执行全部一致性检查
// 每条已实现的契约规则恰好产生一条结果；未实现且无表达式的规则跳过并告警
func EvaluateConsistency(sub *models.Submission, contract *models.QualityRulesContract, registry *ConsistencyRegistry) []models.ValidationResult {
	results := make([]models.ValidationResult, 0, len(contract.ConsistencyChecks))

	for i := range contract.ConsistencyChecks {
		check := &contract.ConsistencyChecks[i]

		rule, ok := registry.Lookup(check.RuleID)
		if !ok {
			if check.Expression != "" {
				if result, evalOK := evaluateExpressionRule(sub, check); evalOK {
					results = append(results, result)
				}
				continue
			}
			slog.Warn("契约声明了未实现的一致性规则，已跳过", "rule_id", check.RuleID, "name", check.Name)
			continue
		}

		passed := rule.Predicate(sub)
		result := models.ValidationResult{
			RuleID:        check.RuleID,
			RuleName:      check.Name,
			Passed:        passed,
			Severity:      models.ParseSeverity(check.Severity),
			FieldNames:    rule.Fields,
			ExpectedValue: rule.Expected,
			ActualValue:   actualValueLabel(sub, rule.Fields),
		}
		if !passed {
			result.ErrorMessage = substituteTokens(check.ErrorMessage, sub)
		}

		results = append(results, result)
	}

	return results
}

// checkRevenueEmployeeConsistency CONS-001 营收与员工数合理性
// 员工数在(50,100]区间没有契约规则，保持放行——这是业务上有意留白，不是缺陷
func checkRevenueEmployeeConsistency(sub *models.Submission) bool {
	if sub.AnnualRevenue == nil || sub.EmployeeCount == nil {
		return true // 操作数缺失由必填检查负责，这里不重复判罚
	}

	revenue := sub.AnnualRevenue.InexactFloat64()
	employees := *sub.EmployeeCount

	switch {
	case employees < 5:
		return revenue < 1000000
	case employees <= 50:
		return revenue >= 500000 && revenue <= 50000000
	case employees > 100:
		return revenue > 5000000
	default:
		return true
	}
}

// checkYearsRevenueConsistency CONS-002 经营年限与营收合理性
func checkYearsRevenueConsistency(sub *models.Submission) bool {
	if sub.YearsInBusiness == nil || sub.AnnualRevenue == nil {
		return true
	}

	if *sub.YearsInBusiness < 2 {
		return sub.AnnualRevenue.InexactFloat64() < 5000000
	}
	return true
}

// checkNAICSValidity CONS-003 NAICS代码格式校验（6位数字）
func checkNAICSValidity(sub *models.Submission) bool {
	if sub.NAICSCode == nil {
		return false
	}
	return naicsPattern.MatchString(*sub.NAICSCode)
}

// actualValueLabel 构造实际值展示文本，如 "annual_revenue=50000000, employee_count=3"
func actualValueLabel(sub *models.Submission, fields []string) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		value, present, _ := lookupField(sub, field)
		if !present {
			parts = append(parts, fmt.Sprintf("%s=null", field))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", field, formatFieldValue(value)))
	}
	return strings.Join(parts, ", ")
}

var messageTokenPattern = regexp.MustCompile(`\$\{([a-z_]+)\}`)

// substituteTokens 将错误消息模板中的 ${field} 替换为记录中的实际值
func substituteTokens(template string, sub *models.Submission) string {
	if template == "" {
		return ""
	}

	return messageTokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		field := messageTokenPattern.FindStringSubmatch(token)[1]
		value, present, known := lookupField(sub, field)
		if !known || !present {
			return "null"
		}
		return formatFieldValue(value)
	})
}
