/*
 * @module service/quality/expression_test
 * @description 内联表达式规则解释器单元测试
 * @architecture 测试层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 契约表达式 -> 编译求值 -> 断言结果与跳过行为
 * @rules 覆盖数值/字符串取值、编译失败跳过和缓存复用
 * @dependencies github.com/stretchr/testify/assert
 * @refs expression.go
 */

package quality

import (
	"testing"

	"submission-quality-service/service/models"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateExpressionRule_NumericExpression(t *testing.T) {
	check := &models.ConsistencyCheck{
		RuleID:       "CONS-201",
		Name:         "人均营收下限",
		Severity:     "warning",
		Expression:   `num("annual_revenue") / num("employee_count") >= 10000`,
		ErrorMessage: "人均营收过低",
	}

	result, ok := evaluateExpressionRule(submissionWith(2500000, 18, 7), check)
	assert.True(t, ok)
	assert.True(t, result.Passed)
	assert.Equal(t, "CONS-201", result.RuleID)

	result, ok = evaluateExpressionRule(submissionWith(50000, 20, 7), check)
	assert.True(t, ok)
	assert.False(t, result.Passed)
	assert.Equal(t, models.SeverityWarning, result.Severity)
	assert.Equal(t, "人均营收过低", result.ErrorMessage)
}

func TestEvaluateExpressionRule_StringExpression(t *testing.T) {
	check := &models.ConsistencyCheck{
		RuleID:     "CONS-202",
		Name:       "NAICS软件行业前缀",
		Severity:   "warning",
		Expression: `strings.HasPrefix(str("naics_code"), "54")`,
	}

	result, ok := evaluateExpressionRule(newTestSubmission(), check)
	assert.True(t, ok)
	assert.True(t, result.Passed)

	sub := newTestSubmission()
	sub.NAICSCode = models.StringPtr("236220")
	result, ok = evaluateExpressionRule(sub, check)
	assert.True(t, ok)
	assert.False(t, result.Passed)
}

func TestEvaluateExpressionRule_MissingFieldDefaultsToZero(t *testing.T) {
	// 缺失字段取零值，表达式自身负责处理
	check := &models.ConsistencyCheck{
		RuleID:     "CONS-203",
		Name:       "营收为正",
		Severity:   "warning",
		Expression: `num("annual_revenue") > 0`,
	}

	sub := newTestSubmission()
	sub.AnnualRevenue = nil

	result, ok := evaluateExpressionRule(sub, check)
	assert.True(t, ok)
	assert.False(t, result.Passed)
}

func TestEvaluateExpressionRule_CompileFailureSkips(t *testing.T) {
	check := &models.ConsistencyCheck{
		RuleID:     "CONS-204",
		Name:       "坏表达式",
		Severity:   "error",
		Expression: `num("annual_revenue" >`,
	}

	_, ok := evaluateExpressionRule(newTestSubmission(), check)
	assert.False(t, ok)
}

func TestEvaluateConsistency_ExpressionRuleViaContract(t *testing.T) {
	// 注册表未命中但契约携带表达式时走解释器路径
	contract := newTestContract()
	contract.ConsistencyChecks = append(contract.ConsistencyChecks, models.ConsistencyCheck{
		RuleID:       "CONS-205",
		Name:         "经营年限非负",
		Severity:     "error",
		Expression:   `num("years_in_business") >= 0`,
		ErrorMessage: "经营年限 ${years_in_business} 非法",
	})

	results := EvaluateConsistency(newTestSubmission(), contract, NewConsistencyRegistry())
	r := resultByRuleID(t, results, "CONS-205")
	assert.True(t, r.Passed)
}

func TestCompileExpression_CacheReuse(t *testing.T) {
	expr := `num("employee_count") >= 1`

	p1, err := compileExpression(expr)
	assert.NoError(t, err)
	p2, err := compileExpression(expr)
	assert.NoError(t, err)

	passed, err := p1(map[string]interface{}{"employee_count": 5.0})
	assert.NoError(t, err)
	assert.True(t, passed)

	passed, err = p2(map[string]interface{}{})
	assert.NoError(t, err)
	assert.False(t, passed)
}

func TestExpressionFields_Snapshot(t *testing.T) {
	fields := expressionFields(newTestSubmission())

	assert.Equal(t, 2500000.0, fields["annual_revenue"])
	assert.Equal(t, 18.0, fields["employee_count"])
	assert.Equal(t, "541511", fields["naics_code"])
	assert.Equal(t, "Acme Software Solutions", fields["business_name"])

	sub := newTestSubmission()
	sub.BusinessAddress = nil
	fields = expressionFields(sub)
	_, present := fields["business_address"]
	assert.False(t, present)
}
