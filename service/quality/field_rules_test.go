/*
 * @module service/quality/field_rules_test
 * @description 必填字段规则评估器单元测试
 * @architecture 测试层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 构造记录与字段规则 -> 执行评估 -> 断言子检查结果
 * @rules 覆盖空值短路、正则、长度、区间以及坏契约降级分支
 * @dependencies github.com/stretchr/testify/assert
 * @refs field_rules.go
 */

package quality

import (
	"testing"

	"submission-quality-service/service/models"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateRequiredFields_CompleteSubmission(t *testing.T) {
	contract := newTestContract()
	results := EvaluateRequiredFields(newTestSubmission(), contract)

	assert.NotEmpty(t, results)
	for i := range results {
		assert.True(t, results[i].Passed, "规则 %s 应通过", results[i].RuleID)
	}
}

func TestEvaluateRequiredFields_MissingField(t *testing.T) {
	contract := newTestContract()
	sub := newTestSubmission()
	sub.BusinessName = nil

	results := EvaluateRequiredFields(sub, contract)

	r := resultByRuleID(t, results, "REQ-BUSINESS_NAME")
	assert.False(t, r.Passed)
	assert.Equal(t, models.SeverityError, r.Severity)
	assert.Equal(t, "not null", r.ExpectedValue)
	assert.Equal(t, "null", r.ActualValue)
	assert.Equal(t, []string{"business_name"}, r.FieldNames)

	// 缺失字段短路后续约束检查，不应出现长度子结果
	for i := range results {
		assert.NotEqual(t, "REQ-BUSINESS_NAME-LENGTH", results[i].RuleID)
	}
}

func TestEvaluateRequiredFields_NullableFieldMissing(t *testing.T) {
	// 允许为空的字段缺失时不产生任何结果
	rule := &models.FieldRule{Field: "business_address", Nullable: boolPtr(true)}
	sub := newTestSubmission()
	sub.BusinessAddress = nil

	assert.Empty(t, evaluateFieldRule(sub, rule))

	// nullable未声明时默认允许为空
	rule = &models.FieldRule{Field: "business_address"}
	assert.Empty(t, evaluateFieldRule(sub, rule))
}

func TestEvaluateFieldRule_PatternCheck(t *testing.T) {
	rule := &models.FieldRule{Field: "naics_code", Nullable: boolPtr(false), Pattern: `^\d{6}$`}

	sub := newTestSubmission()
	results := evaluateFieldRule(sub, rule)
	assert.Len(t, results, 1)
	assert.Equal(t, "REQ-NAICS_CODE-PATTERN", results[0].RuleID)
	assert.True(t, results[0].Passed)
	assert.Equal(t, models.SeverityInfo, results[0].Severity)
	assert.Equal(t, `Pattern: ^\d{6}$`, results[0].ExpectedValue)

	sub.NAICSCode = models.StringPtr("54-15")
	results = evaluateFieldRule(sub, rule)
	assert.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Equal(t, models.SeverityError, results[0].Severity)
	assert.Equal(t, "54-15", results[0].ActualValue)
}

func TestEvaluateFieldRule_InvalidPatternDegrades(t *testing.T) {
	// 契约中的非法正则降级为失败结果，不允许panic或中断评估
	rule := &models.FieldRule{Field: "naics_code", Nullable: boolPtr(false), Pattern: `[unclosed`}

	results := evaluateFieldRule(newTestSubmission(), rule)
	assert.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Equal(t, models.SeverityError, results[0].Severity)
	assert.Contains(t, results[0].ErrorMessage, "非法")
}

func TestEvaluateFieldRule_LengthCheck(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		minLen   *int
		maxLen   *int
		expected bool
	}{
		{"区间内", "Acme Corp", intPtr(3), intPtr(200), true},
		{"过短", "AB", intPtr(3), intPtr(200), false},
		{"过长", "ABCDEF", intPtr(1), intPtr(5), false},
		{"仅下限", "ABC", intPtr(3), nil, true},
		{"仅上限", "ABC", nil, intPtr(3), true},
		{"下边界", "ABC", intPtr(3), intPtr(10), true},
		{"中文按字符计数", "中文企业名", intPtr(5), intPtr(5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := &models.FieldRule{
				Field:     "business_name",
				Nullable:  boolPtr(false),
				MinLength: tt.minLen,
				MaxLength: tt.maxLen,
			}
			sub := newTestSubmission()
			sub.BusinessName = models.StringPtr(tt.value)

			results := evaluateFieldRule(sub, rule)
			assert.Len(t, results, 1)
			assert.Equal(t, "REQ-BUSINESS_NAME-LENGTH", results[0].RuleID)
			assert.Equal(t, tt.expected, results[0].Passed)
		})
	}
}

func TestEvaluateFieldRule_RangeCheck(t *testing.T) {
	tests := []struct {
		name     string
		revenue  int64
		expected bool
	}{
		{"区间内", 2500000, true},
		{"低于下限", 5000, false},
		{"高于上限", 2000000000, false},
		{"下边界含", 10000, true},
		{"上边界含", 1000000000, true},
	}

	rule := &models.FieldRule{Field: "annual_revenue", Nullable: boolPtr(false), Range: []float64{10000, 1000000000}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := submissionWith(tt.revenue, 18, 7)

			results := evaluateFieldRule(sub, rule)
			assert.Len(t, results, 1)
			assert.Equal(t, "REQ-ANNUAL_REVENUE-RANGE", results[0].RuleID)
			assert.Equal(t, tt.expected, results[0].Passed)
			if !tt.expected {
				assert.Equal(t, models.SeverityError, results[0].Severity)
			}
		})
	}
}

func TestEvaluateFieldRule_RangeOnNonNumericValue(t *testing.T) {
	// 非数值字段声明区间约束时转换失败，降级为失败结果
	rule := &models.FieldRule{Field: "business_name", Nullable: boolPtr(false), Range: []float64{0, 100}}

	results := evaluateFieldRule(newTestSubmission(), rule)
	assert.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Equal(t, models.SeverityError, results[0].Severity)
}

func TestEvaluateFieldRule_NoConstraintsPresenceResult(t *testing.T) {
	// 无约束字段存在时记录一条通过的info结果，保证进入完整性分母
	rule := &models.FieldRule{Field: "requested_limits", Nullable: boolPtr(false)}

	results := evaluateFieldRule(newTestSubmission(), rule)
	assert.Len(t, results, 1)
	assert.Equal(t, "REQ-REQUESTED_LIMITS", results[0].RuleID)
	assert.True(t, results[0].Passed)
	assert.Equal(t, models.SeverityInfo, results[0].Severity)
}

func TestEvaluateFieldRule_UnknownFieldTreatedMissing(t *testing.T) {
	// 契约引用记录之外的字段按缺失处理
	rule := &models.FieldRule{Field: "no_such_field", Nullable: boolPtr(false)}

	results := evaluateFieldRule(newTestSubmission(), rule)
	assert.Len(t, results, 1)
	assert.Equal(t, "REQ-NO_SUCH_FIELD", results[0].RuleID)
	assert.False(t, results[0].Passed)
}

func TestEvaluateFieldRule_MultipleConstraints(t *testing.T) {
	// 同时声明pattern和length时产生两条子结果
	rule := &models.FieldRule{
		Field:     "naics_code",
		Nullable:  boolPtr(false),
		Pattern:   `^\d{6}$`,
		MinLength: intPtr(6),
		MaxLength: intPtr(6),
	}

	results := evaluateFieldRule(newTestSubmission(), rule)
	assert.Len(t, results, 2)
	assert.Equal(t, "REQ-NAICS_CODE-PATTERN", results[0].RuleID)
	assert.Equal(t, "REQ-NAICS_CODE-LENGTH", results[1].RuleID)
}
