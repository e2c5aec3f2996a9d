/*
 * @module service/quality/testdata_test
 * @description 质量校验测试共用的契约与记录构造工厂
 * @architecture 测试层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 测试数据构造 -> 各评估器单元测试复用
 * @rules 工厂返回全新对象，测试间不共享可变状态
 * @dependencies github.com/shopspring/decimal, time
 * @refs field_rules_test.go, consistency_rules_test.go, validator_test.go
 */

package quality

import (
	"time"

	"submission-quality-service/service/models"

	"github.com/shopspring/decimal"
)

func boolPtr(v bool) *bool {
	return &v
}

func intPtr(v int) *int {
	return &v
}

// newTestContract 构造与生产契约同构的测试契约
func newTestContract() *models.QualityRulesContract {
	return &models.QualityRulesContract{
		ContractVersion: "1.0.0",
		RequiredFields: models.RequiredFieldGroups{
			{
				Name: "basic_info",
				Fields: []models.FieldRule{
					{Field: "business_name", Nullable: boolPtr(false), MinLength: intPtr(3), MaxLength: intPtr(200), Description: "企业名称"},
					{Field: "naics_code", Nullable: boolPtr(false), Pattern: `^\d{6}$`, Description: "NAICS行业代码"},
					{Field: "annual_revenue", Nullable: boolPtr(false), Range: []float64{10000, 1000000000}, Description: "年营收"},
					{Field: "employee_count", Nullable: boolPtr(false), Range: []float64{1, 100000}, Description: "员工数"},
					{Field: "years_in_business", Nullable: boolPtr(false), Range: []float64{0, 200}, Description: "经营年限"},
				},
			},
			{
				Name: "coverage_info",
				Fields: []models.FieldRule{
					{Field: "requested_coverage_types", Nullable: boolPtr(false), Description: "投保险种"},
					{Field: "requested_limits", Nullable: boolPtr(false), Description: "保额需求"},
				},
			},
		},
		ConsistencyChecks: []models.ConsistencyCheck{
			{
				RuleID:       RuleRevenueEmployee,
				Name:         "营收与员工数一致性",
				Severity:     "warning",
				Logic:        "revenue_employee_ratio",
				ErrorMessage: "营收 ${annual_revenue} 与员工数 ${employee_count} 不成比例",
			},
			{
				RuleID:       RuleYearsRevenue,
				Name:         "经营年限与营收一致性",
				Severity:     "warning",
				Logic:        "years_revenue_ratio",
				ErrorMessage: "经营 ${years_in_business} 年的企业营收 ${annual_revenue} 偏高",
			},
			{
				RuleID:       RuleNAICSFormat,
				Name:         "NAICS代码格式",
				Severity:     "error",
				Logic:        "naics_format",
				ErrorMessage: "NAICS代码 ${naics_code} 格式非法",
			},
		},
		QualityThresholds: []models.QualityThreshold{
			{Metric: "overall_quality_score", Target: 0.95, Minimum: 0.8,
				Calculation: "(completeness_score * 0.6) + (consistency_score * 0.4)"},
		},
		EnrichmentSources: []models.EnrichmentSource{
			{
				Source:              "opencorporates",
				APIEndpoint:         "https://api.opencorporates.com/v0.4/companies/search",
				FieldsProvided:      []string{"business_name", "business_address", "years_in_business"},
				Cost:                0.05,
				ConfidenceThreshold: 0.85,
			},
			{
				Source:              "naics_lookup",
				APIEndpoint:         "https://api.naics.us/v1/q",
				FieldsProvided:      []string{"naics_code"},
				Cost:                0.01,
				ConfidenceThreshold: 0.9,
			},
		},
	}
}

// newTestSubmission 构造一条全部检查都应通过的完整记录
func newTestSubmission() *models.Submission {
	revenue := decimal.NewFromInt(2500000)
	date := time.Date(2024, 6, 18, 10, 30, 0, 0, time.UTC)
	return &models.Submission{
		SubmissionID:           "test-sub-001",
		BusinessName:           models.StringPtr("Acme Software Solutions"),
		NAICSCode:              models.StringPtr("541511"),
		AnnualRevenue:          &revenue,
		EmployeeCount:          models.IntPtr(18),
		YearsInBusiness:        models.IntPtr(7),
		BusinessAddress:        models.StringPtr("123 Main St, Austin, TX, 78701"),
		RequestedCoverageTypes: models.StringPtr("General Liability"),
		RequestedLimits:        models.StringPtr("$1,000,000"),
		SubmissionDate:         models.TimePtr(date),
	}
}

// submissionWith 基于完整记录微调字段，便于构造异常场景
func submissionWith(revenue int64, employees, years int) *models.Submission {
	sub := newTestSubmission()
	r := decimal.NewFromInt(revenue)
	sub.AnnualRevenue = &r
	sub.EmployeeCount = models.IntPtr(employees)
	sub.YearsInBusiness = models.IntPtr(years)
	return sub
}
