/*
 * @module service/processor/stream_processor_test
 * @description 流处理管道单元测试
 * @architecture 测试层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 构造管道 -> 处理记录 -> 断言富化触发、复检与处理结果
 * @rules 覆盖高分跳过富化、低分富化复检、异常透传和落库快照
 * @dependencies github.com/stretchr/testify/assert
 * @refs stream_processor.go
 */

package processor

import (
	"context"
	"testing"
	"time"

	"submission-quality-service/service/anomaly"
	"submission-quality-service/service/enrichment"
	"submission-quality-service/service/models"
	"submission-quality-service/service/mq"
	"submission-quality-service/service/quality"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func pipelineContract() *models.QualityRulesContract {
	nullable := false
	return &models.QualityRulesContract{
		ContractVersion: "1.0.0",
		RequiredFields: models.RequiredFieldGroups{
			{
				Name: "basic_info",
				Fields: []models.FieldRule{
					{Field: "business_name", Nullable: &nullable, MinLength: intPtr(3), MaxLength: intPtr(200)},
					{Field: "naics_code", Nullable: &nullable, Pattern: `^\d{6}$`},
					{Field: "annual_revenue", Nullable: &nullable, Range: []float64{10000, 1000000000}},
					{Field: "employee_count", Nullable: &nullable, Range: []float64{1, 100000}},
					{Field: "years_in_business", Nullable: &nullable, Range: []float64{0, 200}},
				},
			},
			{
				Name: "coverage_info",
				Fields: []models.FieldRule{
					{Field: "requested_coverage_types", Nullable: &nullable},
					{Field: "requested_limits", Nullable: &nullable},
				},
			},
		},
		ConsistencyChecks: []models.ConsistencyCheck{
			{RuleID: "CONS-001", Name: "营收与员工数一致性", Severity: "warning"},
			{RuleID: "CONS-002", Name: "经营年限与营收一致性", Severity: "warning"},
			{RuleID: "CONS-003", Name: "NAICS代码格式", Severity: "error"},
		},
		EnrichmentSources: []models.EnrichmentSource{
			{Source: "opencorporates", APIEndpoint: "https://api.opencorporates.com/v0.4/companies/search",
				FieldsProvided: []string{"business_name", "business_address", "years_in_business"},
				Cost:           0.05, ConfidenceThreshold: 0.85},
			{Source: "naics_lookup", APIEndpoint: "https://api.naics.us/v1/q",
				FieldsProvided: []string{"naics_code"}, Cost: 0.01, ConfidenceThreshold: 0.9},
		},
	}
}

func intPtr(v int) *int {
	return &v
}

func newPipeline() *StreamProcessor {
	validator := quality.NewSubmissionValidatorWithContract(pipelineContract())
	enricher := enrichment.NewAgent(&enrichment.MockOpenCorporatesAPI{}, &enrichment.MockNAICSLookupAPI{})
	return NewStreamProcessor(validator, enricher, anomaly.NewDetector(), nil, &mq.NoopPublisher{})
}

func completeSubmission() *models.Submission {
	revenue := decimal.NewFromInt(2500000)
	date := time.Date(2024, 6, 18, 10, 30, 0, 0, time.UTC)
	return &models.Submission{
		SubmissionID:           "sub-pipeline-001",
		BusinessName:           models.StringPtr("Acme Software Solutions LLC"),
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

func TestProcessSubmission_HighQualitySkipsEnrichment(t *testing.T) {
	p := newPipeline()

	result, report, err := p.ProcessSubmission(context.Background(), completeSubmission())
	assert.NoError(t, err)

	assert.Equal(t, 1.0, report.OverallQualityScore)
	assert.Equal(t, 1.0, result.QualityScore)
	assert.False(t, result.EnrichmentApplied)
	assert.Empty(t, result.AnomaliesDetected)
	assert.Equal(t, "sub-pipeline-001", result.SubmissionID)
	assert.GreaterOrEqual(t, result.ProcessingTimeMs, int64(0))
}

func TestProcessSubmission_LowQualityTriggersEnrichmentAndRevalidation(t *testing.T) {
	p := newPipeline()

	// 缺失NAICS与经营年限：首次校验低于富化阈值
	sub := completeSubmission()
	sub.NAICSCode = nil
	sub.YearsInBusiness = nil

	result, report, err := p.ProcessSubmission(context.Background(), sub)
	assert.NoError(t, err)

	// 富化补全后复检应达到满分
	assert.True(t, result.EnrichmentApplied)
	assert.Equal(t, 1.0, report.OverallQualityScore)
	assert.Equal(t, 1.0, result.QualityScore)

	// 原记录保持不变
	assert.Nil(t, sub.NAICSCode)
	assert.Nil(t, sub.YearsInBusiness)

	// 富化决策日志随结果落库
	assert.NotNil(t, result.AgentDecisions)
	_, ok := result.AgentDecisions["enrichment_agent"]
	assert.True(t, ok)
}

func TestProcessSubmission_UnenrichableStaysLowQuality(t *testing.T) {
	p := newPipeline()

	// 未收录企业名的记录无法富化
	sub := completeSubmission()
	sub.BusinessName = models.StringPtr("Totally Unknown Holdings")
	sub.YearsInBusiness = nil
	sub.NAICSCode = nil
	sub.RequestedLimits = nil

	result, report, err := p.ProcessSubmission(context.Background(), sub)
	assert.NoError(t, err)

	// NAICS可从名称推断失败（无关键词），其余字段数据源未命中
	assert.False(t, result.EnrichmentApplied)
	assert.Less(t, report.OverallQualityScore, 0.8)
	assert.Equal(t, report.OverallQualityScore, result.QualityScore)
}

func TestProcessSubmission_AnomaliesReported(t *testing.T) {
	p := newPipeline()

	// 3名员工5000万营收：行业模式异常
	sub := completeSubmission()
	revenue := decimal.NewFromInt(50000000)
	sub.AnnualRevenue = &revenue
	sub.EmployeeCount = models.IntPtr(3)

	result, _, err := p.ProcessSubmission(context.Background(), sub)
	assert.NoError(t, err)

	assert.Contains(t, result.AnomaliesDetected, anomaly.AnomalyIndustryPattern)
	details, ok := result.AgentDecisions["anomaly_agent"]
	assert.True(t, ok)
	assert.NotEmpty(t, details)
}

func TestProcessSubmission_Deterministic(t *testing.T) {
	p := newPipeline()

	first, _, err := p.ProcessSubmission(context.Background(), completeSubmission())
	assert.NoError(t, err)
	second, _, err := p.ProcessSubmission(context.Background(), completeSubmission())
	assert.NoError(t, err)

	assert.Equal(t, first.QualityScore, second.QualityScore)
	assert.Equal(t, first.CompletenessScore, second.CompletenessScore)
	assert.Equal(t, first.AnomaliesDetected, second.AnomaliesDetected)
}
