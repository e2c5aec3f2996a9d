/*
 * @module service/enrichment/enrichment_agent_test
 * @description 数据富化代理单元测试
 * @architecture 测试层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 构造报告与记录 -> 执行富化 -> 断言回填、预算与不可变性
 * @rules 覆盖计划排序、预算截断、原记录不可变和数据源未命中路径
 * @dependencies github.com/stretchr/testify/assert
 * @refs enrichment_agent.go, mock_apis.go
 */

package enrichment

import (
	"context"
	"testing"

	"submission-quality-service/service/models"

	"github.com/stretchr/testify/assert"
)

func newAgent() *Agent {
	return NewAgent(&MockOpenCorporatesAPI{}, &MockNAICSLookupAPI{})
}

func incompleteSubmission() *models.Submission {
	return &models.Submission{
		SubmissionID: "sub-enrich-001",
		BusinessName: models.StringPtr("Acme Software Solutions LLC"),
	}
}

func reportSuggesting(suggestions ...models.EnrichmentSuggestion) *models.QualityReport {
	return &models.QualityReport{EnrichmentSuggestions: suggestions}
}

func TestEnrichSubmission_FillsMissingFields(t *testing.T) {
	t.Setenv("ENRICHMENT_COST_BUDGET", "0.25")
	agent := newAgent()
	sub := incompleteSubmission()

	report := reportSuggesting(
		models.EnrichmentSuggestion{
			Source:              "opencorporates",
			FieldsProvided:      []string{"business_address", "years_in_business"},
			Cost:                0.05,
			ConfidenceThreshold: 0.85,
		},
		models.EnrichmentSuggestion{
			Source:              "naics_lookup",
			FieldsProvided:      []string{"naics_code"},
			Cost:                0.01,
			ConfidenceThreshold: 0.9,
		},
	)

	enriched, outcome, err := agent.EnrichSubmission(context.Background(), sub, report)
	assert.NoError(t, err)
	assert.True(t, outcome.Applied)
	assert.NotNil(t, enriched)

	assert.Equal(t, "123 Main St, Austin, TX, 78701", *enriched.BusinessAddress)
	assert.Equal(t, 9, *enriched.YearsInBusiness)
	// NAICS缺失时从名称推断（software -> 541511）
	assert.Equal(t, "541511", *enriched.NAICSCode)

	assert.ElementsMatch(t, []string{"business_address", "years_in_business", "naics_code"}, outcome.EnrichedFields)
	assert.InDelta(t, 0.11, outcome.TotalCost, 0.001)
	assert.NotEmpty(t, outcome.DecisionLog)
}

func TestEnrichSubmission_OriginalUnmodified(t *testing.T) {
	agent := newAgent()
	sub := incompleteSubmission()

	report := reportSuggesting(models.EnrichmentSuggestion{
		Source:              "opencorporates",
		FieldsProvided:      []string{"business_address"},
		Cost:                0.05,
		ConfidenceThreshold: 0.85,
	})

	enriched, outcome, err := agent.EnrichSubmission(context.Background(), sub, report)
	assert.NoError(t, err)
	assert.True(t, outcome.Applied)

	// 富化作用于副本，原记录保持不变
	assert.Nil(t, sub.BusinessAddress)
	assert.NotNil(t, enriched.BusinessAddress)
	assert.NotSame(t, sub, enriched)
}

func TestEnrichSubmission_PlanOrderedByValueCostRatio(t *testing.T) {
	agent := newAgent()

	report := reportSuggesting(
		models.EnrichmentSuggestion{
			Source: "opencorporates", FieldsProvided: []string{"business_address"},
			Cost: 0.05, ConfidenceThreshold: 0.85,
		},
		models.EnrichmentSuggestion{
			Source: "naics_lookup", FieldsProvided: []string{"naics_code"},
			Cost: 0.01, ConfidenceThreshold: 0.9,
		},
	)

	plan := agent.buildPlan(report)
	assert.Len(t, plan, 2)
	// 0.9*10/0.01=900 > 0.85*10/0.05=170
	assert.Equal(t, "naics_code", plan[0].FieldName)
	assert.Equal(t, "business_address", plan[1].FieldName)
}

func TestEnrichSubmission_BudgetExhausted(t *testing.T) {
	t.Setenv("ENRICHMENT_COST_BUDGET", "0.01")
	agent := newAgent()
	sub := incompleteSubmission()

	report := reportSuggesting(
		models.EnrichmentSuggestion{
			Source: "naics_lookup", FieldsProvided: []string{"naics_code"},
			Cost: 0.01, ConfidenceThreshold: 0.9,
		},
		models.EnrichmentSuggestion{
			Source: "opencorporates", FieldsProvided: []string{"business_address"},
			Cost: 0.05, ConfidenceThreshold: 0.85,
		},
	)

	enriched, outcome, err := agent.EnrichSubmission(context.Background(), sub, report)
	assert.NoError(t, err)
	assert.True(t, outcome.Applied)

	// 预算只够执行价值成本比最高的naics_code
	assert.Equal(t, []string{"naics_code"}, outcome.EnrichedFields)
	assert.Nil(t, enriched.BusinessAddress)
	assert.Contains(t, outcome.DecisionLog[len(outcome.DecisionLog)-1], "超出预算")
}

func TestEnrichSubmission_NoSuggestions(t *testing.T) {
	agent := newAgent()

	enriched, outcome, err := agent.EnrichSubmission(context.Background(), incompleteSubmission(), reportSuggesting())
	assert.NoError(t, err)
	assert.Nil(t, enriched)
	assert.False(t, outcome.Applied)
	assert.NotEmpty(t, outcome.DecisionLog)
}

func TestEnrichSubmission_UnknownCompanyNotEnriched(t *testing.T) {
	agent := newAgent()
	sub := &models.Submission{
		SubmissionID: "sub-enrich-002",
		BusinessName: models.StringPtr("Totally Unknown Holdings"),
	}

	report := reportSuggesting(models.EnrichmentSuggestion{
		Source: "opencorporates", FieldsProvided: []string{"business_address"},
		Cost: 0.05, ConfidenceThreshold: 0.85,
	})

	enriched, outcome, err := agent.EnrichSubmission(context.Background(), sub, report)
	assert.NoError(t, err)
	assert.Nil(t, enriched)
	assert.False(t, outcome.Applied)
}

func TestEnrichNAICSCode_ValidatesExistingCode(t *testing.T) {
	agent := newAgent()
	sub := &models.Submission{
		SubmissionID: "sub-enrich-003",
		BusinessName: models.StringPtr("Downtown Restaurant Group"),
		NAICSCode:    models.StringPtr("722511"),
	}

	applied, confidence, err := agent.enrichNAICSCode(context.Background(), sub)
	assert.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 0.95, confidence)
	assert.Equal(t, "722511", *sub.NAICSCode)
}

func TestEnrichNAICSCode_FallsBackToNameInference(t *testing.T) {
	agent := newAgent()
	sub := &models.Submission{
		SubmissionID: "sub-enrich-004",
		BusinessName: models.StringPtr("Downtown Restaurant Group"),
		NAICSCode:    models.StringPtr("999999"), // 未收录代码
	}

	applied, confidence, err := agent.enrichNAICSCode(context.Background(), sub)
	assert.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 0.75, confidence)
	assert.Equal(t, "722511", *sub.NAICSCode)
}

func TestEnrichSubmission_ContextCancelled(t *testing.T) {
	agent := newAgent()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := reportSuggesting(models.EnrichmentSuggestion{
		Source: "naics_lookup", FieldsProvided: []string{"naics_code"},
		Cost: 0.01, ConfidenceThreshold: 0.9,
	})

	_, _, err := agent.EnrichSubmission(ctx, incompleteSubmission(), report)
	assert.Error(t, err)
}
