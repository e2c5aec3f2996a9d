/*
 * @module service/enrichment/enrichment_agent
 * @description 数据富化代理，按价值成本比在预算内调用外部数据源补全失败字段
 * @architecture 分层架构 - 业务代理层
 * @documentReference ai_docs/submission_quality_req.md, contracts/submission_quality_rules.yml
 * @stateFlow 质量报告富化建议 -> 富化计划排序 -> 预算内执行 -> 克隆记录回填 -> 富化结果
 * @rules 富化永远作用于记录副本，原记录不可变；置信度低于阈值的结果丢弃；
 *        预算耗尽后剩余计划跳过并记入决策日志
 * @dependencies service/models, github.com/spf13/cast, log/slog
 * @refs mock_apis.go, service/processor/stream_processor.go
 */

package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"submission-quality-service/service/models"

	"github.com/spf13/cast"
)

// 默认富化预算与置信度阈值
const (
	defaultCostBudget    = 0.10
	defaultMinConfidence = 0.7
)

// EnrichmentDecision 单个字段的富化决策
type EnrichmentDecision struct {
	FieldName       string  `json:"field_name"`
	APISource       string  `json:"api_source"`
	CostEstimate    float64 `json:"cost_estimate"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// EnrichmentOutcome 一次富化执行的结果
type EnrichmentOutcome struct {
	Applied        bool     `json:"applied"`
	EnrichedFields []string `json:"enriched_fields"`
	TotalCost      float64  `json:"total_cost"`
	DecisionLog    []string `json:"decision_log"`
}

// Agent 数据富化代理
type Agent struct {
	companies     CompanyDirectory
	naics         NAICSDirectory
	costBudget    float64
	minConfidence float64
}

// NewAgent 创建富化代理，预算从环境变量ENRICHMENT_COST_BUDGET读取
func NewAgent(companies CompanyDirectory, naics NAICSDirectory) *Agent {
	budget := defaultCostBudget
	if raw := os.Getenv("ENRICHMENT_COST_BUDGET"); raw != "" {
		if parsed, err := cast.ToFloat64E(raw); err == nil && parsed > 0 {
			budget = parsed
		} else {
			slog.Warn("ENRICHMENT_COST_BUDGET 配置非法，使用默认预算", "value", raw)
		}
	}

	return &Agent{
		companies:     companies,
		naics:         naics,
		costBudget:    budget,
		minConfidence: defaultMinConfidence,
	}
}

// EnrichSubmission 按质量报告的富化建议补全记录
// 返回富化后的记录副本；无可富化字段时返回nil记录，outcome.Applied为false
func (a *Agent) EnrichSubmission(ctx context.Context, sub *models.Submission, report *models.QualityReport) (*models.Submission, *EnrichmentOutcome, error) {
	outcome := &EnrichmentOutcome{}

	plan := a.buildPlan(report)
	if len(plan) == 0 {
		outcome.DecisionLog = append(outcome.DecisionLog, "无可富化字段，跳过富化")
		return nil, outcome, nil
	}

	enriched := sub.Clone()
	totalCost := 0.0

	for _, decision := range plan {
		if err := ctx.Err(); err != nil {
			return nil, outcome, err
		}

		if totalCost+decision.CostEstimate > a.costBudget {
			outcome.DecisionLog = append(outcome.DecisionLog,
				fmt.Sprintf("跳过 %s：超出预算 %.3f", decision.FieldName, a.costBudget))
			continue
		}

		applied, confidence, err := a.enrichField(ctx, enriched, decision)
		if err != nil {
			return nil, outcome, err
		}

		if !applied {
			outcome.DecisionLog = append(outcome.DecisionLog,
				fmt.Sprintf("跳过 %s：数据源未命中或置信度不足", decision.FieldName))
			continue
		}

		totalCost += decision.CostEstimate
		outcome.EnrichedFields = append(outcome.EnrichedFields, decision.FieldName)
		outcome.DecisionLog = append(outcome.DecisionLog,
			fmt.Sprintf("已富化 %s，来源 %s（置信度 %.2f，成本 $%.3f）",
				decision.FieldName, decision.APISource, confidence, decision.CostEstimate))
	}

	outcome.TotalCost = totalCost
	outcome.Applied = len(outcome.EnrichedFields) > 0
	if !outcome.Applied {
		return nil, outcome, nil
	}
	return enriched, outcome, nil
}

// buildPlan 从富化建议展开逐字段决策，按价值成本比降序排列
func (a *Agent) buildPlan(report *models.QualityReport) []EnrichmentDecision {
	if report == nil {
		return nil
	}

	plan := make([]EnrichmentDecision, 0)
	for _, suggestion := range report.EnrichmentSuggestions {
		for _, field := range suggestion.FieldsProvided {
			plan = append(plan, EnrichmentDecision{
				FieldName:       field,
				APISource:       suggestion.Source,
				CostEstimate:    suggestion.Cost,
				ConfidenceScore: suggestion.ConfidenceThreshold,
			})
		}
	}

	sort.SliceStable(plan, func(i, j int) bool {
		return planScore(plan[i]) > planScore(plan[j])
	})
	return plan
}

// planScore 价值成本比，成本越低置信度越高的决策优先执行
func planScore(d EnrichmentDecision) float64 {
	cost := d.CostEstimate
	if cost < 0.01 {
		cost = 0.01
	}
	return d.ConfidenceScore * 10 / cost
}

// enrichField 对单个字段执行富化，返回是否回填及数据源置信度
func (a *Agent) enrichField(ctx context.Context, sub *models.Submission, decision EnrichmentDecision) (bool, float64, error) {
	switch decision.FieldName {
	case "business_name", "business_address", "years_in_business":
		return a.enrichFromCompanyDirectory(ctx, sub, decision.FieldName)
	case "naics_code":
		return a.enrichNAICSCode(ctx, sub)
	default:
		slog.Warn("富化建议包含不支持的字段", "field", decision.FieldName, "source", decision.APISource)
		return false, 0, nil
	}
}

// enrichFromCompanyDirectory 用企业登记信息补全名称、地址或经营年限
func (a *Agent) enrichFromCompanyDirectory(ctx context.Context, sub *models.Submission, field string) (bool, float64, error) {
	name := ""
	if sub.BusinessName != nil {
		name = *sub.BusinessName
	}
	if name == "" {
		return false, 0, nil // 没有名称无法检索登记信息
	}

	record, err := a.companies.SearchCompany(ctx, name, "")
	if err != nil {
		return false, 0, err
	}
	if record == nil || record.Confidence < a.minConfidence {
		return false, 0, nil
	}

	switch field {
	case "business_name":
		sub.BusinessName = models.StringPtr(record.CompanyName)
	case "business_address":
		if record.Address == "" {
			return false, 0, nil
		}
		sub.BusinessAddress = models.StringPtr(record.Address)
	case "years_in_business":
		if record.YearsInBusiness <= 0 {
			return false, 0, nil
		}
		sub.YearsInBusiness = models.IntPtr(record.YearsInBusiness)
	}
	return true, record.Confidence, nil
}

// enrichNAICSCode 补全或修正NAICS代码：已有代码先校验，未收录时从名称推断
func (a *Agent) enrichNAICSCode(ctx context.Context, sub *models.Submission) (bool, float64, error) {
	if sub.NAICSCode != nil && *sub.NAICSCode != "" {
		record, err := a.naics.ValidateNAICS(ctx, *sub.NAICSCode)
		if err != nil {
			return false, 0, err
		}
		if record != nil && record.Confidence >= a.minConfidence {
			sub.NAICSCode = models.StringPtr(record.Code)
			return true, record.Confidence, nil
		}
	}

	name := ""
	if sub.BusinessName != nil {
		name = *sub.BusinessName
	}
	if name == "" {
		return false, 0, nil
	}

	record, err := a.naics.InferNAICSFromName(ctx, name)
	if err != nil {
		return false, 0, err
	}
	if record == nil || record.Confidence < a.minConfidence {
		return false, 0, nil
	}

	sub.NAICSCode = models.StringPtr(record.Code)
	return true, record.Confidence, nil
}
