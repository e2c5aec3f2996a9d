/*
 * @module service/quality/validator
 * @description 投保申请质量校验器门面，组合字段规则评估、一致性评估、评分和富化建议
 * @architecture 分层架构 - 质量校验层
 * @documentReference ai_docs/submission_quality_req.md, contracts/submission_quality_rules.yml
 * @stateFlow 记录输入 -> 必填字段评估 -> 一致性评估 -> 评分聚合 -> 富化建议 -> 质量报告
 * @rules 校验过程纯内存计算，无I/O无共享可变状态，同一实例可被多goroutine并发调用；
 *        单条规则的失败只体现为检查结果，绝不作为错误向调用方传播
 * @dependencies service/contract, service/models
 * @refs field_rules.go, consistency_rules.go, scorer.go, enrichment.go
 */

package quality

import (
	"submission-quality-service/service/contract"
	"submission-quality-service/service/models"
)

// SubmissionValidator 投保申请质量校验器
// 契约在构造时加载一次，实例持有的契约视为不可变
type SubmissionValidator struct {
	contract *models.QualityRulesContract
	registry *ConsistencyRegistry
}

// NewSubmissionValidator 从契约加载器构造校验器
// 契约缺少必要段时在此失败，不会产生半初始化的校验器
func NewSubmissionValidator(loader *contract.Loader) (*SubmissionValidator, error) {
	rules, err := loader.QualityRules()
	if err != nil {
		return nil, err
	}
	return NewSubmissionValidatorWithContract(rules), nil
}

// NewSubmissionValidatorWithContract 用已加载的契约构造校验器，便于测试注入不同契约
func NewSubmissionValidatorWithContract(rules *models.QualityRulesContract) *SubmissionValidator {
	return &SubmissionValidator{
		contract: rules,
		registry: NewConsistencyRegistry(),
	}
}

// Contract 返回校验器持有的契约（只读）
func (v *SubmissionValidator) Contract() *models.QualityRulesContract {
	return v.contract
}

// Registry 返回一致性规则注册表，调用方可在启动期注册自定义规则
func (v *SubmissionValidator) Registry() *ConsistencyRegistry {
	return v.registry
}

// ValidateSubmission 对单条记录执行全部质量检查并返回完整报告
// 任何语法上可接受的记录都会得到完整报告，即便所有检查都失败
func (v *SubmissionValidator) ValidateSubmission(sub *models.Submission) *models.QualityReport {
	requiredResults := EvaluateRequiredFields(sub, v.contract)
	consistencyResults := EvaluateConsistency(sub, v.contract, v.registry)

	report := Score(requiredResults, consistencyResults)
	report.EnrichmentSuggestions = SuggestEnrichment(report.ValidationResults, v.contract)

	observeReport(report)
	return report
}
