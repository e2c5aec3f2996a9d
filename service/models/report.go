/*
 * @module service/models/report
 * @description 质量校验结果模型，包含单项检查结果、质量报告、富化建议和异常检测结果
 * @architecture 数据模型层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 规则评估 -> 检查结果 -> 评分聚合 -> 质量报告
 * @rules 检查结果由评估器创建后不再修改；报告每次校验重新构造，返回后不可变
 * @dependencies time, strings
 * @refs service/quality/, service/processor/
 */

package models

import (
	"strings"
	"time"
)

// Severity 校验严重级别
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ParseSeverity 解析契约声明的严重级别，error之外一律按warning处理
func ParseSeverity(s string) Severity {
	if strings.EqualFold(s, string(SeverityError)) {
		return SeverityError
	}
	return SeverityWarning
}

// ValidationResult 单项质量检查结果
type ValidationResult struct {
	RuleID        string   `json:"rule_id"`
	RuleName      string   `json:"rule_name"`
	Passed        bool     `json:"passed"`
	Severity      Severity `json:"severity"`
	FieldNames    []string `json:"field_names,omitempty"`
	ExpectedValue string   `json:"expected_value,omitempty"`
	ActualValue   string   `json:"actual_value,omitempty"`
	ErrorMessage  string   `json:"error_message,omitempty"`
}

// FieldNameLabel 字段名展示文本，多字段规则用逗号连接
func (r *ValidationResult) FieldNameLabel() string {
	return strings.Join(r.FieldNames, ", ")
}

// ReportSummary 质量报告汇总计数
// errors/warnings 只统计未通过的检查；未通过的info级检查计入failed_checks
// 但不计入errors或warnings
type ReportSummary struct {
	TotalChecks  int `json:"total_checks"`
	PassedChecks int `json:"passed_checks"`
	FailedChecks int `json:"failed_checks"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
}

// EnrichmentSuggestion 富化建议，fields_provided 仅保留与失败字段的交集
type EnrichmentSuggestion struct {
	Source              string   `json:"source"`
	APIEndpoint         string   `json:"api_endpoint"`
	FieldsProvided      []string `json:"fields_provided"`
	Cost                float64  `json:"cost"`
	ConfidenceThreshold float64  `json:"confidence_threshold"`
}

// QualityReport 质量校验报告，校验器的唯一输出
type QualityReport struct {
	CompletenessScore     float64                `json:"completeness_score"`
	ConsistencyScore      float64                `json:"consistency_score"`
	OverallQualityScore   float64                `json:"overall_quality_score"`
	ValidationResults     []ValidationResult     `json:"validation_results"`
	EnrichmentSuggestions []EnrichmentSuggestion `json:"enrichment_suggestions"`
	Summary               ReportSummary          `json:"summary"`
}

// AnomalyResult 统计异常检测结果
type AnomalyResult struct {
	SubmissionID      string  `json:"submission_id"`
	AnomalyType       string  `json:"anomaly_type"`
	ConfidenceScore   float64 `json:"confidence_score"`
	Severity          string  `json:"severity"` // low, medium, high, critical
	Explanation       string  `json:"explanation"`
	RecommendedAction string  `json:"recommended_action"`
}

// ProcessingResult 流水线处理结果
type ProcessingResult struct {
	SubmissionID      string    `json:"submission_id"`
	QualityScore      float64   `json:"quality_score"`
	CompletenessScore float64   `json:"completeness_score"`
	ConsistencyScore  float64   `json:"consistency_score"`
	EnrichmentApplied bool      `json:"enrichment_applied"`
	AnomaliesDetected []string  `json:"anomalies_detected"`
	ProcessingTimeMs  int64     `json:"processing_time_ms"`
	AgentDecisions    JSONB     `json:"agent_decisions,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}
