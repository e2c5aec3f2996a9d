/*
 * @module service/models/quality_records
 * @description 质量校验持久化模型，包含质量报告记录和单项检查事实记录
 * @architecture 数据模型层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 质量校验 -> 报告落库 -> 看板与下游分析查询
 * @rules 报告记录与检查记录按submission_id关联，检查记录保留契约rule_id便于回溯
 * @dependencies gorm.io/gorm, github.com/google/uuid, time
 * @refs service/database/, service/quality/
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QualityReportRecord 质量报告持久化记录
type QualityReportRecord struct {
	ID                    string           `gorm:"type:varchar(50);primaryKey" json:"id"`
	SubmissionID          string           `gorm:"type:varchar(50);not null;index" json:"submission_id"`
	ContractVersion       string           `gorm:"type:varchar(20)" json:"contract_version"`
	CompletenessScore     float64          `json:"completeness_score"`
	ConsistencyScore      float64          `json:"consistency_score"`
	OverallQualityScore   float64          `json:"overall_quality_score"`
	TotalChecks           int              `json:"total_checks"`
	PassedChecks          int              `json:"passed_checks"`
	FailedChecks          int              `json:"failed_checks"`
	ErrorCount            int              `json:"error_count"`
	WarningCount          int              `json:"warning_count"`
	EnrichmentSuggestions JSONB            `gorm:"type:jsonb" json:"enrichment_suggestions,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
}

// TableName 指定表名
func (QualityReportRecord) TableName() string {
	return "quality_reports"
}

// BeforeCreate 创建前钩子
func (r *QualityReportRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// QualityCheckRecord 单项质量检查事实记录
type QualityCheckRecord struct {
	ID            string           `gorm:"type:varchar(50);primaryKey" json:"id"`
	ReportID      string           `gorm:"type:varchar(50);not null;index" json:"report_id"`
	SubmissionID  string           `gorm:"type:varchar(50);not null;index" json:"submission_id"`
	RuleID        string           `gorm:"type:varchar(50);not null" json:"rule_id"`
	RuleName      string           `gorm:"type:varchar(200)" json:"rule_name"`
	RuleCategory  string           `gorm:"type:varchar(50)" json:"rule_category"` // required_field, consistency_check
	Severity      string           `gorm:"type:varchar(20)" json:"severity"`
	Passed        bool             `json:"passed"`
	FieldNames    JSONBStringArray `gorm:"type:jsonb" json:"field_names,omitempty"`
	ExpectedValue string           `gorm:"type:varchar(500)" json:"expected_value,omitempty"`
	ActualValue   string           `gorm:"type:varchar(500)" json:"actual_value,omitempty"`
	ErrorMessage  string           `gorm:"type:text" json:"error_message,omitempty"`
	CheckedAt     time.Time        `json:"checked_at"`
}

// TableName 指定表名
func (QualityCheckRecord) TableName() string {
	return "quality_checks"
}

// BeforeCreate 创建前钩子
func (c *QualityCheckRecord) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// ProcessingResultRecord 流水线处理结果持久化记录
type ProcessingResultRecord struct {
	ID                string           `gorm:"type:varchar(50);primaryKey" json:"id"`
	SubmissionID      string           `gorm:"type:varchar(50);not null;index" json:"submission_id"`
	QualityScore      float64          `json:"quality_score"`
	CompletenessScore float64          `json:"completeness_score"`
	ConsistencyScore  float64          `json:"consistency_score"`
	EnrichmentApplied bool             `json:"enrichment_applied"`
	AnomaliesDetected JSONBStringArray `gorm:"type:jsonb" json:"anomalies_detected,omitempty"`
	ProcessingTimeMs  int64            `json:"processing_time_ms"`
	AgentDecisions    JSONB            `gorm:"type:jsonb" json:"agent_decisions,omitempty"`
	ProcessedAt       time.Time        `json:"processed_at"`
}

// TableName 指定表名
func (ProcessingResultRecord) TableName() string {
	return "processing_results"
}

// BeforeCreate 创建前钩子
func (p *ProcessingResultRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
