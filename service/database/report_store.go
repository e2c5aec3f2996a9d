/*
 * @module service/database/report_store
 * @description 质量结果存储，负责投保申请、质量报告、检查事实与处理结果的落库和查询
 * @architecture 数据访问层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 流水线处理完成 -> 事务落库 -> 看板与API查询
 * @rules 报告与检查记录在同一事务内写入；重复处理同一记录时投保申请按upsert处理
 * @dependencies gorm.io/gorm, gorm.io/gorm/clause
 * @refs service/processor/, api/controllers/
 */

package database

import (
	"fmt"
	"strings"
	"time"

	"submission-quality-service/service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportStore 质量结果存储
type ReportStore struct {
	db *gorm.DB
}

// NewReportStore 创建存储实例
func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

// DB 返回底层数据库连接，供健康检查使用
func (s *ReportStore) DB() *gorm.DB {
	return s.db
}

// SaveSubmission 保存投保申请记录，主键冲突时更新全部字段
func (s *ReportStore) SaveSubmission(sub *models.Submission) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "submission_id"}},
		UpdateAll: true,
	}).Create(sub).Error
}

// SaveReport 保存质量报告及全部检查事实，同一事务内完成
func (s *ReportStore) SaveReport(submissionID, contractVersion string, report *models.QualityReport) (*models.QualityReportRecord, error) {
	record := &models.QualityReportRecord{
		SubmissionID:        submissionID,
		ContractVersion:     contractVersion,
		CompletenessScore:   report.CompletenessScore,
		ConsistencyScore:    report.ConsistencyScore,
		OverallQualityScore: report.OverallQualityScore,
		TotalChecks:         report.Summary.TotalChecks,
		PassedChecks:        report.Summary.PassedChecks,
		FailedChecks:        report.Summary.FailedChecks,
		ErrorCount:          report.Summary.Errors,
		WarningCount:        report.Summary.Warnings,
		CreatedAt:           time.Now(),
	}

	if len(report.EnrichmentSuggestions) > 0 {
		record.EnrichmentSuggestions = models.JSONB{"suggestions": report.EnrichmentSuggestions}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("保存质量报告失败: %w", err)
		}

		checks := make([]models.QualityCheckRecord, 0, len(report.ValidationResults))
		now := time.Now()
		for i := range report.ValidationResults {
			r := &report.ValidationResults[i]
			checks = append(checks, models.QualityCheckRecord{
				ReportID:      record.ID,
				SubmissionID:  submissionID,
				RuleID:        r.RuleID,
				RuleName:      r.RuleName,
				RuleCategory:  ruleCategory(r.RuleID),
				Severity:      string(r.Severity),
				Passed:        r.Passed,
				FieldNames:    models.JSONBStringArray(r.FieldNames),
				ExpectedValue: r.ExpectedValue,
				ActualValue:   r.ActualValue,
				ErrorMessage:  r.ErrorMessage,
				CheckedAt:     now,
			})
		}

		if len(checks) > 0 {
			if err := tx.CreateInBatches(checks, 100).Error; err != nil {
				return fmt.Errorf("保存检查记录失败: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// SaveProcessingResult 保存流水线处理结果
func (s *ReportStore) SaveProcessingResult(result *models.ProcessingResult) error {
	record := &models.ProcessingResultRecord{
		SubmissionID:      result.SubmissionID,
		QualityScore:      result.QualityScore,
		CompletenessScore: result.CompletenessScore,
		ConsistencyScore:  result.ConsistencyScore,
		EnrichmentApplied: result.EnrichmentApplied,
		AnomaliesDetected: models.JSONBStringArray(result.AnomaliesDetected),
		ProcessingTimeMs:  result.ProcessingTimeMs,
		AgentDecisions:    result.AgentDecisions,
		ProcessedAt:       result.Timestamp,
	}
	return s.db.Create(record).Error
}

// GetSubmission 按ID查询投保申请
func (s *ReportStore) GetSubmission(submissionID string) (*models.Submission, error) {
	var sub models.Submission
	if err := s.db.First(&sub, "submission_id = ?", submissionID).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetLatestReport 查询某投保申请最近一次的质量报告
func (s *ReportStore) GetLatestReport(submissionID string) (*models.QualityReportRecord, error) {
	var record models.QualityReportRecord
	err := s.db.Where("submission_id = ?", submissionID).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListChecks 查询某次报告的全部检查事实
func (s *ReportStore) ListChecks(reportID string) ([]models.QualityCheckRecord, error) {
	var checks []models.QualityCheckRecord
	err := s.db.Where("report_id = ?", reportID).
		Order("checked_at ASC, id ASC").
		Find(&checks).Error
	return checks, err
}

// ListRecentReports 分页查询质量报告，按创建时间倒序
func (s *ReportStore) ListRecentReports(limit, offset int) ([]models.QualityReportRecord, int64, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var total int64
	if err := s.db.Model(&models.QualityReportRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.QualityReportRecord
	err := s.db.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&records).Error
	return records, total, err
}

// ListProcessingResults 分页查询处理结果，按处理时间倒序
func (s *ReportStore) ListProcessingResults(limit, offset int) ([]models.ProcessingResultRecord, int64, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var total int64
	if err := s.db.Model(&models.ProcessingResultRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.ProcessingResultRecord
	err := s.db.Order("processed_at DESC").
		Limit(limit).Offset(offset).
		Find(&records).Error
	return records, total, err
}

// QualityStats 质量看板汇总统计
type QualityStats struct {
	TotalReports     int64   `json:"total_reports"`
	AvgOverallScore  float64 `json:"avg_overall_score"`
	LowQualityCount  int64   `json:"low_quality_count"` // overall < 0.8
	FullQualityCount int64   `json:"full_quality_count"`
}

// GetQualityStats 汇总全部质量报告的统计指标
func (s *ReportStore) GetQualityStats() (*QualityStats, error) {
	stats := &QualityStats{}

	model := s.db.Model(&models.QualityReportRecord{})
	if err := model.Count(&stats.TotalReports).Error; err != nil {
		return nil, err
	}
	if stats.TotalReports == 0 {
		return stats, nil
	}

	row := s.db.Model(&models.QualityReportRecord{}).
		Select("AVG(overall_quality_score)").Row()
	if err := row.Scan(&stats.AvgOverallScore); err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.QualityReportRecord{}).
		Where("overall_quality_score < ?", 0.8).
		Count(&stats.LowQualityCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.QualityReportRecord{}).
		Where("overall_quality_score >= ?", 1.0).
		Count(&stats.FullQualityCount).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// ruleCategory 从规则ID推断规则类别
func ruleCategory(ruleID string) string {
	if strings.HasPrefix(ruleID, "CONS-") {
		return "consistency_check"
	}
	return "required_field"
}
