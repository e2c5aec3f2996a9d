/*
 * @module service/database/report_store_test
 * @description 质量结果存储单元测试，基于sqlite内存库
 * @architecture 测试层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 内存库迁移 -> 落库 -> 查询断言
 * @rules 覆盖报告事务落库、投保申请upsert、分页查询和汇总统计
 * @dependencies github.com/stretchr/testify/assert, testutil
 * @refs report_store.go
 */

package database

import (
	"testing"
	"time"

	"submission-quality-service/service/models"
	"submission-quality-service/testutil"

	"github.com/stretchr/testify/assert"
)

func newStore(t *testing.T) (*ReportStore, *testutil.TestDataFactory) {
	t.Helper()
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	return NewReportStore(tdb.DB), testutil.NewTestDataFactory(tdb.DB)
}

func sampleReport() *models.QualityReport {
	return &models.QualityReport{
		CompletenessScore:   1.0,
		ConsistencyScore:    0.67,
		OverallQualityScore: 0.87,
		ValidationResults: []models.ValidationResult{
			{RuleID: "REQ-BUSINESS_NAME", RuleName: "必填字段: 企业名称", Passed: true,
				Severity: models.SeverityInfo, FieldNames: []string{"business_name"}},
			{RuleID: "CONS-001", RuleName: "营收与员工数一致性", Passed: false,
				Severity: models.SeverityWarning, FieldNames: []string{"annual_revenue", "employee_count"},
				ErrorMessage: "营收与员工数不成比例"},
		},
		EnrichmentSuggestions: []models.EnrichmentSuggestion{
			{Source: "opencorporates", FieldsProvided: []string{"business_name"}, Cost: 0.05},
		},
		Summary: models.ReportSummary{TotalChecks: 2, PassedChecks: 1, FailedChecks: 1, Warnings: 1},
	}
}

func TestReportStore_SaveAndGetReport(t *testing.T) {
	store, factory := newStore(t)
	sub := factory.CreateSubmission()

	record, err := store.SaveReport(sub.SubmissionID, "1.0.0", sampleReport())
	assert.NoError(t, err)
	assert.NotEmpty(t, record.ID)

	loaded, err := store.GetLatestReport(sub.SubmissionID)
	assert.NoError(t, err)
	assert.Equal(t, record.ID, loaded.ID)
	assert.Equal(t, "1.0.0", loaded.ContractVersion)
	assert.Equal(t, 0.87, loaded.OverallQualityScore)
	assert.Equal(t, 2, loaded.TotalChecks)
	assert.Equal(t, 1, loaded.FailedChecks)
	assert.Equal(t, 1, loaded.WarningCount)
	assert.Zero(t, loaded.ErrorCount)
}

func TestReportStore_ChecksPersistedWithReport(t *testing.T) {
	store, factory := newStore(t)
	sub := factory.CreateSubmission()

	record, err := store.SaveReport(sub.SubmissionID, "1.0.0", sampleReport())
	assert.NoError(t, err)

	checks, err := store.ListChecks(record.ID)
	assert.NoError(t, err)
	assert.Len(t, checks, 2)

	byRule := make(map[string]models.QualityCheckRecord, len(checks))
	for _, c := range checks {
		byRule[c.RuleID] = c
	}

	req := byRule["REQ-BUSINESS_NAME"]
	assert.Equal(t, "required_field", req.RuleCategory)
	assert.True(t, req.Passed)
	assert.Equal(t, models.JSONBStringArray{"business_name"}, req.FieldNames)

	cons := byRule["CONS-001"]
	assert.Equal(t, "consistency_check", cons.RuleCategory)
	assert.False(t, cons.Passed)
	assert.Equal(t, "warning", cons.Severity)
	assert.Equal(t, sub.SubmissionID, cons.SubmissionID)
}

func TestReportStore_GetLatestReportPicksNewest(t *testing.T) {
	store, factory := newStore(t)
	sub := factory.CreateSubmission()

	older := factory.CreateReportRecord(sub.SubmissionID, func(r *models.QualityReportRecord) {
		r.OverallQualityScore = 0.5
		r.CreatedAt = time.Now().Add(-time.Hour)
	})
	newer := factory.CreateReportRecord(sub.SubmissionID, func(r *models.QualityReportRecord) {
		r.OverallQualityScore = 0.9
	})

	loaded, err := store.GetLatestReport(sub.SubmissionID)
	assert.NoError(t, err)
	assert.Equal(t, newer.ID, loaded.ID)
	assert.NotEqual(t, older.ID, loaded.ID)
}

func TestReportStore_ListRecentReports(t *testing.T) {
	store, factory := newStore(t)
	sub := factory.CreateSubmission()

	factory.CreateReportRecord(sub.SubmissionID, func(r *models.QualityReportRecord) {
		r.OverallQualityScore = 0.5
		r.CreatedAt = time.Now().Add(-time.Hour)
	})
	newest := factory.CreateReportRecord(sub.SubmissionID, func(r *models.QualityReportRecord) {
		r.OverallQualityScore = 0.9
	})

	reports, total, err := store.ListRecentReports(10, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, reports, 2)
	assert.Equal(t, newest.ID, reports[0].ID)

	// 分页只返回第二条
	reports, total, err = store.ListRecentReports(1, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, reports, 1)
	assert.NotEqual(t, newest.ID, reports[0].ID)
}

func TestReportStore_SaveSubmissionUpsert(t *testing.T) {
	store, factory := newStore(t)
	sub := factory.CreateSubmission()

	updated := sub.Clone()
	updated.BusinessName = models.StringPtr("Acme Software Solutions (Updated)")

	assert.NoError(t, store.SaveSubmission(updated))

	loaded, err := store.GetSubmission(sub.SubmissionID)
	assert.NoError(t, err)
	assert.Equal(t, "Acme Software Solutions (Updated)", *loaded.BusinessName)
}

func TestReportStore_GetSubmissionNotFound(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.GetSubmission("no-such-id")
	assert.Error(t, err)
}

func TestReportStore_ProcessingResults(t *testing.T) {
	store, factory := newStore(t)
	sub := factory.CreateSubmission()

	result := &models.ProcessingResult{
		SubmissionID:      sub.SubmissionID,
		QualityScore:      0.87,
		CompletenessScore: 1.0,
		ConsistencyScore:  0.67,
		EnrichmentApplied: true,
		AnomaliesDetected: []string{"unusual_submission_time"},
		ProcessingTimeMs:  42,
		AgentDecisions:    models.JSONB{"decision_log": []interface{}{"已富化 naics_code"}},
		Timestamp:         time.Now(),
	}
	assert.NoError(t, store.SaveProcessingResult(result))

	records, total, err := store.ListProcessingResults(10, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, records, 1)
	assert.Equal(t, sub.SubmissionID, records[0].SubmissionID)
	assert.True(t, records[0].EnrichmentApplied)
	assert.Equal(t, models.JSONBStringArray{"unusual_submission_time"}, records[0].AnomaliesDetected)
}

func TestReportStore_QualityStats(t *testing.T) {
	store, factory := newStore(t)
	sub := factory.CreateSubmission()

	factory.CreateReportRecord(sub.SubmissionID, func(r *models.QualityReportRecord) {
		r.OverallQualityScore = 1.0
	})
	factory.CreateReportRecord(sub.SubmissionID, func(r *models.QualityReportRecord) {
		r.OverallQualityScore = 0.6
	})

	stats, err := store.GetQualityStats()
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalReports)
	assert.InDelta(t, 0.8, stats.AvgOverallScore, 0.001)
	assert.Equal(t, int64(1), stats.LowQualityCount)
	assert.Equal(t, int64(1), stats.FullQualityCount)
}

func TestReportStore_QualityStatsEmpty(t *testing.T) {
	store, _ := newStore(t)

	stats, err := store.GetQualityStats()
	assert.NoError(t, err)
	assert.Zero(t, stats.TotalReports)
	assert.Zero(t, stats.AvgOverallScore)
}
