/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试数据库、数据工厂和HTTP断言工具
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, testify, time
 * @refs service/models
 */

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"submission-quality-service/service/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.Submission{},
		&models.QualityReportRecord{},
		&models.QualityCheckRecord{},
		&models.ProcessingResultRecord{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	tables := []string{
		"submissions",
		"quality_reports",
		"quality_checks",
		"processing_results",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// TestDataFactory 测试数据工厂
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory 创建测试数据工厂
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// SubmissionOption 投保申请选项函数类型
type SubmissionOption func(*models.Submission)

// CreateSubmission 创建完整的测试投保申请
func (f *TestDataFactory) CreateSubmission(opts ...SubmissionOption) *models.Submission {
	revenue := decimal.NewFromInt(2500000)
	date := time.Date(2024, 6, 18, 10, 30, 0, 0, time.UTC)
	sub := &models.Submission{
		SubmissionID:           generateID("sub"),
		AcordSubmissionNumber:  models.StringPtr("SUB-" + generateSuffix()),
		BusinessName:           models.StringPtr("Acme Software Solutions LLC"),
		NAICSCode:              models.StringPtr("541511"),
		AnnualRevenue:          &revenue,
		EmployeeCount:          models.IntPtr(18),
		YearsInBusiness:        models.IntPtr(7),
		BusinessAddress:        models.StringPtr("123 Main St, Austin, TX, 78701"),
		RequestedCoverageTypes: models.StringPtr("General Liability"),
		RequestedLimits:        models.StringPtr("$1,000,000 per occurrence"),
		SubmissionDate:         models.TimePtr(date),
		CreatedAt:              time.Now(),
		UpdatedAt:              time.Now(),
	}

	// 应用选项
	for _, opt := range opts {
		opt(sub)
	}

	err := f.DB.Create(sub).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test submission: %v", err))
	}

	return sub
}

// WithMissingFields 构造缺失指定字段的投保申请
func WithMissingFields(fields ...string) SubmissionOption {
	return func(s *models.Submission) {
		for _, field := range fields {
			switch field {
			case "business_name":
				s.BusinessName = nil
			case "naics_code":
				s.NAICSCode = nil
			case "annual_revenue":
				s.AnnualRevenue = nil
			case "employee_count":
				s.EmployeeCount = nil
			case "years_in_business":
				s.YearsInBusiness = nil
			case "business_address":
				s.BusinessAddress = nil
			case "requested_coverage_types":
				s.RequestedCoverageTypes = nil
			case "requested_limits":
				s.RequestedLimits = nil
			case "submission_date":
				s.SubmissionDate = nil
			}
		}
	}
}

// ReportRecordOption 报告记录选项函数类型
type ReportRecordOption func(*models.QualityReportRecord)

// CreateReportRecord 创建测试质量报告记录
func (f *TestDataFactory) CreateReportRecord(submissionID string, opts ...ReportRecordOption) *models.QualityReportRecord {
	record := &models.QualityReportRecord{
		ID:                  generateID("qr"),
		SubmissionID:        submissionID,
		ContractVersion:     "1.0.0",
		CompletenessScore:   1.0,
		ConsistencyScore:    1.0,
		OverallQualityScore: 1.0,
		TotalChecks:         10,
		PassedChecks:        10,
		CreatedAt:           time.Now(),
	}

	// 应用选项
	for _, opt := range opts {
		opt(record)
	}

	err := f.DB.Create(record).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test report record: %v", err))
	}

	return record
}

// 辅助函数
func generateID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixNano(), generateSuffix())
}

func generateSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano()%100000)
}

// HTTPTestHelper HTTP测试辅助工具
type HTTPTestHelper struct{}

// NewHTTPTestHelper 创建HTTP测试辅助工具
func NewHTTPTestHelper() *HTTPTestHelper {
	return &HTTPTestHelper{}
}

// CreateJSONRequest 创建JSON请求
func (h *HTTPTestHelper) CreateJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var reqBody io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// AssertJSONResponse 断言JSON响应
func (h *HTTPTestHelper) AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedBody interface{}) {
	assert.Equal(t, expectedStatus, w.Code)

	if expectedBody != nil {
		var actualBody interface{}
		err := json.Unmarshal(w.Body.Bytes(), &actualBody)
		assert.NoError(t, err)

		expectedJSON, _ := json.Marshal(expectedBody)
		actualJSON, _ := json.Marshal(actualBody)

		assert.JSONEq(t, string(expectedJSON), string(actualJSON))
	}
}
