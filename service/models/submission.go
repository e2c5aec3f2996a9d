/*
 * @module service/models/submission
 * @description ACORD投保申请数据模型，包含企业基本信息、财务信息和投保需求
 * @architecture 数据模型层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow XML解析 -> 质量校验 -> 富化 -> 持久化
 * @rules 可空字段使用指针类型，缺失值与占位值区分；记录一经构造不再被校验器修改
 * @dependencies gorm.io/gorm, github.com/shopspring/decimal, github.com/google/uuid
 * @refs service/parser/, service/quality/
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Submission ACORD 103 商业保险投保申请记录
// 必填字段由上游解析器保证类型正确；质量校验器只读访问
type Submission struct {
	SubmissionID          string           `gorm:"type:varchar(50);primaryKey" json:"submission_id"`
	AcordSubmissionNumber *string          `gorm:"type:varchar(50)" json:"acord_submission_number,omitempty"`
	BusinessName          *string          `gorm:"type:varchar(200)" json:"business_name,omitempty"`
	NAICSCode             *string          `gorm:"type:varchar(10)" json:"naics_code,omitempty"`
	AnnualRevenue         *decimal.Decimal `gorm:"type:decimal(15,2)" json:"annual_revenue,omitempty"`
	EmployeeCount         *int             `json:"employee_count,omitempty"`
	YearsInBusiness       *int             `json:"years_in_business,omitempty"`
	BusinessAddress       *string          `gorm:"type:varchar(500)" json:"business_address,omitempty"`
	RequestedCoverageTypes *string         `gorm:"type:varchar(200)" json:"requested_coverage_types,omitempty"`
	RequestedLimits       *string          `gorm:"type:varchar(200)" json:"requested_limits,omitempty"`
	SubmissionDate        *time.Time       `json:"submission_date,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// TableName 指定表名
func (Submission) TableName() string {
	return "submissions"
}

// BeforeCreate 创建前钩子
func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.SubmissionID == "" {
		s.SubmissionID = uuid.New().String()
	}
	return nil
}

// Clone 返回记录的深拷贝，富化代理在副本上写入，原记录保持不变
func (s *Submission) Clone() *Submission {
	if s == nil {
		return nil
	}
	clone := *s
	clone.AcordSubmissionNumber = cloneString(s.AcordSubmissionNumber)
	clone.BusinessName = cloneString(s.BusinessName)
	clone.NAICSCode = cloneString(s.NAICSCode)
	clone.BusinessAddress = cloneString(s.BusinessAddress)
	clone.RequestedCoverageTypes = cloneString(s.RequestedCoverageTypes)
	clone.RequestedLimits = cloneString(s.RequestedLimits)
	if s.AnnualRevenue != nil {
		v := *s.AnnualRevenue
		clone.AnnualRevenue = &v
	}
	if s.EmployeeCount != nil {
		v := *s.EmployeeCount
		clone.EmployeeCount = &v
	}
	if s.YearsInBusiness != nil {
		v := *s.YearsInBusiness
		clone.YearsInBusiness = &v
	}
	if s.SubmissionDate != nil {
		v := *s.SubmissionDate
		clone.SubmissionDate = &v
	}
	return &clone
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// StringPtr 构造字符串指针，便于测试和解析器赋值
func StringPtr(v string) *string {
	return &v
}

// IntPtr 构造整型指针
func IntPtr(v int) *int {
	return &v
}

// DecimalPtr 构造定点数指针
func DecimalPtr(v decimal.Decimal) *decimal.Decimal {
	return &v
}

// TimePtr 构造时间指针
func TimePtr(v time.Time) *time.Time {
	return &v
}
