/*
 * @module service/quality/accessor
 * @description 记录字段访问器表，契约字段名到强类型取值闭包的静态映射
 * @architecture 分层架构 - 质量校验层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 契约字段名 -> 访问器查表 -> (值, 是否存在)
 * @rules 不使用反射按名取值；契约引用了访问器表之外的字段时按缺失处理，不允许崩溃
 * @dependencies github.com/spf13/cast, github.com/shopspring/decimal
 * @refs field_rules.go, consistency_rules.go
 */

package quality

import (
	"fmt"
	"time"

	"submission-quality-service/service/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// fieldAccessor 返回记录中某字段的值及其是否存在
type fieldAccessor func(*models.Submission) (interface{}, bool)

// fieldAccessors 字段访问器表，启动时构建一次
// 契约中的字段名必须在此注册才能参与必填校验和消息插值
var fieldAccessors = map[string]fieldAccessor{
	"submission_id": func(s *models.Submission) (interface{}, bool) {
		return s.SubmissionID, s.SubmissionID != ""
	},
	"acord_submission_number": func(s *models.Submission) (interface{}, bool) {
		return deref(s.AcordSubmissionNumber)
	},
	"business_name": func(s *models.Submission) (interface{}, bool) {
		return deref(s.BusinessName)
	},
	"naics_code": func(s *models.Submission) (interface{}, bool) {
		return deref(s.NAICSCode)
	},
	"annual_revenue": func(s *models.Submission) (interface{}, bool) {
		if s.AnnualRevenue == nil {
			return nil, false
		}
		return *s.AnnualRevenue, true
	},
	"employee_count": func(s *models.Submission) (interface{}, bool) {
		if s.EmployeeCount == nil {
			return nil, false
		}
		return *s.EmployeeCount, true
	},
	"years_in_business": func(s *models.Submission) (interface{}, bool) {
		if s.YearsInBusiness == nil {
			return nil, false
		}
		return *s.YearsInBusiness, true
	},
	"business_address": func(s *models.Submission) (interface{}, bool) {
		return deref(s.BusinessAddress)
	},
	"requested_coverage_types": func(s *models.Submission) (interface{}, bool) {
		return deref(s.RequestedCoverageTypes)
	},
	"requested_limits": func(s *models.Submission) (interface{}, bool) {
		return deref(s.RequestedLimits)
	},
	"submission_date": func(s *models.Submission) (interface{}, bool) {
		if s.SubmissionDate == nil {
			return nil, false
		}
		return *s.SubmissionDate, true
	},
}

func deref(p *string) (interface{}, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

// lookupField 查找字段值
// 返回值依次为: 字段值、值是否存在、字段是否在访问器表中注册
func lookupField(s *models.Submission, field string) (interface{}, bool, bool) {
	accessor, known := fieldAccessors[field]
	if !known {
		return nil, false, false
	}
	value, present := accessor(s)
	return value, present, true
}

// formatFieldValue 字段值的展示文本
func formatFieldValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case decimal.Decimal:
		return v.String()
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return cast.ToString(v)
	}
}

// numericValue 字段值到float64的转换，用于range检查和表达式规则
func numericValue(value interface{}) (float64, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v.InexactFloat64(), nil
	default:
		f, err := cast.ToFloat64E(value)
		if err != nil {
			return 0, fmt.Errorf("值 %v 无法转换为数值: %w", value, err)
		}
		return f, nil
	}
}
