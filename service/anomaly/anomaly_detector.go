/*
 * @module service/anomaly/anomaly_detector
 * @description 投保申请统计异常筛查器，基于启发式规则检测离群值、时间模式与业务逻辑异常
 * @architecture 分层架构 - 业务代理层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 记录与质量报告输入 -> 数值离群筛查 -> 提交时间筛查 -> 业务规则筛查 -> 置信度过滤
 * @rules 筛查纯内存计算，确定性输出；低于置信度阈值的异常过滤不上报；
 *        操作数缺失的筛查项直接跳过，不产生异常
 * @dependencies service/models, github.com/spf13/cast, log/slog
 * @refs service/processor/stream_processor.go
 */

package anomaly

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"submission-quality-service/service/models"

	"github.com/spf13/cast"
)

// 异常类型标识
const (
	AnomalyStatisticalRevenue   = "statistical_outlier_annual_revenue"
	AnomalyStatisticalEmployees = "statistical_outlier_employee_count"
	AnomalyStatisticalYears     = "statistical_outlier_years_in_business"
	AnomalyUnusualTime          = "unusual_submission_time"
	AnomalyIndustryPattern      = "unusual_industry_pattern"
	AnomalyLowQualityScore      = "low_quality_score"
)

const defaultConfidenceThreshold = 0.7

// 数值特征的极端区间边界
const (
	revenueExtremeHigh   = 100000000
	revenueExtremeLow    = 50000
	employeesExtremeHigh = 1000
	employeesExtremeLow  = 2
	yearsExtremeHigh     = 100
)

// Detector 统计异常筛查器
type Detector struct {
	confidenceThreshold float64
}

// NewDetector 创建筛查器，置信度阈值从环境变量ANOMALY_CONFIDENCE_THRESHOLD读取
func NewDetector() *Detector {
	threshold := defaultConfidenceThreshold
	if raw := os.Getenv("ANOMALY_CONFIDENCE_THRESHOLD"); raw != "" {
		if parsed, err := cast.ToFloat64E(raw); err == nil && parsed > 0 && parsed <= 1 {
			threshold = parsed
		} else {
			slog.Warn("ANOMALY_CONFIDENCE_THRESHOLD 配置非法，使用默认阈值", "value", raw)
		}
	}
	return &Detector{confidenceThreshold: threshold}
}

// DetectAnomalies 对单条记录执行全部异常筛查
// 返回置信度达到阈值的异常列表，无异常时返回空列表
func (d *Detector) DetectAnomalies(sub *models.Submission, report *models.QualityReport) []models.AnomalyResult {
	anomalies := make([]models.AnomalyResult, 0)

	anomalies = append(anomalies, d.detectStatisticalOutliers(sub)...)
	anomalies = append(anomalies, d.detectPatternAnomalies(sub)...)
	anomalies = append(anomalies, d.detectBusinessAnomalies(sub, report)...)

	filtered := anomalies[:0]
	for _, a := range anomalies {
		if a.ConfidenceScore >= d.confidenceThreshold {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// detectStatisticalOutliers 数值特征极端区间筛查
func (d *Detector) detectStatisticalOutliers(sub *models.Submission) []models.AnomalyResult {
	anomalies := make([]models.AnomalyResult, 0)

	if sub.AnnualRevenue != nil {
		revenue := sub.AnnualRevenue.InexactFloat64()
		if revenue > revenueExtremeHigh || revenue < revenueExtremeLow {
			anomalies = append(anomalies, d.statisticalAnomaly(sub, AnomalyStatisticalRevenue, 0.8,
				"年营收处于统计极端区间，与同类企业显著偏离",
				"与投保人核实年营收数据"))
		}
	}

	if sub.EmployeeCount != nil {
		employees := *sub.EmployeeCount
		if employees > employeesExtremeHigh || employees < employeesExtremeLow {
			anomalies = append(anomalies, d.statisticalAnomaly(sub, AnomalyStatisticalEmployees, 0.75,
				"员工数处于统计极端区间，与同类企业显著偏离",
				"与投保人核实员工数数据"))
		}
	}

	if sub.YearsInBusiness != nil {
		years := *sub.YearsInBusiness
		if years > yearsExtremeHigh || years == 0 {
			anomalies = append(anomalies, d.statisticalAnomaly(sub, AnomalyStatisticalYears, 0.7,
				"经营年限处于统计极端区间，与同类企业显著偏离",
				"与投保人核实经营年限数据"))
		}
	}

	return anomalies
}

// detectPatternAnomalies 提交时间与行业规模模式筛查
func (d *Detector) detectPatternAnomalies(sub *models.Submission) []models.AnomalyResult {
	anomalies := make([]models.AnomalyResult, 0)

	if sub.SubmissionDate != nil && isUnusualSubmissionTime(*sub.SubmissionDate) {
		anomalies = append(anomalies, models.AnomalyResult{
			SubmissionID:      sub.SubmissionID,
			AnomalyType:       AnomalyUnusualTime,
			ConfidenceScore:   0.8,
			Severity:          "medium",
			Explanation:       "提交时间在正常营业时段之外",
			RecommendedAction: "排查是否为自动化批量提交",
		})
	}

	if isUnusualIndustryPattern(sub) {
		anomalies = append(anomalies, models.AnomalyResult{
			SubmissionID:      sub.SubmissionID,
			AnomalyType:       AnomalyIndustryPattern,
			ConfidenceScore:   0.85,
			Severity:          "high",
			Explanation:       "企业规模与营收组合偏离该行业典型模式",
			RecommendedAction: "核实NAICS行业代码准确性",
		})
	}

	return anomalies
}

// detectBusinessAnomalies 业务逻辑筛查，目前只有质量评分异常低一项
func (d *Detector) detectBusinessAnomalies(sub *models.Submission, report *models.QualityReport) []models.AnomalyResult {
	if report == nil || report.OverallQualityScore >= 0.5 {
		return nil
	}

	return []models.AnomalyResult{{
		SubmissionID:      sub.SubmissionID,
		AnomalyType:       AnomalyLowQualityScore,
		ConfidenceScore:   0.9,
		Severity:          "high",
		Explanation:       fmt.Sprintf("质量评分 %.2f 异常偏低", report.OverallQualityScore),
		RecommendedAction: "排查记录的数据质量问题",
	}}
}

func (d *Detector) statisticalAnomaly(sub *models.Submission, anomalyType string, score float64, explanation, action string) models.AnomalyResult {
	return models.AnomalyResult{
		SubmissionID:      sub.SubmissionID,
		AnomalyType:       anomalyType,
		ConfidenceScore:   score,
		Severity:          severityForScore(score),
		Explanation:       explanation,
		RecommendedAction: action,
	}
}

// severityForScore 置信度到严重级别的映射
func severityForScore(score float64) string {
	switch {
	case score >= 0.9:
		return "critical"
	case score >= 0.8:
		return "high"
	case score >= 0.7:
		return "medium"
	default:
		return "low"
	}
}

// isUnusualSubmissionTime 周末或工作日9:00-17:00之外视为非常规提交时间
func isUnusualSubmissionTime(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	hour := t.Hour()
	return hour < 9 || hour >= 17
}

// isUnusualIndustryPattern 规模与营收组合异常：极小企业高营收或超大企业低营收
func isUnusualIndustryPattern(sub *models.Submission) bool {
	if sub.EmployeeCount == nil || sub.AnnualRevenue == nil {
		return false
	}

	employees := *sub.EmployeeCount
	revenue := sub.AnnualRevenue.InexactFloat64()

	if employees < 5 && revenue > 10000000 {
		return true
	}
	if employees > 500 && revenue < 1000000 {
		return true
	}
	return false
}
