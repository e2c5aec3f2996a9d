/*
 * @module service/quality/metrics
 * @description 质量校验Prometheus指标，暴露校验次数、失败检查数和评分分布
 * @architecture 监控层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 校验完成 -> 指标观测 -> /metrics拉取
 * @rules 指标注册在包初始化时完成一次
 * @dependencies github.com/prometheus/client_golang/prometheus
 * @refs validator.go, main.go
 */

package quality

import (
	"submission-quality-service/service/models"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	validationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "submission_validations_total",
		Help: "已执行的投保申请质量校验总数",
	})

	checkFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "submission_check_failures_total",
		Help: "按严重级别统计的未通过检查总数",
	}, []string{"severity"})

	qualityScoreHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "submission_quality_score",
		Help:    "综合质量评分分布",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})
)

func init() {
	prometheus.MustRegister(validationsTotal, checkFailuresTotal, qualityScoreHistogram)
}

// observeReport 记录单次校验的指标
func observeReport(report *models.QualityReport) {
	validationsTotal.Inc()
	qualityScoreHistogram.Observe(report.OverallQualityScore)

	for i := range report.ValidationResults {
		r := &report.ValidationResults[i]
		if !r.Passed {
			checkFailuresTotal.WithLabelValues(string(r.Severity)).Inc()
		}
	}
}
