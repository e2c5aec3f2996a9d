/*
 * @module service/processor/stream_processor
 * @description 投保申请流处理器，串联质量校验、富化、复检、异常筛查、落库与发布
 * @architecture 分层架构 - 编排层，管道模式
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 质量校验 -> 低分富化 -> 富化后复检 -> 异常筛查 -> 结果落库 -> Kafka发布
 * @rules 综合评分低于富化阈值才触发富化；富化成功后必须用同一契约复检；
 *        落库或发布失败记录错误但不丢弃处理结果
 * @dependencies service/quality, service/enrichment, service/anomaly, service/database, service/mq
 * @refs service/mq/mqtt_consumer.go, api/controllers/validation_controller.go
 */

package processor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"submission-quality-service/service/anomaly"
	"submission-quality-service/service/database"
	"submission-quality-service/service/enrichment"
	"submission-quality-service/service/models"
	"submission-quality-service/service/mq"
	"submission-quality-service/service/quality"

	"github.com/spf13/cast"
)

// 综合评分低于该阈值时触发富化
const defaultEnrichmentThreshold = 0.8

// StreamProcessor 单条投保申请的完整处理管道
type StreamProcessor struct {
	validator *quality.SubmissionValidator
	enricher  *enrichment.Agent
	detector  *anomaly.Detector
	store     *database.ReportStore
	publisher mq.ReportPublisher

	enrichmentThreshold float64
}

// NewStreamProcessor 创建流处理器
// store和publisher允许为nil，对应环境下跳过落库或发布
func NewStreamProcessor(
	validator *quality.SubmissionValidator,
	enricher *enrichment.Agent,
	detector *anomaly.Detector,
	store *database.ReportStore,
	publisher mq.ReportPublisher,
) *StreamProcessor {
	threshold := defaultEnrichmentThreshold
	if raw := os.Getenv("ENRICHMENT_SCORE_THRESHOLD"); raw != "" {
		if parsed, err := cast.ToFloat64E(raw); err == nil && parsed > 0 && parsed <= 1 {
			threshold = parsed
		} else {
			slog.Warn("ENRICHMENT_SCORE_THRESHOLD 配置非法，使用默认阈值", "value", raw)
		}
	}

	if publisher == nil {
		publisher = &mq.NoopPublisher{}
	}

	return &StreamProcessor{
		validator:           validator,
		enricher:            enricher,
		detector:            detector,
		store:               store,
		publisher:           publisher,
		enrichmentThreshold: threshold,
	}
}

// ProcessSubmission 执行完整处理管道，返回处理结果与最终质量报告
func (p *StreamProcessor) ProcessSubmission(ctx context.Context, sub *models.Submission) (*models.ProcessingResult, *models.QualityReport, error) {
	start := time.Now()

	// 第一次质量校验
	report := p.validator.ValidateSubmission(sub)

	// 低分记录尝试富化，成功后用同一契约复检
	enrichmentApplied := false
	var decisionLog []string
	finalSub := sub

	if report.OverallQualityScore < p.enrichmentThreshold && p.enricher != nil {
		enriched, outcome, err := p.enricher.EnrichSubmission(ctx, sub, report)
		if err != nil {
			return nil, nil, fmt.Errorf("富化执行失败 [%s]: %w", sub.SubmissionID, err)
		}
		decisionLog = outcome.DecisionLog

		if outcome.Applied {
			finalSub = enriched
			report = p.validator.ValidateSubmission(enriched)
			enrichmentApplied = true
			slog.Info("记录富化后复检完成",
				"submission_id", sub.SubmissionID,
				"enriched_fields", outcome.EnrichedFields,
				"new_score", report.OverallQualityScore)
		}
	}

	// 异常筛查基于最终记录与最终报告
	anomalies := p.detector.DetectAnomalies(finalSub, report)

	result := &models.ProcessingResult{
		SubmissionID:      finalSub.SubmissionID,
		QualityScore:      report.OverallQualityScore,
		CompletenessScore: report.CompletenessScore,
		ConsistencyScore:  report.ConsistencyScore,
		EnrichmentApplied: enrichmentApplied,
		AnomaliesDetected: anomalyTypeList(anomalies),
		ProcessingTimeMs:  time.Since(start).Milliseconds(),
		Timestamp:         time.Now(),
	}
	if len(decisionLog) > 0 || len(anomalies) > 0 {
		result.AgentDecisions = agentDecisions(decisionLog, anomalies)
	}

	p.persistAndPublish(ctx, finalSub, report, result)

	slog.Info("投保申请处理完成",
		"submission_id", finalSub.SubmissionID,
		"quality_score", result.QualityScore,
		"enriched", result.EnrichmentApplied,
		"anomalies", len(result.AnomaliesDetected),
		"elapsed_ms", result.ProcessingTimeMs)

	return result, report, nil
}

// persistAndPublish 落库并发布，失败只记录错误不回传
func (p *StreamProcessor) persistAndPublish(ctx context.Context, sub *models.Submission, report *models.QualityReport, result *models.ProcessingResult) {
	if p.store != nil {
		if err := p.store.SaveSubmission(sub); err != nil {
			slog.Error("投保申请落库失败", "submission_id", sub.SubmissionID, "error", err)
		}
		contractVersion := ""
		if p.validator.Contract() != nil {
			contractVersion = p.validator.Contract().ContractVersion
		}
		if _, err := p.store.SaveReport(sub.SubmissionID, contractVersion, report); err != nil {
			slog.Error("质量报告落库失败", "submission_id", sub.SubmissionID, "error", err)
		}
		if err := p.store.SaveProcessingResult(result); err != nil {
			slog.Error("处理结果落库失败", "submission_id", sub.SubmissionID, "error", err)
		}
	}

	if err := p.publisher.PublishResult(ctx, result); err != nil {
		slog.Error("处理结果发布失败", "submission_id", sub.SubmissionID, "error", err)
	}
}

func anomalyTypeList(anomalies []models.AnomalyResult) []string {
	types := make([]string, 0, len(anomalies))
	for _, a := range anomalies {
		types = append(types, a.AnomalyType)
	}
	return types
}

// agentDecisions 富化决策日志与异常明细的落库快照
func agentDecisions(decisionLog []string, anomalies []models.AnomalyResult) models.JSONB {
	decisions := models.JSONB{}

	if len(decisionLog) > 0 {
		log := make([]interface{}, 0, len(decisionLog))
		for _, entry := range decisionLog {
			log = append(log, entry)
		}
		decisions["enrichment_agent"] = log
	}

	if len(anomalies) > 0 {
		details := make([]interface{}, 0, len(anomalies))
		for _, a := range anomalies {
			details = append(details, map[string]interface{}{
				"type":       a.AnomalyType,
				"severity":   a.Severity,
				"confidence": a.ConfidenceScore,
			})
		}
		decisions["anomaly_agent"] = details
	}

	return decisions
}
