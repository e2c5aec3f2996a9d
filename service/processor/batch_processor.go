/*
 * @module service/processor/batch_processor
 * @description 投保申请批处理器，扫描ACORD XML目录并逐条执行处理管道
 * @architecture 分层架构 - 编排层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 目录扫描 -> 逐文件解析 -> 流水线处理 -> 批次汇总
 * @rules 单个文件的解析或处理失败不中断批次，逐文件错误记入汇总
 * @dependencies service/parser, service/processor/stream_processor.go
 * @refs service/scheduler/batch_scheduler.go, api/controllers/batch_controller.go
 */

package processor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"submission-quality-service/service/models"
	"submission-quality-service/service/parser"
)

// BatchSummary 批处理汇总
type BatchSummary struct {
	Directory       string                    `json:"directory"`
	TotalFiles      int                       `json:"total_files"`
	Processed       int                       `json:"processed"`
	ParseFailures   int                       `json:"parse_failures"`
	ProcessFailures int                       `json:"process_failures"`
	AvgQualityScore float64                   `json:"avg_quality_score"`
	EnrichedCount   int                       `json:"enriched_count"`
	AnomalyCount    int                       `json:"anomaly_count"`
	ElapsedMs       int64                     `json:"elapsed_ms"`
	Results         []*models.ProcessingResult `json:"results"`
	Errors          []string                  `json:"errors,omitempty"`
}

// BatchProcessor XML目录批处理器
type BatchProcessor struct {
	parser *parser.ACORDParser
	stream *StreamProcessor
}

// NewBatchProcessor 创建批处理器
func NewBatchProcessor(acordParser *parser.ACORDParser, stream *StreamProcessor) *BatchProcessor {
	return &BatchProcessor{parser: acordParser, stream: stream}
}

// ProcessDirectory 处理目录下全部XML文件并返回批次汇总
func (b *BatchProcessor) ProcessDirectory(ctx context.Context, dir string) (*BatchSummary, error) {
	start := time.Now()

	submissions, parseErrs := b.parser.ParseDirectory(dir)

	summary := &BatchSummary{
		Directory:     dir,
		TotalFiles:    len(submissions) + len(parseErrs),
		ParseFailures: len(parseErrs),
		Results:       make([]*models.ProcessingResult, 0, len(submissions)),
	}
	for _, err := range parseErrs {
		summary.Errors = append(summary.Errors, err.Error())
	}

	scoreSum := 0.0
	for _, sub := range submissions {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, _, err := b.stream.ProcessSubmission(ctx, sub)
		if err != nil {
			summary.ProcessFailures++
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("处理失败 [%s]: %v", sub.SubmissionID, err))
			slog.Error("批处理记录失败", "submission_id", sub.SubmissionID, "error", err)
			continue
		}

		summary.Processed++
		summary.Results = append(summary.Results, result)
		scoreSum += result.QualityScore
		if result.EnrichmentApplied {
			summary.EnrichedCount++
		}
		summary.AnomalyCount += len(result.AnomaliesDetected)
	}

	if summary.Processed > 0 {
		summary.AvgQualityScore = scoreSum / float64(summary.Processed)
	}
	summary.ElapsedMs = time.Since(start).Milliseconds()

	slog.Info("批处理完成",
		"directory", dir,
		"total", summary.TotalFiles,
		"processed", summary.Processed,
		"parse_failures", summary.ParseFailures,
		"process_failures", summary.ProcessFailures,
		"avg_score", summary.AvgQualityScore,
		"elapsed_ms", summary.ElapsedMs)

	return summary, nil
}
