/*
 * @module api/controllers/batch_controller
 * @description 批处理控制器，提供批处理触发、处理结果查询和质量统计接口
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 请求接收 -> 批处理/查询 -> 响应返回
 * @rules 手动触发批处理与定时调度共用分布式锁，避免重复消费同一目录
 * @dependencies net/http, service/processor, service/database
 * @refs service/processor/batch_processor.go, service/scheduler/batch_scheduler.go
 */

package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"submission-quality-service/service"
)

// BatchController 批处理控制器
type BatchController struct{}

// NewBatchController 创建批处理控制器实例
func NewBatchController() *BatchController {
	return &BatchController{}
}

// RunBatchRequest 批处理触发请求
type RunBatchRequest struct {
	Directory string `json:"directory" example:"./data/sample_acord"`
}

// RunBatch 触发目录批处理
// @Summary 触发ACORD XML目录批处理
// @Description 扫描指定目录下的XML文件并逐条执行处理管道，目录为空时使用调度器默认目录
// @Tags 批处理
// @Accept json
// @Produce json
// @Param request body RunBatchRequest false "批处理参数"
// @Success 200 {object} APIResponse{data=processor.BatchSummary}
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /batch/run [post]
func (c *BatchController) RunBatch(w http.ResponseWriter, r *http.Request) {
	var request RunBatchRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			BadRequestResponse(w, "请求参数解析失败: "+err.Error())
			return
		}
	}

	if request.Directory == "" {
		// 未指定目录时执行调度器的默认批次（带分布式锁防重）
		if err := service.GlobalBatchScheduler.RunOnce(r.Context()); err != nil {
			InternalErrorResponse(w, "批处理执行失败: "+err.Error())
			return
		}
		SuccessResponse(w, "默认批处理执行完成", nil)
		return
	}

	summary, err := service.GlobalBatchProcessor.ProcessDirectory(r.Context(), request.Directory)
	if err != nil {
		InternalErrorResponse(w, "批处理执行失败: "+err.Error())
		return
	}

	SuccessResponse(w, "批处理执行完成", summary)
}

// ListProcessingResults 查询处理结果列表
// @Summary 分页查询处理结果
// @Description 按处理时间倒序分页返回历史处理结果
// @Tags 批处理
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页大小" default(50)
// @Success 200 {object} PaginatedResponse{data=[]models.ProcessingResultRecord}
// @Failure 500 {object} APIResponse
// @Router /batch/results [get]
func (c *BatchController) ListProcessingResults(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 50
	}

	results, total, err := service.GlobalReportStore.ListProcessingResults(size, (page-1)*size)
	if err != nil {
		InternalErrorResponse(w, "处理结果查询失败: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, &PaginatedResponse{
		Status: 0,
		Msg:    "获取处理结果列表成功",
		Data:   results,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

// GetQualityStats 查询质量统计
// @Summary 查询质量统计指标
// @Description 返回质量报告总数、平均综合评分、低质量记录数等汇总统计
// @Tags 批处理
// @Produce json
// @Success 200 {object} APIResponse{data=database.QualityStats}
// @Failure 500 {object} APIResponse
// @Router /batch/stats [get]
func (c *BatchController) GetQualityStats(w http.ResponseWriter, r *http.Request) {
	stats, err := service.GlobalReportStore.GetQualityStats()
	if err != nil {
		InternalErrorResponse(w, "质量统计查询失败: "+err.Error())
		return
	}

	SuccessResponse(w, "获取质量统计成功", stats)
}
