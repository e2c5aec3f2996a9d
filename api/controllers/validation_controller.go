/*
 * @module api/controllers/validation_controller
 * @description 投保申请质量校验控制器，提供单条校验、完整管道处理和报告查询接口
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 请求接收 -> 参数校验 -> 质量管道处理 -> 响应返回
 * @rules /validate只读不落库；/process执行完整管道（富化、异常筛查、落库、发布）
 * @dependencies net/http, service/quality, service/processor
 * @refs service/processor/stream_processor.go, service/quality/validator.go
 */

package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"submission-quality-service/service"
	"submission-quality-service/service/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ValidationController 质量校验控制器
type ValidationController struct{}

// NewValidationController 创建质量校验控制器实例
func NewValidationController() *ValidationController {
	return &ValidationController{}
}

// ProcessResponse 管道处理响应
type ProcessResponse struct {
	Result *models.ProcessingResult `json:"result"`
	Report *models.QualityReport    `json:"report"`
}

// ReportDetailResponse 质量报告详情响应
type ReportDetailResponse struct {
	Report *models.QualityReportRecord `json:"report"`
	Checks []models.QualityCheckRecord `json:"checks"`
}

// ContractInfoResponse 质量契约信息响应
type ContractInfoResponse struct {
	ContractVersion   string `json:"contract_version"`
	RequiredFields    int    `json:"required_fields"`
	ConsistencyChecks int    `json:"consistency_checks"`
	EnrichmentSources int    `json:"enrichment_sources"`
}

// ValidateSubmission 校验投保申请
// @Summary 校验投保申请质量
// @Description 对JSON格式的投保申请执行质量契约校验，返回质量报告，不落库
// @Tags 质量校验
// @Accept json
// @Produce json
// @Param submission body models.Submission true "投保申请记录"
// @Success 200 {object} APIResponse{data=models.QualityReport}
// @Failure 400 {object} APIResponse
// @Router /quality/validate [post]
func (c *ValidationController) ValidateSubmission(w http.ResponseWriter, r *http.Request) {
	sub, ok := decodeSubmission(w, r)
	if !ok {
		return
	}

	report := service.GlobalValidator.ValidateSubmission(sub)
	SuccessResponse(w, "质量校验完成", report)
}

// ProcessSubmission 执行完整处理管道
// @Summary 处理投保申请
// @Description 对JSON格式的投保申请执行完整处理管道：校验、低分富化、复检、异常筛查、落库与发布
// @Tags 质量校验
// @Accept json
// @Produce json
// @Param submission body models.Submission true "投保申请记录"
// @Success 200 {object} APIResponse{data=ProcessResponse}
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /quality/process [post]
func (c *ValidationController) ProcessSubmission(w http.ResponseWriter, r *http.Request) {
	sub, ok := decodeSubmission(w, r)
	if !ok {
		return
	}

	result, report, err := service.GlobalStreamProcessor.ProcessSubmission(r.Context(), sub)
	if err != nil {
		InternalErrorResponse(w, "投保申请处理失败: "+err.Error())
		return
	}

	SuccessResponse(w, "投保申请处理完成", &ProcessResponse{Result: result, Report: report})
}

// ProcessACORDXML 处理ACORD XML
// @Summary 处理ACORD 103 XML投保申请
// @Description 解析请求体中的ACORD 103 XML并执行完整处理管道
// @Tags 质量校验
// @Accept xml
// @Produce json
// @Success 200 {object} APIResponse{data=ProcessResponse}
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /quality/validate-acord [post]
func (c *ValidationController) ProcessACORDXML(w http.ResponseWriter, r *http.Request) {
	sub, err := service.GlobalACORDParser.Parse(r.Body, "api:validate-acord")
	if err != nil {
		BadRequestResponse(w, "ACORD XML解析失败: "+err.Error())
		return
	}

	result, report, err := service.GlobalStreamProcessor.ProcessSubmission(r.Context(), sub)
	if err != nil {
		InternalErrorResponse(w, "投保申请处理失败: "+err.Error())
		return
	}

	SuccessResponse(w, "投保申请处理完成", &ProcessResponse{Result: result, Report: report})
}

// ListReports 分页查询质量报告
// @Summary 分页查询质量报告
// @Description 按创建时间倒序分页返回历史质量报告
// @Tags 质量校验
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页大小" default(50)
// @Success 200 {object} PaginatedResponse{data=[]models.QualityReportRecord}
// @Failure 500 {object} APIResponse
// @Router /quality/reports [get]
func (c *ValidationController) ListReports(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 50
	}

	reports, total, err := service.GlobalReportStore.ListRecentReports(size, (page-1)*size)
	if err != nil {
		InternalErrorResponse(w, "质量报告查询失败: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, &PaginatedResponse{
		Status: 0,
		Msg:    "获取质量报告列表成功",
		Data:   reports,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

// GetLatestReport 查询最新质量报告
// @Summary 查询投保申请最新质量报告
// @Description 按投保申请ID返回最近一次质量报告及逐项检查明细
// @Tags 质量校验
// @Produce json
// @Param submission_id path string true "投保申请ID"
// @Success 200 {object} APIResponse{data=ReportDetailResponse}
// @Failure 404 {object} APIResponse
// @Router /quality/reports/{submission_id} [get]
func (c *ValidationController) GetLatestReport(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "submission_id")

	report, err := service.GlobalReportStore.GetLatestReport(submissionID)
	if err != nil {
		NotFoundResponse(w, "质量报告不存在: "+submissionID)
		return
	}

	checks, err := service.GlobalReportStore.ListChecks(report.ID)
	if err != nil {
		InternalErrorResponse(w, "检查明细查询失败: "+err.Error())
		return
	}

	SuccessResponse(w, "获取质量报告成功", &ReportDetailResponse{Report: report, Checks: checks})
}

// GetSubmission 查询投保申请
// @Summary 查询投保申请记录
// @Description 按投保申请ID返回已落库的投保申请记录
// @Tags 质量校验
// @Produce json
// @Param submission_id path string true "投保申请ID"
// @Success 200 {object} APIResponse{data=models.Submission}
// @Failure 404 {object} APIResponse
// @Router /quality/submissions/{submission_id} [get]
func (c *ValidationController) GetSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "submission_id")

	sub, err := service.GlobalReportStore.GetSubmission(submissionID)
	if err != nil {
		NotFoundResponse(w, "投保申请不存在: "+submissionID)
		return
	}

	SuccessResponse(w, "获取投保申请成功", sub)
}

// GetContractInfo 查询质量契约信息
// @Summary 查询当前质量契约信息
// @Description 返回当前生效的质量规则契约版本与规则数量
// @Tags 质量校验
// @Produce json
// @Success 200 {object} APIResponse{data=ContractInfoResponse}
// @Router /quality/contract [get]
func (c *ValidationController) GetContractInfo(w http.ResponseWriter, r *http.Request) {
	contract := service.GlobalValidator.Contract()

	fieldCount := 0
	for _, group := range contract.RequiredFields {
		fieldCount += len(group.Fields)
	}

	SuccessResponse(w, "获取契约信息成功", &ContractInfoResponse{
		ContractVersion:   contract.ContractVersion,
		RequiredFields:    fieldCount,
		ConsistencyChecks: len(contract.ConsistencyChecks),
		EnrichmentSources: len(contract.EnrichmentSources),
	})
}

// decodeSubmission 解析请求体中的投保申请并补全ID
func decodeSubmission(w http.ResponseWriter, r *http.Request) (*models.Submission, bool) {
	var sub models.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		BadRequestResponse(w, "请求参数解析失败: "+err.Error())
		return nil, false
	}

	if sub.SubmissionID == "" {
		sub.SubmissionID = uuid.New().String()
	}

	return &sub, true
}
