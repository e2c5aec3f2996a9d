/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers, api/middleware
 */

package api

import (
	"submission-quality-service/api/controllers"
	authmw "submission-quality-service/api/middleware"
	"submission-quality-service/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// API Key鉴权（未配置API_KEY_HASH时关闭）
	r.Use(authmw.NewAPIKeyAuthMiddleware().Handler)

	// 请求限流（未配置Redis时关闭）
	r.Use(authmw.NewRateLimitMiddleware(service.GlobalRateLimiter).Handler)

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 质量校验
	r.Route("/quality", func(r chi.Router) {
		validationController := controllers.NewValidationController()

		// 只读校验，不落库
		r.Post("/validate", validationController.ValidateSubmission)

		// 完整处理管道
		r.Post("/process", validationController.ProcessSubmission)
		r.Post("/validate-acord", validationController.ProcessACORDXML)

		// 结果查询
		r.Get("/reports", validationController.ListReports)
		r.Get("/reports/{submission_id}", validationController.GetLatestReport)
		r.Get("/submissions/{submission_id}", validationController.GetSubmission)
		r.Get("/contract", validationController.GetContractInfo)
	})

	// 批处理
	r.Route("/batch", func(r chi.Router) {
		batchController := controllers.NewBatchController()
		r.Post("/run", batchController.RunBatch)
		r.Get("/results", batchController.ListProcessingResults)
		r.Get("/stats", batchController.GetQualityStats)
	})
}
