package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"submission-quality-service/api"
	_ "submission-quality-service/docs"
	"submission-quality-service/logger"
	"submission-quality-service/service"

	daprd "github.com/dapr/go-sdk/service/http"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

var (
	PORT         = 80
	BASE_CONTEXT = ""
)

func init() {
	logger.InitLogger()

	if val := os.Getenv("LISTEN_PORT"); val != "" {
		PORT, _ = strconv.Atoi(val)
	}

	if val := os.Getenv("BASE_CONTEXT"); val != "" {
		BASE_CONTEXT = val
	}
}

// @title 投保申请质量服务 API
// @version 1.0
// @description 商业保险投保申请质量校验服务，提供ACORD 103解析、规则契约校验、数据富化、异常筛查和质量报告
// @BasePath /swagger/submission-quality-service
func main() {
	mux := chi.NewRouter()

	// 如果有BASE_CONTEXT，则在该路径下挂载所有路由
	if BASE_CONTEXT != "" {
		mux.Route(BASE_CONTEXT, func(r chi.Router) {
			// 创建子路由器并初始化路由
			subMux := r.(*chi.Mux)
			api.InitRoute(subMux)
			r.Handle("/metrics", promhttp.Handler())
			r.Handle("/swagger*", httpSwagger.WrapHandler)
		})
	} else {
		api.InitRoute(mux)
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/swagger*", httpSwagger.WrapHandler)
	}

	// 批处理定时调度
	service.GlobalBatchScheduler.Start()
	defer service.GlobalBatchScheduler.Stop()

	// MQTT流式接入（未配置MQTT_BROKER时为nil）
	if service.GlobalSubmissionIntake != nil {
		if err := service.GlobalSubmissionIntake.Start(); err != nil {
			log.Printf("MQTT接入端启动失败，仅保留API与批处理入口: %v", err)
		} else {
			defer service.GlobalSubmissionIntake.Stop()
		}
	}
	defer service.GlobalResultPublisher.Close()

	s := daprd.NewServiceWithMux(":"+strconv.Itoa(PORT), mux)
	if err := s.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("error: %v", err)
	}
}
