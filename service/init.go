/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、契约加载、处理管道装配等初始化工作
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 应用启动时执行初始化流程：数据库 -> 迁移 -> 契约 -> 管道 -> 调度器
 * @rules 质量契约加载失败立即退出；Redis/Kafka/MQTT等外部设施缺失时降级为单机模式
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres, gorm.io/driver/sqlite
 * @refs service/contract, service/processor, service/scheduler
 */

package service

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"submission-quality-service/service/anomaly"
	"submission-quality-service/service/contract"
	"submission-quality-service/service/database"
	"submission-quality-service/service/distributed_lock"
	"submission-quality-service/service/enrichment"
	"submission-quality-service/service/models"
	"submission-quality-service/service/mq"
	"submission-quality-service/service/parser"
	"submission-quality-service/service/processor"
	"submission-quality-service/service/quality"
	"submission-quality-service/service/rate_limiter"
	"submission-quality-service/service/scheduler"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	DB                     *gorm.DB
	GlobalContractLoader   *contract.Loader
	GlobalValidator        *quality.SubmissionValidator
	GlobalEnrichmentAgent  *enrichment.Agent
	GlobalAnomalyDetector  *anomaly.Detector
	GlobalReportStore      *database.ReportStore
	GlobalResultPublisher  mq.ReportPublisher
	GlobalACORDParser      *parser.ACORDParser
	GlobalStreamProcessor  *processor.StreamProcessor
	GlobalBatchProcessor   *processor.BatchProcessor
	GlobalBatchScheduler   *scheduler.BatchScheduler
	GlobalDistributedLock  distributed_lock.DistributedLock
	GlobalRateLimiter      *rate_limiter.RedisRateLimiter
	GlobalSubmissionIntake *mq.MQTTConsumer
)

func init() {
	initDatabase()
	runMigrations()
	initServices()
}

// initDatabase 初始化数据库连接
func initDatabase() {
	// 本地开发可切换sqlite，省去外部数据库依赖
	if getEnvWithDefault("DB_DRIVER", "postgres") == "sqlite" {
		path := getEnvWithDefault("DB_PATH", "submission_quality.db")
		var err error
		DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			log.Fatalf("SQLite数据库打开失败: %v", err)
		}
		log.Println("SQLite数据库连接成功")
		return
	}

	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		// 使用分离的环境变量构建连接字符串
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "things2024")
		dbname := getEnvWithDefault("DB_NAME", "postgres")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s TimeZone=Asia/Shanghai",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations 运行数据库迁移
func runMigrations() {
	log.Println("开始运行数据库迁移...")

	if err := database.AutoMigrate(DB); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	log.Println("数据库表结构迁移完成")
}

// initServices 初始化服务
func initServices() {
	// 加载质量规则契约并构建校验器
	var err error
	GlobalContractLoader, err = contract.NewLoader(getEnvWithDefault("CONTRACTS_DIR", "./contracts"))
	if err != nil {
		log.Fatalf("质量规则契约目录打开失败: %v", err)
	}

	GlobalValidator, err = quality.NewSubmissionValidator(GlobalContractLoader)
	if err != nil {
		log.Fatalf("质量规则契约加载失败: %v", err)
	}

	// 富化代理与异常检测
	GlobalEnrichmentAgent = enrichment.NewAgent(
		&enrichment.MockOpenCorporatesAPI{},
		&enrichment.MockNAICSLookupAPI{},
	)
	GlobalAnomalyDetector = anomaly.NewDetector()

	// 持久化与结果发布
	GlobalReportStore = database.NewReportStore(DB)
	GlobalResultPublisher = mq.NewKafkaPublisher()

	// 处理管道
	GlobalACORDParser = parser.NewACORDParser()
	GlobalStreamProcessor = processor.NewStreamProcessor(
		GlobalValidator,
		GlobalEnrichmentAgent,
		GlobalAnomalyDetector,
		GlobalReportStore,
		GlobalResultPublisher,
	)
	GlobalBatchProcessor = processor.NewBatchProcessor(GlobalACORDParser, GlobalStreamProcessor)

	// Redis分布式锁与限流器（可选，未配置REDIS_HOST时降级为单机模式）
	if os.Getenv("REDIS_HOST") != "" {
		lock, err := distributed_lock.NewRedisLock()
		if err != nil {
			log.Printf("Redis分布式锁初始化失败，批处理调度降级为单机模式: %v", err)
		} else {
			GlobalDistributedLock = lock
		}

		limiter, err := rate_limiter.NewRedisRateLimiter()
		if err != nil {
			log.Printf("Redis限流器初始化失败，API限流关闭: %v", err)
		} else {
			GlobalRateLimiter = limiter
		}
	}

	// 批处理调度器
	GlobalBatchScheduler, err = scheduler.NewBatchScheduler(GlobalBatchProcessor, GlobalDistributedLock)
	if err != nil {
		log.Fatalf("批处理调度器初始化失败: %v", err)
	}

	// MQTT流式接入（可选，未配置MQTT_BROKER时为nil）
	GlobalSubmissionIntake = mq.NewMQTTConsumer(GlobalACORDParser, func(sub *models.Submission, source string) {
		if _, _, err := GlobalStreamProcessor.ProcessSubmission(context.Background(), sub); err != nil {
			slog.Error("流式投保申请处理失败", "source", source, "error", err)
		}
	})

	log.Println("服务初始化完成")
}
