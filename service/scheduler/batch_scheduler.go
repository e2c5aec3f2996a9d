/*
 * @module service/scheduler/batch_scheduler
 * @description 批处理定时调度器，按cron表达式扫描ACORD XML目录并触发批处理
 * @architecture 分层架构 - 任务调度层
 * @stateFlow 启动调度器 -> cron触发 -> 获取分布式锁 -> 目录批处理 -> 释放锁
 * @rules 多实例部署时通过分布式锁保证同一批次只有一个实例执行；未配置锁时单实例直接执行
 * @dependencies github.com/robfig/cron/v3, service/distributed_lock, service/processor
 * @refs service/processor/batch_processor.go, service/init.go
 */

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"submission-quality-service/service/distributed_lock"
	"submission-quality-service/service/processor"

	"github.com/robfig/cron/v3"
)

const (
	// 默认每10分钟扫描一次输入目录（秒级cron表达式）
	defaultBatchCron = "0 */10 * * * *"
	// 默认XML输入目录
	defaultInputDir = "./data/sample_acord"

	// 批处理分布式锁
	batchLockKey        = "batch_ingest"
	batchLockTTL        = 10 * time.Minute
	batchLockRefreshGap = 3 * time.Minute
)

// BatchScheduler 批处理定时调度器
type BatchScheduler struct {
	cron     *cron.Cron
	batch    *processor.BatchProcessor
	executor *distributed_lock.LockExecutor
	inputDir string
	cronSpec string
	started  bool
}

// NewBatchScheduler 创建批处理调度器
// lock允许为nil，对应单实例部署下不加锁执行
func NewBatchScheduler(batch *processor.BatchProcessor, lock distributed_lock.DistributedLock) (*BatchScheduler, error) {
	cronSpec := getEnvWithDefault("BATCH_CRON", defaultBatchCron)
	inputDir := getEnvWithDefault("BATCH_INPUT_DIR", defaultInputDir)

	s := &BatchScheduler{
		cron:     cron.New(cron.WithSeconds()),
		batch:    batch,
		inputDir: inputDir,
		cronSpec: cronSpec,
	}
	if lock != nil {
		s.executor = distributed_lock.NewLockExecutor(lock)
	}

	if _, err := s.cron.AddFunc(cronSpec, s.runScheduledBatch); err != nil {
		return nil, fmt.Errorf("BATCH_CRON表达式非法 [%s]: %w", cronSpec, err)
	}

	return s, nil
}

// Start 启动调度器
func (s *BatchScheduler) Start() {
	if s.started {
		return
	}
	s.cron.Start()
	s.started = true

	slog.Info("批处理调度器已启动",
		"cron", s.cronSpec,
		"input_dir", s.inputDir,
		"distributed_lock", s.executor != nil)
}

// Stop 停止调度器，等待正在执行的批次结束
func (s *BatchScheduler) Stop() {
	if !s.started {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.started = false
	slog.Info("批处理调度器已停止")
}

// runScheduledBatch cron触发入口
func (s *BatchScheduler) runScheduledBatch() {
	ctx, cancel := context.WithTimeout(context.Background(), batchLockTTL)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		slog.Error("定时批处理执行失败", "input_dir", s.inputDir, "error", err)
	}
}

// RunOnce 执行一次批处理，多实例下通过分布式锁防重
func (s *BatchScheduler) RunOnce(ctx context.Context) error {
	if s.executor == nil {
		return s.processOnce(ctx)
	}
	return s.executor.ExecuteWithLockAndRefresh(ctx, batchLockKey, batchLockTTL, batchLockRefreshGap, func() error {
		return s.processOnce(ctx)
	})
}

func (s *BatchScheduler) processOnce(ctx context.Context) error {
	summary, err := s.batch.ProcessDirectory(ctx, s.inputDir)
	if err != nil {
		return err
	}
	if summary.TotalFiles == 0 {
		slog.Debug("输入目录无待处理XML文件", "input_dir", s.inputDir)
	}
	return nil
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
