/*
 * @module service/mq/kafka_publisher
 * @description Kafka报告发布器，将流水线处理结果发布到下游分析主题
 * @architecture 适配器模式 - 封装第三方Kafka客户端，提供统一的发布接口
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 处理结果 -> JSON序列化 -> 按submission_id分区发布 -> 下游消费
 * @rules 未配置broker时降级为空操作发布器，流水线不因消息队列缺席而失败；
 *        发布失败向调用方返回错误，由调用方决定是否忽略
 * @dependencies github.com/segmentio/kafka-go, encoding/json
 * @refs service/processor/, service/models/report.go
 */

package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"submission-quality-service/service/models"

	"github.com/segmentio/kafka-go"
)

// 默认处理结果发布主题
const DefaultResultTopic = "submission-quality-results"

// ReportPublisher 处理结果发布接口
type ReportPublisher interface {
	PublishResult(ctx context.Context, result *models.ProcessingResult) error
	Close() error
}

// KafkaPublisher 基于Kafka的处理结果发布器
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaPublisher 从环境变量创建发布器
// KAFKA_BROKERS为空时返回空操作发布器，服务在无Kafka环境下照常运行
func NewKafkaPublisher() ReportPublisher {
	brokersRaw := os.Getenv("KAFKA_BROKERS")
	if brokersRaw == "" {
		slog.Info("未配置KAFKA_BROKERS，处理结果发布降级为空操作")
		return &NoopPublisher{}
	}

	topic := os.Getenv("KAFKA_RESULT_TOPIC")
	if topic == "" {
		topic = DefaultResultTopic
	}

	brokers := strings.Split(brokersRaw, ",")
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
	}

	slog.Info("Kafka处理结果发布器已初始化", "brokers", brokers, "topic", topic)
	return &KafkaPublisher{writer: writer, topic: topic}
}

// PublishResult 发布单条处理结果，按submission_id作为分区键
func (p *KafkaPublisher) PublishResult(ctx context.Context, result *models.ProcessingResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("处理结果序列化失败: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(result.SubmissionID),
		Value: payload,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("处理结果发布失败 [topic=%s]: %w", p.topic, err)
	}

	slog.Debug("处理结果已发布", "topic", p.topic, "submission_id", result.SubmissionID)
	return nil
}

// Close 关闭底层写入器
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher 空操作发布器，用于无Kafka环境和单元测试
type NoopPublisher struct{}

// PublishResult 空操作
func (p *NoopPublisher) PublishResult(ctx context.Context, result *models.ProcessingResult) error {
	return nil
}

// Close 空操作
func (p *NoopPublisher) Close() error {
	return nil
}
