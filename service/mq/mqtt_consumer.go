/*
 * @module service/mq/mqtt_consumer
 * @description MQTT投保申请接入端，订阅ACORD XML消息主题并投递给流处理器
 * @architecture 发布订阅模式 - 连接MQTT broker并订阅主题
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow MQTT客户端生命周期：连接 -> 订阅主题 -> 接收XML -> 解析 -> 投递处理回调 -> 断开连接
 * @rules 支持QoS 1、自动重连；单条消息解析失败记录告警后丢弃，不影响后续消息
 * @dependencies github.com/eclipse/paho.mqtt.golang, service/parser
 * @refs service/parser/acord_parser.go, service/processor/stream_processor.go
 */

package mq

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"submission-quality-service/service/models"
	"submission-quality-service/service/parser"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// 默认ACORD XML订阅主题
const DefaultSubmissionTopic = "submissions/acord"

// SubmissionHandler 解析成功的投保申请回调
type SubmissionHandler func(sub *models.Submission, source string)

// MQTTConsumer ACORD XML消息接入端
type MQTTConsumer struct {
	client  mqtt.Client
	parser  *parser.ACORDParser
	handler SubmissionHandler
	topic   string
	qos     byte
}

// NewMQTTConsumer 从环境变量创建接入端
// MQTT_BROKER为空时返回nil，服务在无MQTT环境下跳过流式接入
func NewMQTTConsumer(acordParser *parser.ACORDParser, handler SubmissionHandler) *MQTTConsumer {
	broker := os.Getenv("MQTT_BROKER")
	if broker == "" {
		slog.Info("未配置MQTT_BROKER，跳过流式XML接入")
		return nil
	}

	port := getEnvWithDefault("MQTT_PORT", "1883")
	topic := getEnvWithDefault("MQTT_SUBMISSION_TOPIC", DefaultSubmissionTopic)
	clientID := getEnvWithDefault("MQTT_CLIENT_ID", "submission-quality-service")

	consumer := &MQTTConsumer{
		parser:  acordParser,
		handler: handler,
		topic:   topic,
		qos:     1,
	}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", broker, port)).
		SetClientID(clientID).
		SetUsername(os.Getenv("MQTT_USERNAME")).
		SetPassword(os.Getenv("MQTT_PASSWORD")).
		SetKeepAlive(60 * time.Second).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(30 * time.Second).
		SetCleanSession(true).
		SetOnConnectHandler(consumer.onConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			slog.Warn("MQTT连接断开，等待自动重连", "error", err)
		})

	consumer.client = mqtt.NewClient(opts)
	return consumer
}

// Start 建立连接并订阅主题
func (c *MQTTConsumer) Start() error {
	token := c.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("MQTT连接超时")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("MQTT连接失败: %w", err)
	}
	return nil
}

// onConnect 连接（含重连）成功后订阅主题
func (c *MQTTConsumer) onConnect(client mqtt.Client) {
	token := client.Subscribe(c.topic, c.qos, c.onMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		slog.Error("MQTT主题订阅失败", "topic", c.topic, "error", err)
		return
	}
	slog.Info("MQTT投保申请接入端已订阅", "topic", c.topic, "qos", c.qos)
}

// onMessage 解析收到的ACORD XML并投递给处理回调
func (c *MQTTConsumer) onMessage(_ mqtt.Client, msg mqtt.Message) {
	source := fmt.Sprintf("mqtt:%s#%d", msg.Topic(), msg.MessageID())

	sub, err := c.parser.Parse(strings.NewReader(string(msg.Payload())), source)
	if err != nil {
		slog.Warn("MQTT消息XML解析失败，已丢弃", "source", source, "error", err)
		return
	}

	c.handler(sub, source)
}

// Stop 断开连接
func (c *MQTTConsumer) Stop() {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(250)
		slog.Info("MQTT投保申请接入端已断开")
	}
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
