package service

import (
	"encoding/json"
	"sync"
	"time"

	"readsprint_backend/internal/config"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// EventService 向 RabbitMQ 发布领域事件（文档分析完成、冲刺完成）
// 未启用或连接失败时降级为 no-op，事件发布永远不会让主流程失败
type EventService struct {
	cfg    config.EventsConfig
	logger *zap.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewEventService(cfg config.EventsConfig, logger *zap.Logger) *EventService {
	s := &EventService{cfg: cfg, logger: logger}
	if !cfg.Enabled {
		return s
	}
	if err := s.connect(); err != nil {
		logger.Warn("RabbitMQ 连接失败，事件发布降级为 no-op", zap.Error(err))
	}
	return s
}

func (s *EventService) connect() error {
	conn, err := amqp.Dial(s.cfg.URL)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	if err := ch.ExchangeDeclare(s.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return err
	}
	s.conn = conn
	s.channel = ch
	return nil
}

// Publish 按 routing key 发布一条 JSON 事件，失败仅记日志
func (s *EventService) Publish(routingKey string, payload interface{}) {
	if !s.cfg.Enabled {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.channel == nil {
		// 启动时连不上的情况下按需重试一次
		if err := s.connect(); err != nil {
			s.logger.Warn("事件发布跳过：RabbitMQ 不可用", zap.String("routing_key", routingKey), zap.Error(err))
			return
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("事件序列化失败", zap.String("routing_key", routingKey), zap.Error(err))
		return
	}

	err = s.channel.Publish(s.cfg.Exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		s.logger.Warn("事件发布失败", zap.String("routing_key", routingKey), zap.Error(err))
		// 连接可能已断开，丢弃后下次发布时重连
		s.channel = nil
		if s.conn != nil {
			s.conn.Close()
			s.conn = nil
		}
	}
}

func (s *EventService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.channel != nil {
		s.channel.Close()
		s.channel = nil
	}
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}
