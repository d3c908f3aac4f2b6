package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	kafkaQueueSize    = 1024
	kafkaWriteTimeout = 5 * time.Second
)

var (
	errEventQueueFull  = errors.New("event queue full")
	errPublisherClosed = errors.New("publisher closed")
)

// KafkaPublisher 以作品 ID 为 key 写入 Kafka，同一作品的事件保持有序。
// Publish 只入队，由后台协程写出，请求路径不等待 broker。
type KafkaPublisher struct {
	writer *kafka.Writer
	queue  chan kafka.Message
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 2 * time.Second,
		Async:        true,
		Completion:   logDelivery,
	}
	p := newKafkaPublisher(w, kafkaQueueSize)
	go p.run()
	return p
}

func newKafkaPublisher(w *kafka.Writer, size int) *KafkaPublisher {
	return &KafkaPublisher{
		writer: w,
		queue:  make(chan kafka.Message, size),
		done:   make(chan struct{}),
	}
}

func logDelivery(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, m := range messages {
		zap.L().Warn("Failed to deliver event", zap.ByteString("work_id", m.Key), zap.Error(err))
	}
}

func (p *KafkaPublisher) run() {
	defer close(p.done)
	for m := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), kafkaWriteTimeout)
		if err := p.writer.WriteMessages(ctx, m); err != nil {
			logDelivery([]kafka.Message{m}, err)
		}
		cancel()
	}
}

// Publish 队列满时丢弃事件并返回错误，由调用方记录
func (p *KafkaPublisher) Publish(_ context.Context, ev Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return errPublisherClosed
	}
	select {
	case p.queue <- kafka.Message{Key: []byte(ev.WorkID), Value: value}:
		return nil
	default:
		return errEventQueueFull
	}
}

// Close 等待队列写完并刷出 writer 缓冲
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.writer.Close()
}
