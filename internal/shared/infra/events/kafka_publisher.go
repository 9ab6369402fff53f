// Package events contiene los adapters del bus de integración (Kafka y en memoria).
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedBus "github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/bus"
)

// KafkaPublisher publica cada mensaje en el topic que indique (Topicer) con su clave de partición (Keyer).
type KafkaPublisher struct {
	writer       *kafka.Writer
	defaultTopic string
	log          *zap.Logger
}

// NewKafkaWriter crea un writer sin topic fijo: el topic va en cada mensaje.
// El balanceo por hash mantiene los eventos de un agregado en la misma partición.
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
}

func NewKafkaPublisher(writer *kafka.Writer, defaultTopic string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, defaultTopic: defaultTopic, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event interface{}) error {
	msg, err := p.buildMessage(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Error publishing to Kafka", zap.String("topic", msg.Topic), zap.Error(err))
		return err
	}

	p.log.Debug("Event published successfully", zap.String("topic", msg.Topic), zap.ByteString("key", msg.Key))
	return nil
}

func (p *KafkaPublisher) buildMessage(event interface{}) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}

	msg := kafka.Message{Value: data}
	if keyer, ok := event.(sharedBus.Keyer); ok {
		msg.Key = []byte(keyer.PartitionKey())
	}
	// Con un writer de topic fijo kafka-go rechaza mensajes que traigan su propio topic.
	if p.writer == nil || p.writer.Topic == "" {
		msg.Topic = p.defaultTopic
		if topicer, ok := event.(sharedBus.Topicer); ok && topicer.Topic() != "" {
			msg.Topic = topicer.Topic()
		}
	}
	return msg, nil
}

// Close vacía y cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Verificación estática
var _ sharedBus.EventBus = (*KafkaPublisher)(nil)
