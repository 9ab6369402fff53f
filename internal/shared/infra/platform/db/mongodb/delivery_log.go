// Package mongodb guarda la auditoría de entregas del outbox en MongoDB.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
)

const deliveriesCollection = "outbox_deliveries"

// DeliveryLogMongo implementa sharedDomain.DeliveryLog con un documento por entrega.
type DeliveryLogMongo struct {
	coll *mongo.Collection
}

func NewDeliveryLogMongo(ctx context.Context, client *mongo.Client, dbName string) (*DeliveryLogMongo, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}
	return &DeliveryLogMongo{coll: client.Database(dbName).Collection(deliveriesCollection)}, nil
}

// mongoDelivery se define aquí para no llevar tags de BSON al dominio.
type mongoDelivery struct {
	OutboxID     string    `bson:"outboxId"`
	AggregateID  string    `bson:"aggregateId"`
	EventType    string    `bson:"eventType"`
	Status       string    `bson:"status"`
	HandlerCount int       `bson:"handlerCount"`
	Error        string    `bson:"error,omitempty"`
	DurationMs   int64     `bson:"durationMs"`
	ProcessedAt  time.Time `bson:"processedAt"`
}

func toMongoDelivery(r sharedDomain.DeliveryRecord) mongoDelivery {
	return mongoDelivery{
		OutboxID:     r.OutboxID.String(),
		AggregateID:  r.AggregateID,
		EventType:    r.EventType,
		Status:       string(r.Status),
		HandlerCount: r.HandlerCount,
		Error:        r.Error,
		DurationMs:   r.Duration.Milliseconds(),
		ProcessedAt:  r.ProcessedAt,
	}
}

func (l *DeliveryLogMongo) LogBatch(ctx context.Context, records []sharedDomain.DeliveryRecord) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(records))
	for _, r := range records {
		docs = append(docs, toMongoDelivery(r))
	}
	// Sin orden: un documento fallido no impide insertar los demás.
	if _, err := l.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return fmt.Errorf("insert deliveries: %w", err)
	}
	return nil
}

// ByAggregate devuelve el historial de entregas de un agregado, del más antiguo al más reciente.
func (l *DeliveryLogMongo) ByAggregate(ctx context.Context, aggregateID string) ([]sharedDomain.DeliveryRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "processedAt", Value: 1}})
	cursor, err := l.coll.Find(ctx, bson.M{"aggregateId": aggregateID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []sharedDomain.DeliveryRecord
	for cursor.Next(ctx) {
		var doc mongoDelivery
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, fromMongoDelivery(doc))
	}
	return out, cursor.Err()
}

// EnsureIndexes crea los índices de consulta si no existen.
func (l *DeliveryLogMongo) EnsureIndexes(ctx context.Context) error {
	_, err := l.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "aggregateId", Value: 1}, {Key: "processedAt", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "processedAt", Value: -1}}},
	})
	return err
}

func fromMongoDelivery(doc mongoDelivery) sharedDomain.DeliveryRecord {
	rec := sharedDomain.DeliveryRecord{
		AggregateID:  doc.AggregateID,
		EventType:    doc.EventType,
		Status:       sharedDomain.OutboxStatus(doc.Status),
		HandlerCount: doc.HandlerCount,
		Error:        doc.Error,
		Duration:     time.Duration(doc.DurationMs) * time.Millisecond,
		ProcessedAt:  doc.ProcessedAt,
	}
	if id, err := uuid.Parse(doc.OutboxID); err == nil {
		rec.OutboxID = id
	}
	return rec
}

var _ sharedDomain.DeliveryLog = (*DeliveryLogMongo)(nil)
