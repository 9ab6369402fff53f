package relayer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
)

const (
	DefaultInterval  = 5 * time.Second
	DefaultBatchSize = 10

	deliveryLogTimeout = 2 * time.Second
	tracerName         = "github.com/LeHongMinh-ST/ca-eco/relayer"
)

// Processor reparte las filas PENDING del outbox entre los handlers registrados.
// La entrega es at-least-once: un fallo deja la fila FAILED y los handlers que
// ya se ejecutaron no se deshacen.
type Processor struct {
	repo        sharedDomain.OutboxRepository
	registry    *Registry
	interval    time.Duration
	batchSize   int
	maxRetries  int
	deliveryLog sharedDomain.DeliveryLog
	tracer      trace.Tracer
	log         *zap.Logger

	running atomic.Bool
}

type Option func(*Processor)

// WithMaxRetries devuelve a PENDING las filas FAILED con menos de n intentos.
// Con 0, FAILED es definitivo.
func WithMaxRetries(n int) Option {
	return func(p *Processor) { p.maxRetries = n }
}

func WithDeliveryLog(l sharedDomain.DeliveryLog) Option {
	return func(p *Processor) { p.deliveryLog = l }
}

func WithTracer(t trace.Tracer) Option {
	return func(p *Processor) { p.tracer = t }
}

func NewProcessor(
	repo sharedDomain.OutboxRepository,
	registry *Registry,
	interval time.Duration,
	batchSize int,
	log *zap.Logger,
	opts ...Option,
) *Processor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if registry == nil {
		registry = NewRegistryBuilder().Build()
	}
	p := &Processor{
		repo:      repo,
		registry:  registry,
		interval:  interval,
		batchSize: batchSize,
		tracer:    otel.Tracer(tracerName),
		log:       log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start inicia el bucle de polling hasta que se cancele ctx.
func (p *Processor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Info("🚀 Outbox processor iniciado",
		zap.Duration("interval", p.interval),
		zap.Int("batch_size", p.batchSize),
		zap.Strings("event_types", p.registry.EventTypes()),
	)

	for {
		select {
		case <-ctx.Done():
			p.log.Info("🛑 Outbox processor detenido.")
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick procesa un lote. Nunca devuelve error ni deja escapar un panic de un handler.
// Si el tick anterior sigue en curso, éste se omite.
func (p *Processor) Tick(ctx context.Context) {
	if !p.running.CompareAndSwap(false, true) {
		p.log.Warn("⚠️ Tick anterior aún en curso, se omite")
		return
	}
	defer p.running.Store(false)

	if p.maxRetries > 0 {
		requeued, err := p.repo.RequeueFailed(ctx, p.maxRetries)
		if err != nil {
			p.log.Warn("⚠️ Error al reencolar eventos fallidos", zap.Error(err))
		} else if requeued > 0 {
			p.log.Info("🔁 Eventos fallidos reencolados", zap.Int64("count", requeued))
		}
	}

	pending, err := p.repo.FetchPending(ctx, p.batchSize)
	if err != nil {
		p.log.Warn("⚠️ Error al obtener eventos pendientes", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}
	p.log.Info(fmt.Sprintf("📬 %d eventos encontrados para procesar", len(pending)))

	deliveries := make([]sharedDomain.DeliveryRecord, 0, len(pending))
	for _, rec := range pending {
		if ctx.Err() != nil {
			break
		}
		if delivery, ok := p.process(ctx, rec); ok {
			deliveries = append(deliveries, delivery)
		}
	}

	p.logDeliveries(ctx, deliveries)
}

// process reclama la fila y la entrega. Devuelve false si otro tick la reclamó antes.
func (p *Processor) process(ctx context.Context, rec sharedDomain.OutboxEvent) (sharedDomain.DeliveryRecord, bool) {
	// Los cambios de estado se escriben aunque el tick se cancele a mitad.
	statusCtx := context.WithoutCancel(ctx)

	claimed, err := p.repo.MarkProcessing(statusCtx, rec.ID)
	if err != nil {
		p.log.Warn("⚠️ No se pudo reclamar evento", zap.String("event_id", rec.ID.String()), zap.Error(err))
		return sharedDomain.DeliveryRecord{}, false
	}
	if !claimed {
		p.log.Debug("Evento ya reclamado por otro tick", zap.String("event_id", rec.ID.String()))
		return sharedDomain.DeliveryRecord{}, false
	}

	start := time.Now()
	evt := sharedDomain.NewStoredEvent(rec)
	handlers := p.registry.Handlers(rec.EventType)

	ctx, span := p.tracer.Start(ctx, "outbox.dispatch", trace.WithAttributes(
		attribute.String("outbox.id", rec.ID.String()),
		attribute.String("outbox.event_type", rec.EventType),
		attribute.String("outbox.aggregate_id", rec.AggregateID),
		attribute.Int("outbox.handler_count", len(handlers)),
	))
	defer span.End()

	var lastErr error
	for i, h := range handlers {
		if err := p.invoke(ctx, h, evt); err != nil {
			lastErr = err
			p.log.Warn("⚠️ Handler falló",
				zap.String("event_id", rec.ID.String()),
				zap.String("event_type", rec.EventType),
				zap.Int("handler", i),
				zap.Error(err),
			)
		}
	}

	delivery := sharedDomain.DeliveryRecord{
		OutboxID:     rec.ID,
		AggregateID:  rec.AggregateID,
		EventType:    rec.EventType,
		HandlerCount: len(handlers),
	}

	if lastErr != nil {
		span.RecordError(lastErr)
		span.SetStatus(codes.Error, lastErr.Error())
		if err := p.repo.MarkFailed(statusCtx, rec.ID, lastErr.Error()); err != nil {
			p.log.Warn("⚠️ No se pudo marcar evento como fallido", zap.String("event_id", rec.ID.String()), zap.Error(err))
		}
		delivery.Status = sharedDomain.OutboxFailed
		delivery.Error = lastErr.Error()
		p.log.Error("❌ Evento marcado como FAILED",
			zap.String("event_id", rec.ID.String()),
			zap.String("event_type", rec.EventType),
			zap.Error(lastErr),
		)
	} else {
		if err := p.repo.MarkCompleted(statusCtx, rec.ID); err != nil {
			p.log.Warn("⚠️ No se pudo marcar evento como completado", zap.String("event_id", rec.ID.String()), zap.Error(err))
		}
		delivery.Status = sharedDomain.OutboxCompleted
		p.log.Info("✅ Evento entregado y marcado",
			zap.String("event_id", rec.ID.String()),
			zap.String("event_type", rec.EventType),
			zap.Int("handlers", len(handlers)),
		)
	}

	delivery.Duration = time.Since(start)
	delivery.ProcessedAt = time.Now().UTC()
	return delivery, true
}

// invoke aísla cada handler: un panic se convierte en error.
func (p *Processor) invoke(ctx context.Context, h sharedDomain.EventHandler, evt sharedDomain.StoredEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Handle(ctx, evt)
}

func (p *Processor) logDeliveries(ctx context.Context, deliveries []sharedDomain.DeliveryRecord) {
	if p.deliveryLog == nil || len(deliveries) == 0 {
		return
	}
	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryLogTimeout)
	defer cancel()

	if err := p.deliveryLog.LogBatch(logCtx, deliveries); err != nil {
		p.log.Warn("⚠️ No se pudo registrar el lote de entregas", zap.Int("count", len(deliveries)), zap.Error(err))
	}
}
