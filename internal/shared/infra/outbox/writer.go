package outbox

import (
	"context"
	"database/sql"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/db/sqldb"
)

// PersistFunc escribe el estado del agregado dentro de la transacción recibida.
type PersistFunc func(ctx context.Context, tx sqldb.DBTX) error

// Writer guarda estado y eventos de un agregado como una única unidad de trabajo.
type Writer struct {
	db      *sql.DB
	dialect sqldb.Dialect
}

func NewWriter(db *sql.DB, dialect sqldb.Dialect) *Writer {
	return &Writer{db: db, dialect: dialect}
}

// DB expone la conexión para las lecturas de los repositorios.
func (w *Writer) DB() *sql.DB { return w.db }

// Dialect devuelve el dialecto con el que se reescriben las consultas.
func (w *Writer) Dialect() sqldb.Dialect { return w.dialect }

// Save abre una transacción, ejecuta persist, drena el buffer del agregado e
// inserta una fila PENDING por evento. Cualquier fallo deshace todo.
// Tras un fallo los eventos drenados se pierden con la transacción: el
// llamador debe descartar la instancia y volver a cargarla.
func (w *Writer) Save(ctx context.Context, agg sharedDomain.AggregateRoot, persist PersistFunc) error {
	return sqldb.WithTx(ctx, w.db, func(tx sqldb.DBTX) error {
		if persist != nil {
			if err := persist(ctx, tx); err != nil {
				return err
			}
		}
		return w.Append(ctx, tx, agg.DrainEvents()...)
	})
}

// Dispatch inserta un evento suelto en el outbox.
func (w *Writer) Dispatch(ctx context.Context, evt events.DomainEvent) error {
	return w.Append(ctx, w.db, evt)
}

// Append inserta filas en el outbox dentro de la transacción del llamador.
func (w *Writer) Append(ctx context.Context, tx sqldb.DBTX, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}
	records, err := NewOutboxEvents(evts...)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := sqldb.InsertOutboxTx(ctx, tx, w.dialect, rec); err != nil {
			return err
		}
	}
	return nil
}

// Verificación en tiempo de compilación.
var _ sharedDomain.EventDispatcher = (*Writer)(nil)
