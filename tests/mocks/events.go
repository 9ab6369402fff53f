package mocks

import (
	"encoding/json"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/outbox"
)

// StoredEventFrom hace el mismo camino que un evento real: serializa, pasa por JSON
// (como al leerlo de la tabla outbox) y lo reconstruye como lo vería un handler.
func StoredEventFrom(evt events.DomainEvent) sharedDomain.StoredEvent {
	rec, err := outbox.NewOutboxEvent(evt)
	if err != nil {
		panic(err)
	}
	data, err := json.Marshal(rec.Payload)
	if err != nil {
		panic(err)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		panic(err)
	}
	rec.Payload = payload
	return sharedDomain.NewStoredEvent(rec)
}
