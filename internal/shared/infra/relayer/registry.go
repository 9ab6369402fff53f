package relayer

import (
	"sort"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
)

// RegistryBuilder acumula handlers por tipo de evento durante el arranque.
type RegistryBuilder struct {
	handlers map[string][]sharedDomain.EventHandler
}

func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{handlers: make(map[string][]sharedDomain.EventHandler)}
}

// Register añade handlers al final de la lista del tipo, en el orden recibido.
func (b *RegistryBuilder) Register(eventType string, handlers ...sharedDomain.EventHandler) *RegistryBuilder {
	for _, h := range handlers {
		if h != nil {
			b.handlers[eventType] = append(b.handlers[eventType], h)
		}
	}
	return b
}

// Build congela el registro. Cambios posteriores en el builder no le afectan.
func (b *RegistryBuilder) Build() *Registry {
	frozen := make(map[string][]sharedDomain.EventHandler, len(b.handlers))
	for eventType, hs := range b.handlers {
		frozen[eventType] = append([]sharedDomain.EventHandler(nil), hs...)
	}
	return &Registry{handlers: frozen}
}

// Registry es el mapa inmutable tipo de evento → handlers.
// Sólo se lee tras el arranque, así que no necesita sincronización.
type Registry struct {
	handlers map[string][]sharedDomain.EventHandler
}

// Handlers devuelve una copia de la lista; vacía si nadie escucha el tipo.
func (r *Registry) Handlers(eventType string) []sharedDomain.EventHandler {
	if r == nil {
		return nil
	}
	return append([]sharedDomain.EventHandler(nil), r.handlers[eventType]...)
}

// EventTypes lista los tipos con al menos un handler, ordenados.
func (r *Registry) EventTypes() []string {
	if r == nil {
		return nil
	}
	types := make([]string, 0, len(r.handlers))
	for eventType := range r.handlers {
		types = append(types, eventType)
	}
	sort.Strings(types)
	return types
}
