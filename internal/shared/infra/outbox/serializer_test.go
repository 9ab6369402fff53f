package outbox

import (
	"database/sql/driver"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

type productID string

type money struct{ cents int64 }

func (m money) Value() (driver.Value, error) { return float64(m.cents) / 100, nil }

type sku struct{ code string }

func (s sku) MarshalText() ([]byte, error) { return []byte("SKU-" + s.code), nil }

type dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type richEvent struct {
	events.Base
	ProductID productID            `json:"productId"`
	Price     money                `json:"price"`
	SKU       sku                  `json:"sku"`
	Tracking  uuid.UUID            `json:"tracking"`
	Seen      time.Time            `json:"seen"`
	Sizes     []dimensions         `json:"sizes"`
	Tags      map[string]productID `json:"tags"`
	Note      *string              `json:"note"`
	Optional  string               `json:"optional,omitempty"`
	Hidden    string               `json:"-"`
	internal  string
}

func (richEvent) EventType() string { return "RichEvent" }

func TestSerialize_UnwrapsValuesAndDates(t *testing.T) {
	// Arrange
	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	tracking := uuid.New()
	evt := richEvent{
		Base:      events.Base{At: at},
		ProductID: "p-1",
		Price:     money{cents: 1999},
		SKU:       sku{code: "42"},
		Tracking:  tracking,
		Seen:      at,
		Sizes:     []dimensions{{Width: 1, Height: 2}},
		Tags:      map[string]productID{"main": "p-2"},
		Hidden:    "secreto",
		internal:  "x",
	}

	// Act
	payload, err := Serialize(evt)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "RichEvent", payload["eventType"])
	assert.Equal(t, "2024-05-01T10:30:00Z", payload["occurredAt"])
	assert.Equal(t, "p-1", payload["productId"])
	assert.Equal(t, 19.99, payload["price"])
	assert.Equal(t, "SKU-42", payload["sku"])
	assert.Equal(t, tracking.String(), payload["tracking"])
	assert.Equal(t, "2024-05-01T10:30:00Z", payload["seen"])
	assert.Equal(t, []interface{}{map[string]interface{}{"width": int64(1), "height": int64(2)}}, payload["sizes"])
	assert.Equal(t, map[string]interface{}{"main": "p-2"}, payload["tags"])
	assert.Contains(t, payload, "note")
	assert.Nil(t, payload["note"])
	assert.NotContains(t, payload, "optional")
	assert.NotContains(t, payload, "Hidden")
	assert.NotContains(t, payload, "internal")
	assert.NotContains(t, payload, "At")
}

func TestSerialize_ContractEvent(t *testing.T) {
	evt := events.OrderCreated{
		Base:    events.NewBase(),
		OrderID: "o-1",
		UserID:  "u-1",
		Items: []events.OrderLine{
			{ProductID: "p-1", ProductName: "Café", ProductPrice: 2.5, Quantity: 2},
		},
		TotalPrice: 5,
	}

	payload, err := Serialize(&evt)

	require.NoError(t, err)
	assert.Equal(t, events.OrderCreatedType, payload["eventType"])
	assert.NotContains(t, payload, "sourceCartId")
	items := payload["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].(map[string]interface{})["quantity"])
	_, err = time.Parse(time.RFC3339Nano, payload["occurredAt"].(string))
	assert.NoError(t, err)
}

func TestSerialize_Nil(t *testing.T) {
	_, err := Serialize(nil)
	assert.Error(t, err)

	var evt *events.CartCleared
	_, err = Serialize(evt)
	assert.Error(t, err)
}

func TestExtractAggregateID_Priority(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
		want    string
	}{
		{"aggregateId gana", map[string]interface{}{"aggregateId": "a", "orderId": "o"}, "a"},
		{"orderId antes que cartId", map[string]interface{}{"cartId": "c", "orderId": "o"}, "o"},
		{"inventoryId antes que productId", map[string]interface{}{"productId": "p", "inventoryId": "i"}, "i"},
		{"productId antes que userId", map[string]interface{}{"userId": "u", "productId": "p"}, "p"},
		{"vacíos se ignoran", map[string]interface{}{"orderId": "", "userId": "u"}, "u"},
		{"sin id usa el tipo", map[string]interface{}{"reason": "x"}, "SomethingHappened"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAggregateID(tt.payload, "SomethingHappened"))
		})
	}
}

func TestNewOutboxEvents_OrderAndStatus(t *testing.T) {
	// Arrange
	first := events.InventoryDecreased{Base: events.NewBase(), InventoryID: "inv-1", ProductID: "p-1", Amount: 3}
	second := events.InventoryOutOfStock{Base: events.NewBase(), InventoryID: "inv-1", ProductID: "p-1"}

	// Act
	records, err := NewOutboxEvents(first, second)

	// Assert
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, "inv-1", rec.AggregateID)
		assert.Equal(t, "PENDING", string(rec.Status))
		assert.Equal(t, 0, rec.RetryCount)
		assert.NotEqual(t, uuid.Nil, rec.ID)
	}
	assert.Equal(t, events.InventoryDecreasedType, records[0].EventType)
	assert.True(t, records[1].CreatedAt.After(records[0].CreatedAt))
}
