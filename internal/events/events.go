package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventReservationCreated       = "reservation_created"
	EventReservationStatusChanged = "reservation_status_changed"
	EventPaymentRecorded          = "payment_recorded"
	EventReviewCreated            = "review_created"
)

// ReservationEventPayload describes the reservation snapshot for event consumers.
type ReservationEventPayload struct {
	ReservationID  string    `json:"reservation_id"`
	CaravanID      string    `json:"caravan_id"`
	GuestID        string    `json:"guest_id"`
	HostID         string    `json:"host_id,omitempty"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	TotalPrice     int64     `json:"total_price"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	ChangedBy      string    `json:"changed_by,omitempty"`
}

type PaymentEventPayload struct {
	PaymentID     string `json:"payment_id"`
	ReservationID string `json:"reservation_id"`
	UserID        string `json:"user_id"`
	Amount        int64  `json:"amount"`
	Method        string `json:"method"`
	Status        string `json:"status"`
}

type ReviewEventPayload struct {
	ReviewID  string `json:"review_id"`
	AuthorID  string `json:"author_id"`
	CaravanID string `json:"caravan_id"`
	Rating    int    `json:"rating"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Decode unmarshals the JSON payload into v.
func (e *Event) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// ErrorHandler receives handler failures; the bus itself never fails a publish because of them.
type ErrorHandler func(event *Event, err error)

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	onError     ErrorHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// OnError sets the callback for handler failures.
func (b *EventBus) OnError(h ErrorHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onError = h
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	onError := b.onError
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		if err := handler(event); err != nil && onError != nil {
			onError(event, err)
		}
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	event, err := NewJSONEvent(eventType, payload)
	if err != nil {
		return err
	}

	b.Publish(&event)
	return nil
}

// NewJSONEvent builds an Event with JSON payload for manual publishing.
func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{Type: eventType, Payload: raw, CreatedAt: time.Now()}, nil
}
