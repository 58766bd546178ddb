package shipment

import (
	"time"

	"tradehub-be/internal/apperr"
	"tradehub-be/internal/docstore"
	"tradehub-be/internal/validation"
)

const Collection = "shipments"

type Status string

const (
	StatusPreparing      Status = "preparing"
	StatusInTransit      Status = "in_transit"
	StatusCustoms        Status = "customs"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPreparing, StatusInTransit, StatusCustoms, StatusOutForDelivery, StatusDelivered:
		return true
	}
	return false
}

type Event struct {
	Status      Status    `json:"status" validate:"required,oneof=preparing in_transit customs out_for_delivery delivered"`
	Location    *string   `json:"location" validate:"omitempty,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=1000"`
	Timestamp   time.Time `json:"timestamp" validate:"required"`
	RecordedBy  string    `json:"recordedBy"`
}

// Shipment carries an append-only timeline. Status is the status of the last
// timeline event and is never set on its own.
type Shipment struct {
	docstore.Meta
	OrderID           string     `json:"orderId" validate:"required"`
	CustomerID        string     `json:"customerId" validate:"required"`
	TrackingNumber    string     `json:"trackingNumber" validate:"required"`
	Carrier           *string    `json:"carrier" validate:"omitempty,max=120"`
	Origin            *string    `json:"origin" validate:"omitempty,max=200"`
	Destination       *string    `json:"destination" validate:"omitempty,max=500"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
	Status            Status     `json:"status"`
	Timeline          []Event    `json:"timeline" validate:"min=1,dive"`
}

// Derive sets Status from the last timeline event.
func (s *Shipment) Derive() bool {
	if len(s.Timeline) == 0 {
		return false
	}
	last := s.Timeline[len(s.Timeline)-1].Status
	if s.Status == last {
		return false
	}
	s.Status = last
	return true
}

func (s *Shipment) Validate() error {
	if err := validation.Struct(s); err != nil {
		return err
	}
	for i := 1; i < len(s.Timeline); i++ {
		prev, cur := s.Timeline[i-1], s.Timeline[i]
		if cur.Timestamp.Before(prev.Timestamp) {
			return apperr.New(apperr.KindOutOfOrderEvent, "timeline",
				"event %d at %s is earlier than event %d at %s", i, cur.Timestamp.Format(time.RFC3339), i-1, prev.Timestamp.Format(time.RFC3339))
		}
		if prev.Status == StatusDelivered {
			return apperr.New(apperr.KindShipmentClosed, "timeline", "event %d follows delivery", i)
		}
	}
	if last := s.Last(); last != nil && s.Status != last.Status {
		return apperr.Validation("status", "status %s does not match last event %s", s.Status, last.Status)
	}
	return nil
}

func (s *Shipment) Last() *Event {
	if len(s.Timeline) == 0 {
		return nil
	}
	return &s.Timeline[len(s.Timeline)-1]
}

func (s *Shipment) Closed() bool {
	return s.Status == StatusDelivered
}

func (s *Shipment) OwnedBy(userID string) bool {
	return userID != "" && s.CustomerID == userID
}

// Append adds e to the timeline. The timeline only grows forward in time and
// nothing follows a delivered event.
func (s *Shipment) Append(e Event) error {
	if !e.Status.IsValid() {
		return apperr.Validation("status", "invalid shipment status %q", e.Status)
	}
	if s.Closed() {
		return ErrShipmentClosed
	}
	if last := s.Last(); last != nil && e.Timestamp.Before(last.Timestamp) {
		return apperr.New(apperr.KindOutOfOrderEvent, "timestamp",
			"event at %s is earlier than the last event at %s", e.Timestamp.Format(time.RFC3339), last.Timestamp.Format(time.RFC3339))
	}
	s.Timeline = append(s.Timeline, e)
	s.Derive()
	return nil
}

type CreateInput struct {
	OrderID           string     `json:"orderId" validate:"required"`
	Carrier           *string    `json:"carrier" validate:"omitempty,max=120"`
	Origin            *string    `json:"origin" validate:"omitempty,max=200"`
	Destination       *string    `json:"destination" validate:"omitempty,max=500"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
	Note              *string    `json:"note" validate:"omitempty,max=1000"`
}

// EventInput is one tracking update. A zero Timestamp means now.
type EventInput struct {
	Status      Status     `json:"status" validate:"required"`
	Location    *string    `json:"location" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Timestamp   *time.Time `json:"timestamp"`
}
