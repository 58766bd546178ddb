package notification

import (
	"time"

	"tradehub-be/internal/docstore"
	"tradehub-be/internal/validation"
)

const Collection = "notifications"

type Kind string

const (
	KindOrder    Kind = "order"
	KindRFQ      Kind = "rfq"
	KindShipment Kind = "shipment"
	KindSupplier Kind = "supplier"
	KindSystem   Kind = "system"
)

type Notification struct {
	docstore.Meta
	UserID  string     `json:"userId" validate:"required"`
	Kind    Kind       `json:"kind" validate:"required,oneof=order rfq shipment supplier system"`
	Title   string     `json:"title" validate:"required,max=200"`
	Message string     `json:"message" validate:"max=4000"`
	Link    *string    `json:"link"`
	IsRead  bool       `json:"isRead"`
	ReadAt  *time.Time `json:"readAt"`
}

func (n *Notification) Validate() error {
	return validation.Struct(n)
}

// Input describes one notification. Email, when set, also receives the
// message by mail.
type Input struct {
	UserID  string  `json:"userId" validate:"required"`
	Email   string  `json:"email" validate:"omitempty,email"`
	Kind    Kind    `json:"kind" validate:"required,oneof=order rfq shipment supplier system"`
	Title   string  `json:"title" validate:"required,max=200"`
	Message string  `json:"message" validate:"max=4000"`
	Link    *string `json:"link"`
}
