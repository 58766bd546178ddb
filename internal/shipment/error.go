package shipment

import "tradehub-be/internal/apperr"

var (
	ErrShipmentNotFound = apperr.NotFound("shipment")
	ErrShipmentClosed   = apperr.New(apperr.KindShipmentClosed, "timeline", "shipment already delivered")
	ErrOrderCancelled   = apperr.Validation("orderId", "cannot ship a cancelled order")
)
