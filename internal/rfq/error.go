package rfq

import "tradehub-be/internal/apperr"

var (
	ErrRFQNotFound    = apperr.NotFound("rfq")
	ErrQuoterNotStaff = apperr.Validation("quotedBy", "quotedBy must reference a staff, admin or superadmin user")
	ErrPastDelivery   = apperr.Validation("deliveryDate", "deliveryDate must be in the future")
)
