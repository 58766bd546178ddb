package address

import "tradehub-be/internal/apperr"

var ErrAddressNotFound = apperr.NotFound("address")
