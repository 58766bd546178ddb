package notification

import "tradehub-be/internal/apperr"

var ErrNotificationNotFound = apperr.NotFound("notification")
