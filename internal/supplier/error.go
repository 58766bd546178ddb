package supplier

import "tradehub-be/internal/apperr"

var (
	ErrUserAlreadyLinked = apperr.Validation("userId", "user is already linked to a supplier")
	ErrUserNotFound      = apperr.Validation("userId", "linked user does not exist")
)
