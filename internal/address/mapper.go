package address

import (
	"strings"

	"tradehub-be/internal/utils"
)

// ShippingLine renders a as the single text line stored on an order.
func ShippingLine(a *Address) string {
	parts := []string{a.ReceiverName, a.Phone, a.Line1}
	if l2 := strings.TrimSpace(utils.PtrString(a.Line2)); l2 != "" {
		parts = append(parts, l2)
	}
	city := a.City
	if p := strings.TrimSpace(utils.PtrString(a.Province)); p != "" {
		city += ", " + p
	}
	if pc := strings.TrimSpace(utils.PtrString(a.PostalCode)); pc != "" {
		city += " " + pc
	}
	parts = append(parts, city, a.Country)
	return strings.Join(parts, ", ")
}

func fromInput(userID string, in Input) *Address {
	return &Address{
		UserID:       userID,
		ReceiverName: strings.TrimSpace(in.ReceiverName),
		Phone:        strings.TrimSpace(in.Phone),
		Line1:        strings.TrimSpace(in.Line1),
		Line2:        in.Line2,
		City:         strings.TrimSpace(in.City),
		Province:     in.Province,
		PostalCode:   in.PostalCode,
		Country:      strings.TrimSpace(in.Country),
		IsDefault:    in.SetAsDefault,
		IsActive:     true,
	}
}
