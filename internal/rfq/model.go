package rfq

import (
	"time"

	"tradehub-be/internal/apperr"
	"tradehub-be/internal/docstore"
	"tradehub-be/internal/validation"

	"github.com/shopspring/decimal"
)

const Collection = "rfqs"

type RFQ struct {
	docstore.Meta
	RFQNumber     string           `json:"rfqNumber" validate:"required"`
	CustomerID    string           `json:"customerId" validate:"required"`
	CustomerName  string           `json:"customerName" validate:"required,max=120"`
	CustomerEmail string           `json:"customerEmail" validate:"required,email"`
	CustomerPhone *string          `json:"customerPhone" validate:"omitempty,max=32"`
	CompanyName   *string          `json:"companyName" validate:"omitempty,max=200"`
	ProductName   string           `json:"productName" validate:"required,max=200"`
	ProductID     *string          `json:"productId"`
	Quantity      decimal.Decimal  `json:"quantity" validate:"gt=0"`
	Unit          string           `json:"unit" validate:"required,max=32"`
	DeliveryDate  *time.Time       `json:"deliveryDate"`
	Destination   *string          `json:"destination" validate:"omitempty,max=200"`
	Message       *string          `json:"message" validate:"omitempty,max=4000"`
	Status        Status           `json:"status" validate:"required,oneof=new reviewing quoted accepted rejected expired"`
	QuotedPrice   *decimal.Decimal `json:"quotedPrice"`
	QuotedBy      *string          `json:"quotedBy"`
	QuotedAt      *time.Time       `json:"quotedAt"`
	QuoteCurrency *string          `json:"quoteCurrency" validate:"omitempty,oneof=USD ETB EUR"`
	QuoteNotes    *string          `json:"quoteNotes" validate:"omitempty,max=2000"`
	ResponseNote  *string          `json:"responseNote" validate:"omitempty,max=2000"`
	ClosedAt      *time.Time       `json:"closedAt"`
}

func (r *RFQ) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if err := checkQuotePair(r.QuotedPrice, r.QuotedBy); err != nil {
		return err
	}
	if r.QuotedPrice != nil && r.QuotedPrice.IsNegative() {
		return apperr.Validation("quotedPrice", "quotedPrice must not be negative")
	}
	switch r.Status {
	case StatusQuoted, StatusAccepted, StatusRejected:
		if r.QuotedPrice == nil {
			return apperr.New(apperr.KindIncompleteQuote, "quotedPrice", "status %s requires a quote", r.Status)
		}
	}
	return nil
}

func (r *RFQ) OwnedBy(userID string) bool {
	return userID != "" && r.CustomerID == userID
}

// Expired reports whether an open RFQ has run past its window or its
// requested delivery date at now.
func (r *RFQ) Expired(now time.Time, window time.Duration) bool {
	if !r.Status.IsOpen() {
		return false
	}
	if window > 0 && now.After(r.CreatedAt.Add(window)) {
		return true
	}
	return r.DeliveryDate != nil && now.After(*r.DeliveryDate)
}

func checkQuotePair(price *decimal.Decimal, by *string) error {
	hasPrice, hasBy := price != nil, by != nil && *by != ""
	switch {
	case hasPrice && !hasBy:
		return apperr.New(apperr.KindIncompleteQuote, "quotedBy", "quotedPrice requires quotedBy")
	case hasBy && !hasPrice:
		return apperr.New(apperr.KindIncompleteQuote, "quotedPrice", "quotedBy requires quotedPrice")
	}
	return nil
}

type CreateInput struct {
	// CustomerID lets back-office staff log an RFQ received offline.
	CustomerID    *string         `json:"customerId"`
	CustomerName  string          `json:"customerName" validate:"required,max=120"`
	CustomerEmail string          `json:"customerEmail" validate:"required,email"`
	CustomerPhone *string         `json:"customerPhone" validate:"omitempty,max=32"`
	CompanyName   *string         `json:"companyName" validate:"omitempty,max=200"`
	ProductName   string          `json:"productName" validate:"required,max=200"`
	ProductID     *string         `json:"productId"`
	Quantity      decimal.Decimal `json:"quantity" validate:"gt=0"`
	Unit          string          `json:"unit" validate:"required,max=32"`
	DeliveryDate  *time.Time      `json:"deliveryDate"`
	Destination   *string         `json:"destination" validate:"omitempty,max=200"`
	Message       *string         `json:"message" validate:"omitempty,max=4000"`
}

// QuoteInput sets price and quoting user together; one without the other is
// an incomplete quote.
type QuoteInput struct {
	QuotedPrice *decimal.Decimal `json:"quotedPrice"`
	QuotedBy    *string          `json:"quotedBy"`
	Currency    *string          `json:"currency" validate:"omitempty,oneof=USD ETB EUR"`
	Notes       *string          `json:"notes" validate:"omitempty,max=2000"`
}

type ListFilter struct {
	CustomerID *string `json:"customerId"`
	Status     *Status `json:"status"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
}
