package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tradehub-be/internal/access"
	"tradehub-be/internal/address"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/cart"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/notification"
	"tradehub-be/internal/payment"
	"tradehub-be/internal/utils"
	"tradehub-be/internal/validation"

	"go.uber.org/zap"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Pricer prices requested lines against the catalog.
type Pricer interface {
	Price(ctx context.Context, actor access.Actor, in cart.QuoteInput) (*cart.Quote, error)
}

type Service interface {
	Create(ctx context.Context, actor access.Actor, in CreateInput) (*Order, error)
	Get(ctx context.Context, actor access.Actor, id string) (*Order, error)
	List(ctx context.Context, actor access.Actor, filter ListFilter) ([]*Order, error)
	UpdateStatus(ctx context.Context, actor access.Actor, id string, in StatusInput) (*Order, error)
	Cancel(ctx context.Context, actor access.Actor, id string, reason *string) (*Order, error)
	UpdatePaymentStatus(ctx context.Context, actor access.Actor, id string, status payment.Status) (*Order, error)
}

// AddressLookup resolves address book entries.
type AddressLookup interface {
	GetByID(ctx context.Context, id string) (*address.Address, error)
}

type service struct {
	repo      Repository
	pricer    Pricer
	addresses AddressLookup
	notifier  notification.Notifier
	now       func() time.Time
}

func NewService(repo Repository, pricer Pricer, addresses AddressLookup, notifier notification.Notifier) Service {
	return &service{repo: repo, pricer: pricer, addresses: addresses, notifier: notifier, now: time.Now}
}

// Create places an order. Prices are captured from the catalog at this
// moment and the line items never change afterwards.
func (s *service) Create(ctx context.Context, actor access.Actor, in CreateInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.String("user_id", actor.UserID),
	)

	if err := access.Check(actor, access.EntityOrder, access.OpCreate, false, false); err != nil {
		log.Warn("create order denied", zap.String("role", string(actor.Role)))
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	customerID, email := actor.UserID, in.CustomerEmail
	if actor.Role.IsStaff() {
		if in.CustomerID == nil || *in.CustomerID == "" {
			return nil, ErrCustomerRequired
		}
		customerID = *in.CustomerID
	} else if email == nil && actor.Email != "" {
		email = utils.StrPtr(actor.Email)
	}

	method := in.PaymentMethod
	if method == "" {
		method = payment.MethodTelegraphicTransfer
	}
	if !method.IsValid() {
		return nil, ErrInvalidMethod
	}

	shipTo, err := s.shippingAddress(ctx, customerID, in)
	if err != nil {
		return nil, err
	}

	quote, err := s.pricer.Price(ctx, actor, cart.QuoteInput{Items: in.Items})
	if err != nil {
		log.Warn("order pricing failed", zap.Error(err))
		return nil, err
	}

	now := s.now().UTC()
	o := &Order{
		OrderNumber:     utils.GenerateReference(utils.PrefixOrder),
		CustomerID:      customerID,
		CustomerName:    in.CustomerName,
		CustomerEmail:   email,
		Items:           quote.Items,
		Currency:        quote.Currency,
		Status:          StatusPending,
		PaymentStatus:   payment.StatusPending,
		PaymentMethod:   method,
		ShippingAddress: shipTo,
		Notes:           in.Notes,
	}
	o.record("status", "", string(StatusPending), actor.UserID, now, nil)

	if err := s.repo.Create(ctx, o); err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	log.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.String("total", o.Total.StringFixed(2)),
	)

	amount := o.Currency + " " + o.Total.StringFixed(2)
	s.notify(ctx, o, "Order "+o.OrderNumber+" received",
		fmt.Sprintf("We received your order %s for %s.\n\n%s",
			o.OrderNumber, amount,
			strings.Join(payment.Render(o.PaymentMethod, o.OrderNumber, amount), "\n")))
	return o, nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.EntityOrder, access.OpRead, o.OwnedBy(actor.UserID), false); err != nil {
		return nil, err
	}
	return o, nil
}

// shippingAddress prefers the free-text address and falls back to an active
// entry of the customer's address book.
func (s *service) shippingAddress(ctx context.Context, customerID string, in CreateInput) (*string, error) {
	if in.ShippingAddress != nil && strings.TrimSpace(*in.ShippingAddress) != "" || in.AddressID == nil {
		return in.ShippingAddress, nil
	}

	a, err := s.addresses.GetByID(ctx, *in.AddressID)
	if err != nil {
		return nil, err
	}
	if !a.OwnedBy(customerID) || !a.IsActive {
		return nil, address.ErrAddressNotFound
	}
	return utils.StrPtr(address.ShippingLine(a)), nil
}

// List returns orders newest first. Customers only ever see their own.
func (s *service) List(ctx context.Context, actor access.Actor, filter ListFilter) ([]*Order, error) {
	if actor.IsAnonymous() {
		return nil, apperr.Unauthenticated()
	}

	isOwner := false
	if !actor.Role.IsStaff() {
		filter.CustomerID = utils.StrPtr(actor.UserID)
		isOwner = true
	}
	if err := access.Check(actor, access.EntityOrder, access.OpRead, isOwner, false); err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, apperr.Validation("status", "invalid order status %q", *filter.Status)
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	} else if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, actor access.Actor, id string, in StatusInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
		zap.String("order_id", id),
	)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.EntityOrder, access.OpUpdate, o.OwnedBy(actor.UserID), false); err != nil {
		log.Warn("order update denied", zap.String("role", string(actor.Role)))
		return nil, err
	}

	override := in.Override && actor.Role.IsStaff()
	if err := Transition(o.Status, in.Status, actor.Role, o.PaymentStatus, override); err != nil {
		log.Warn("order transition rejected",
			zap.String("from", string(o.Status)),
			zap.String("to", string(in.Status)),
			zap.Error(err),
		)
		return nil, err
	}

	from := o.Status
	o.Status = in.Status
	switch {
	case in.Status == StatusCancelled:
		o.CancelReason = in.Note
	case in.Status == StatusDelivered && o.PaymentStatus != payment.StatusPaid:
		o.DeliveryOverride = true
		log.Warn("unpaid order delivered by override", zap.String("by", actor.UserID))
	}
	o.record("status", string(from), string(in.Status), actor.UserID, s.now().UTC(), in.Note)

	if err := s.repo.Update(ctx, o); err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return nil, err
	}

	log.Info("order status updated", zap.String("from", string(from)), zap.String("to", string(o.Status)))
	s.notify(ctx, o, "Order "+o.OrderNumber+" is "+string(o.Status),
		fmt.Sprintf("Your order %s moved from %s to %s.", o.OrderNumber, from, o.Status))
	return o, nil
}

func (s *service) Cancel(ctx context.Context, actor access.Actor, id string, reason *string) (*Order, error) {
	return s.UpdateStatus(ctx, actor, id, StatusInput{Status: StatusCancelled, Note: reason})
}

// UpdatePaymentStatus records the settlement outcome. Back office only.
func (s *service) UpdatePaymentStatus(ctx context.Context, actor access.Actor, id string, status payment.Status) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdatePaymentStatus"),
		zap.String("order_id", id),
	)

	if err := access.Check(actor, access.EntityOrder, access.OpUpdate, false, false); err != nil {
		return nil, err
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusCancelled {
		return nil, apperr.InvalidTransition("paymentStatus", o.PaymentStatus, status)
	}
	if err := payment.Transition(o.PaymentStatus, status); err != nil {
		log.Warn("payment transition rejected", zap.Error(err))
		return nil, err
	}

	from := o.PaymentStatus
	o.PaymentStatus = status
	o.record("paymentStatus", string(from), string(status), actor.UserID, s.now().UTC(), nil)

	if err := s.repo.Update(ctx, o); err != nil {
		log.Error("failed to update payment status", zap.Error(err))
		return nil, err
	}

	log.Info("payment status updated", zap.String("from", string(from)), zap.String("to", string(status)))
	s.notify(ctx, o, "Payment "+string(status)+" for "+o.OrderNumber,
		fmt.Sprintf("Payment for order %s is now %s.", o.OrderNumber, status))
	return o, nil
}

func (s *service) notify(ctx context.Context, o *Order, title, message string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Notify(ctx, notification.Input{
		UserID:  o.CustomerID,
		Email:   utils.PtrString(o.CustomerEmail),
		Kind:    notification.KindOrder,
		Title:   title,
		Message: message,
		Link:    utils.StrPtr("/orders/" + o.ID),
	})
	if err != nil {
		logger.FromCtx(ctx).Warn("order notification failed", zap.String("order_id", o.ID), zap.Error(err))
	}
}
