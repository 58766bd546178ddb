package shipment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tradehub-be/internal/access"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/notification"
	"tradehub-be/internal/order"
	"tradehub-be/internal/utils"
	"tradehub-be/internal/validation"

	"go.uber.org/zap"
)

type OrderLookup interface {
	GetByID(ctx context.Context, id string) (*order.Order, error)
}

type Service interface {
	Create(ctx context.Context, actor access.Actor, in CreateInput) (*Shipment, error)
	AppendEvent(ctx context.Context, actor access.Actor, id string, in EventInput) (*Shipment, error)
	Get(ctx context.Context, actor access.Actor, id string) (*Shipment, error)
	Track(ctx context.Context, actor access.Actor, trackingNumber string) (*Shipment, error)
	ListByOrder(ctx context.Context, actor access.Actor, orderID string) ([]*Shipment, error)
}

type service struct {
	repo     Repository
	orders   OrderLookup
	notifier notification.Notifier
	now      func() time.Time
}

func NewService(repo Repository, orders OrderLookup, notifier notification.Notifier) Service {
	return &service{repo: repo, orders: orders, notifier: notifier, now: time.Now}
}

func (s *service) Create(ctx context.Context, actor access.Actor, in CreateInput) (*Shipment, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateShipment"),
		zap.String("order_id", in.OrderID),
	)

	if err := access.Check(actor, access.EntityShipment, access.OpCreate, false, false); err != nil {
		log.Warn("create shipment denied", zap.String("role", string(actor.Role)))
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	o, err := s.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		log.Warn("order lookup failed", zap.Error(err))
		return nil, err
	}
	if o.Status == order.StatusCancelled {
		return nil, ErrOrderCancelled
	}

	sh := &Shipment{
		OrderID:           o.ID,
		CustomerID:        o.CustomerID,
		TrackingNumber:    utils.GenerateReference(utils.PrefixTracking),
		Carrier:           in.Carrier,
		Origin:            in.Origin,
		Destination:       in.Destination,
		EstimatedDelivery: in.EstimatedDelivery,
	}
	if sh.Destination == nil && o.ShippingAddress != nil {
		sh.Destination = o.ShippingAddress
	}
	if err := sh.Append(Event{
		Status:      StatusPreparing,
		Location:    in.Origin,
		Description: in.Note,
		Timestamp:   s.now().UTC(),
		RecordedBy:  actor.UserID,
	}); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, sh); err != nil {
		log.Error("failed to create shipment", zap.Error(err))
		return nil, err
	}

	log.Info("shipment created", zap.String("shipment_id", sh.ID), zap.String("tracking_number", sh.TrackingNumber))
	s.notify(ctx, o, sh, fmt.Sprintf("Your order %s is being prepared for shipment. Tracking number: %s.", o.OrderNumber, sh.TrackingNumber))
	return sh, nil
}

// AppendEvent adds a tracking update. Events must not predate the last one
// and nothing may follow delivery.
func (s *service) AppendEvent(ctx context.Context, actor access.Actor, id string, in EventInput) (*Shipment, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AppendShipmentEvent"),
		zap.String("shipment_id", id),
		zap.String("status", string(in.Status)),
	)

	if err := access.Check(actor, access.EntityShipment, access.OpUpdate, false, false); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	sh, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	at := s.now().UTC()
	if in.Timestamp != nil {
		at = in.Timestamp.UTC()
	}
	err = sh.Append(Event{
		Status:      in.Status,
		Location:    in.Location,
		Description: in.Description,
		Timestamp:   at,
		RecordedBy:  actor.UserID,
	})
	if err != nil {
		log.Warn("shipment event rejected", zap.Error(err))
		return nil, err
	}

	if err := s.repo.Update(ctx, sh); err != nil {
		log.Error("failed to append shipment event", zap.Error(err))
		return nil, err
	}
	log.Info("shipment event appended", zap.Int("events", len(sh.Timeline)))

	if o, err := s.orders.GetByID(ctx, sh.OrderID); err == nil {
		msg := fmt.Sprintf("Shipment %s for order %s is now %s.", sh.TrackingNumber, o.OrderNumber, humanize(sh.Status))
		if in.Location != nil {
			msg += " Location: " + *in.Location + "."
		}
		s.notify(ctx, o, sh, msg)
	} else {
		log.Warn("order lookup for notification failed", zap.Error(err))
	}
	return sh, nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id string) (*Shipment, error) {
	sh, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.EntityShipment, access.OpRead, sh.OwnedBy(actor.UserID), false); err != nil {
		return nil, err
	}
	return sh, nil
}

func (s *service) Track(ctx context.Context, actor access.Actor, trackingNumber string) (*Shipment, error) {
	trackingNumber = strings.ToUpper(strings.TrimSpace(trackingNumber))
	if trackingNumber == "" {
		return nil, ErrShipmentNotFound
	}
	sh, err := s.repo.GetByTracking(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.EntityShipment, access.OpRead, sh.OwnedBy(actor.UserID), false); err != nil {
		return nil, err
	}
	return sh, nil
}

func (s *service) ListByOrder(ctx context.Context, actor access.Actor, orderID string) ([]*Shipment, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.EntityShipment, access.OpRead, o.OwnedBy(actor.UserID), false); err != nil {
		return nil, err
	}
	return s.repo.ListByOrder(ctx, orderID)
}

func (s *service) notify(ctx context.Context, o *order.Order, sh *Shipment, message string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Notify(ctx, notification.Input{
		UserID:  o.CustomerID,
		Email:   utils.PtrString(o.CustomerEmail),
		Kind:    notification.KindShipment,
		Title:   "Shipment " + sh.TrackingNumber,
		Message: message,
		Link:    utils.StrPtr("/track/" + sh.TrackingNumber),
	})
	if err != nil {
		logger.FromCtx(ctx).Warn("shipment notification failed", zap.String("shipment_id", sh.ID), zap.Error(err))
	}
}

func humanize(s Status) string {
	return strings.ReplaceAll(string(s), "_", " ")
}
