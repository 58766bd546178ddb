// Package analytics builds the back-office dashboard from the other
// repositories. Figures are read one collection at a time and may be
// slightly stale relative to each other.
package analytics

import (
	"context"

	"tradehub-be/internal/access"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/metrics"
	"tradehub-be/internal/order"
	"tradehub-be/internal/payment"
	"tradehub-be/internal/rfq"
	"tradehub-be/internal/shipment"
	"tradehub-be/internal/supplier"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderSource interface {
	CountByStatus(ctx context.Context, status order.Status) (int64, error)
	Each(ctx context.Context, filter order.ListFilter, fn func(*order.Order) error) error
}

type RFQSource interface {
	CountByStatus(ctx context.Context, status rfq.Status) (int64, error)
}

type ShipmentSource interface {
	CountByStatus(ctx context.Context, status shipment.Status) (int64, error)
}

type ProductSource interface {
	Count(ctx context.Context) (int64, error)
}

type SupplierSource interface {
	CountByStatus(ctx context.Context, status supplier.Status) (int64, error)
}

type Dashboard struct {
	Orders           map[order.Status]int64     `json:"orders"`
	RFQs             map[rfq.Status]int64       `json:"rfqs"`
	Shipments        map[shipment.Status]int64  `json:"shipments"`
	Revenue          map[string]decimal.Decimal `json:"revenue"`
	PaidOrders       int64                      `json:"paidOrders"`
	Products         int64                      `json:"products"`
	PendingSuppliers int64                      `json:"pendingSuppliers"`
	Counters         map[string]uint64          `json:"counters"`
}

type Service interface {
	Dashboard(ctx context.Context, actor access.Actor) (*Dashboard, error)
}

type service struct {
	orders    OrderSource
	rfqs      RFQSource
	shipments ShipmentSource
	products  ProductSource
	suppliers SupplierSource
}

func NewService(orders OrderSource, rfqs RFQSource, shipments ShipmentSource, products ProductSource, suppliers SupplierSource) Service {
	return &service{orders: orders, rfqs: rfqs, shipments: shipments, products: products, suppliers: suppliers}
}

var (
	orderStatuses = []order.Status{
		order.StatusPending, order.StatusConfirmed, order.StatusProcessing,
		order.StatusShipped, order.StatusDelivered, order.StatusCancelled,
	}
	rfqStatuses = []rfq.Status{
		rfq.StatusNew, rfq.StatusReviewing, rfq.StatusQuoted,
		rfq.StatusAccepted, rfq.StatusRejected, rfq.StatusExpired,
	}
	shipmentStatuses = []shipment.Status{
		shipment.StatusPreparing, shipment.StatusInTransit, shipment.StatusCustoms,
		shipment.StatusOutForDelivery, shipment.StatusDelivered,
	}
)

func (s *service) Dashboard(ctx context.Context, actor access.Actor) (*Dashboard, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Dashboard"),
	)

	if err := access.Check(actor, access.EntityAnalytics, access.OpRead, false, false); err != nil {
		log.Warn("dashboard denied", zap.String("role", string(actor.Role)))
		return nil, err
	}

	d := &Dashboard{
		Orders:    make(map[order.Status]int64, len(orderStatuses)),
		RFQs:      make(map[rfq.Status]int64, len(rfqStatuses)),
		Shipments: make(map[shipment.Status]int64, len(shipmentStatuses)),
		Revenue:   map[string]decimal.Decimal{},
	}

	var err error
	for _, st := range orderStatuses {
		if d.Orders[st], err = s.orders.CountByStatus(ctx, st); err != nil {
			return nil, err
		}
	}
	for _, st := range rfqStatuses {
		if d.RFQs[st], err = s.rfqs.CountByStatus(ctx, st); err != nil {
			return nil, err
		}
	}
	for _, st := range shipmentStatuses {
		if d.Shipments[st], err = s.shipments.CountByStatus(ctx, st); err != nil {
			return nil, err
		}
	}

	paid := payment.StatusPaid
	err = s.orders.Each(ctx, order.ListFilter{PaymentStatus: &paid}, func(o *order.Order) error {
		if o.Status == order.StatusCancelled {
			return nil
		}
		d.Revenue[o.Currency] = d.Revenue[o.Currency].Add(o.Total)
		d.PaidOrders++
		return nil
	})
	if err != nil {
		log.Error("failed to sum revenue", zap.Error(err))
		return nil, err
	}

	if d.Products, err = s.products.Count(ctx); err != nil {
		return nil, err
	}
	if d.PendingSuppliers, err = s.suppliers.CountByStatus(ctx, supplier.StatusPending); err != nil {
		return nil, err
	}
	d.Counters = metrics.Default.Snapshot()

	log.Debug("dashboard built", zap.Int64("paid_orders", d.PaidOrders))
	return d, nil
}
