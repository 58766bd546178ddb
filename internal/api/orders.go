package api

import (
	"tradehub-be/internal/cart"
	"tradehub-be/internal/order"
	"tradehub-be/internal/payment"

	"github.com/gin-gonic/gin"
)

func (h *Handler) QuoteCart(c *gin.Context) {
	var in cart.QuoteInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	q, err := h.svc.Cart.Price(c.Request.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, q)
}

func (h *Handler) ListOrders(c *gin.Context) {
	filter := order.ListFilter{
		CustomerID: queryStr(c, "customerId"),
		Limit:      queryInt(c, "limit"),
		Offset:     queryInt(c, "offset"),
	}
	if s := queryStr(c, "status"); s != nil {
		st := order.Status(*s)
		filter.Status = &st
	}
	if s := queryStr(c, "paymentStatus"); s != nil {
		ps := payment.Status(*s)
		filter.PaymentStatus = &ps
	}
	list, err := h.svc.Orders.List(c.Request.Context(), actor(c), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var in order.CreateInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	o, err := h.svc.Orders.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, o)
}

func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.svc.Orders.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, o)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var in order.StatusInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	o, err := h.svc.Orders.UpdateStatus(c.Request.Context(), actor(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, o)
}

type reasonRequest struct {
	Reason *string `json:"reason"`
}

func (h *Handler) CancelOrder(c *gin.Context) {
	var in reasonRequest
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	o, err := h.svc.Orders.Cancel(c.Request.Context(), actor(c), c.Param("id"), in.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, o)
}

type paymentRequest struct {
	Status payment.Status `json:"status"`
}

func (h *Handler) UpdateOrderPayment(c *gin.Context) {
	var in paymentRequest
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	o, err := h.svc.Orders.UpdatePaymentStatus(c.Request.Context(), actor(c), c.Param("id"), in.Status)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, o)
}

func (h *Handler) ListOrderShipments(c *gin.Context) {
	list, err := h.svc.Shipments.ListByOrder(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}
