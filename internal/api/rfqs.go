package api

import (
	"tradehub-be/internal/rfq"
	"tradehub-be/internal/shipment"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListRFQs(c *gin.Context) {
	filter := rfq.ListFilter{
		CustomerID: queryStr(c, "customerId"),
		Limit:      queryInt(c, "limit"),
		Offset:     queryInt(c, "offset"),
	}
	if s := queryStr(c, "status"); s != nil {
		st := rfq.Status(*s)
		filter.Status = &st
	}
	list, err := h.svc.RFQs.List(c.Request.Context(), actor(c), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *Handler) CreateRFQ(c *gin.Context) {
	var in rfq.CreateInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	r, err := h.svc.RFQs.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, r)
}

func (h *Handler) GetRFQ(c *gin.Context) {
	r, err := h.svc.RFQs.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, r)
}

func (h *Handler) StartRFQReview(c *gin.Context) {
	r, err := h.svc.RFQs.StartReview(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, r)
}

func (h *Handler) QuoteRFQ(c *gin.Context) {
	var in rfq.QuoteInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	r, err := h.svc.RFQs.Quote(c.Request.Context(), actor(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, r)
}

type noteRequest struct {
	Note *string `json:"note"`
}

func (h *Handler) AcceptRFQ(c *gin.Context) {
	var in noteRequest
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	r, err := h.svc.RFQs.Accept(c.Request.Context(), actor(c), c.Param("id"), in.Note)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, r)
}

func (h *Handler) RejectRFQ(c *gin.Context) {
	var in noteRequest
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	r, err := h.svc.RFQs.Reject(c.Request.Context(), actor(c), c.Param("id"), in.Note)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, r)
}

func (h *Handler) CreateShipment(c *gin.Context) {
	var in shipment.CreateInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	s, err := h.svc.Shipments.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, s)
}

func (h *Handler) GetShipment(c *gin.Context) {
	s, err := h.svc.Shipments.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, s)
}

func (h *Handler) TrackShipment(c *gin.Context) {
	s, err := h.svc.Shipments.Track(c.Request.Context(), actor(c), c.Param("tracking"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, s)
}

func (h *Handler) AppendShipmentEvent(c *gin.Context) {
	var in shipment.EventInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	s, err := h.svc.Shipments.AppendEvent(c.Request.Context(), actor(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, s)
}
