// Package api exposes the services over HTTP with gin. Handlers only decode
// requests, take the actor from the request context and map results and
// errors to JSON; every rule lives in the services.
package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"tradehub-be/internal/access"
	"tradehub-be/internal/address"
	"tradehub-be/internal/analytics"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/blog"
	"tradehub-be/internal/cart"
	"tradehub-be/internal/category"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/metrics"
	"tradehub-be/internal/middleware"
	"tradehub-be/internal/notification"
	"tradehub-be/internal/order"
	"tradehub-be/internal/product"
	"tradehub-be/internal/review"
	"tradehub-be/internal/rfq"
	"tradehub-be/internal/shipment"
	"tradehub-be/internal/supplier"
	"tradehub-be/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Services struct {
	Users         user.Service
	Categories    category.Service
	Products      product.Service
	Reviews       review.Service
	Cart          cart.Service
	Addresses     address.Service
	Orders        order.Service
	RFQs          rfq.Service
	Shipments     shipment.Service
	Blog          blog.Service
	Suppliers     supplier.Service
	Notifications notification.Service
	Analytics     analytics.Service
}

type Handler struct {
	svc          Services
	tokenTTL     time.Duration
	secureCookie bool
}

// NewHandler builds the handlers. tokenTTL sets the session cookie lifetime.
func NewHandler(svc Services, tokenTTL time.Duration, secureCookie bool) *Handler {
	return &Handler{svc: svc, tokenTTL: tokenTTL, secureCookie: secureCookie}
}

func actor(c *gin.Context) access.Actor {
	return middleware.ActorFrom(c.Request.Context())
}

// bind decodes the JSON body into dest. An empty body leaves dest untouched.
func bind(c *gin.Context, dest any) error {
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Validation("body", "malformed request body: %v", err)
	}
	return nil
}

// fail writes err as {"error", "kind", "field"}. Infrastructure failures
// are logged and rendered without detail.
func fail(c *gin.Context, err error) {
	ctx := c.Request.Context()
	status := apperr.HTTPStatus(err)
	if !apperr.IsDomain(err) {
		logger.FromCtx(ctx).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "internal server error", "kind": apperr.KindInfrastructure})
		return
	}

	body := gin.H{"error": err.Error(), "kind": apperr.KindOf(err)}
	if field := apperr.FieldOf(err); field != "" {
		body["field"] = field
	}
	c.JSON(status, body)
}

func ok(c *gin.Context, v any) {
	metrics.Default.Counter(metrics.RequestsServed).Inc()
	c.JSON(http.StatusOK, v)
}

func created(c *gin.Context, v any) {
	metrics.Default.Counter(metrics.RequestsServed).Inc()
	c.JSON(http.StatusCreated, v)
}

func queryInt(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}

func queryStr(c *gin.Context, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}

func queryBool(c *gin.Context, key string) *bool {
	v, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return nil
	}
	return &v
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
