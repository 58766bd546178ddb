package api

import (
	"net/http"

	"tradehub-be/internal/access"
	"tradehub-be/internal/address"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/user"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	list, err := h.svc.Notifications.ListMine(c.Request.Context(), actor(c), c.Query("unread") == "true")
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	n, err := h.svc.Notifications.MarkRead(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, n)
}

func (h *Handler) ListUsers(c *gin.Context) {
	filter := user.ListFilter{
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
	}
	if r := queryStr(c, "role"); r != nil {
		role := access.Role(*r)
		filter.Role = &role
	}
	list, err := h.svc.Users.List(c.Request.Context(), actor(c), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, user.ToResponses(list))
}

func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.svc.Users.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, user.ToResponse(u))
}

func (h *Handler) UpdateMe(c *gin.Context) {
	a := actor(c)
	if a.IsAnonymous() {
		fail(c, apperr.Unauthenticated())
		return
	}
	var in user.UpdateProfileInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	u, err := h.svc.Users.UpdateProfile(c.Request.Context(), a, a.UserID, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, user.ToResponse(u))
}

type roleRequest struct {
	Role access.Role `json:"role"`
}

func (h *Handler) ChangeRole(c *gin.Context) {
	var in roleRequest
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	u, err := h.svc.Users.ChangeRole(c.Request.Context(), actor(c), c.Param("id"), in.Role)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, user.ToResponse(u))
}

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.svc.Analytics.Dashboard(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, d)
}

func (h *Handler) ListAddresses(c *gin.Context) {
	list, err := h.svc.Addresses.List(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *Handler) GetAddress(c *gin.Context) {
	a, err := h.svc.Addresses.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, a)
}

func (h *Handler) CreateAddress(c *gin.Context) {
	var in address.Input
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	a, err := h.svc.Addresses.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, a)
}

func (h *Handler) UpdateAddress(c *gin.Context) {
	var in address.Input
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	a, err := h.svc.Addresses.Update(c.Request.Context(), actor(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, a)
}

func (h *Handler) DeleteAddress(c *gin.Context) {
	if err := h.svc.Addresses.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) SetDefaultAddress(c *gin.Context) {
	if err := h.svc.Addresses.SetDefault(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
