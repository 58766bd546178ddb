package api

import (
	"tradehub-be/internal/blog"
	"tradehub-be/internal/supplier"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListPosts(c *gin.Context) {
	filter := blog.ListFilter{
		Category: queryStr(c, "category"),
		Limit:    queryInt(c, "limit"),
		Offset:   queryInt(c, "offset"),
	}
	list, err := h.svc.Blog.List(c.Request.Context(), actor(c), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *Handler) GetPost(c *gin.Context) {
	p, err := h.svc.Blog.GetBySlug(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, p)
}

func (h *Handler) CreatePost(c *gin.Context) {
	var in blog.CreateInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	p, err := h.svc.Blog.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, p)
}

func (h *Handler) UpdatePost(c *gin.Context) {
	var in blog.UpdateInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	p, err := h.svc.Blog.Update(c.Request.Context(), actor(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, p)
}

func (h *Handler) PublishPost(c *gin.Context) {
	p, err := h.svc.Blog.Publish(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, p)
}

func (h *Handler) UnpublishPost(c *gin.Context) {
	p, err := h.svc.Blog.Unpublish(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, p)
}

func (h *Handler) RecordPostView(c *gin.Context) {
	p, err := h.svc.Blog.RecordView(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"views": p.Views})
}

func (h *Handler) ListSuppliers(c *gin.Context) {
	filter := supplier.ListFilter{
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
	}
	if s := queryStr(c, "status"); s != nil {
		st := supplier.Status(*s)
		filter.Status = &st
	}
	list, err := h.svc.Suppliers.List(c.Request.Context(), actor(c), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *Handler) CreateSupplier(c *gin.Context) {
	var in supplier.CreateInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	s, err := h.svc.Suppliers.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, s)
}

func (h *Handler) GetSupplier(c *gin.Context) {
	s, err := h.svc.Suppliers.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, s)
}

func (h *Handler) UpdateSupplier(c *gin.Context) {
	var in supplier.ProfileInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	s, err := h.svc.Suppliers.UpdateProfile(c.Request.Context(), actor(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, s)
}

type supplierStatusRequest struct {
	Status supplier.Status `json:"status"`
	Reason *string         `json:"reason"`
}

func (h *Handler) ChangeSupplierStatus(c *gin.Context) {
	var in supplierStatusRequest
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	s, err := h.svc.Suppliers.ChangeStatus(c.Request.Context(), actor(c), c.Param("id"), in.Status, in.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, s)
}

func (h *Handler) ListSupplierProducts(c *gin.Context) {
	res, err := h.svc.Products.ListBySupplier(c.Request.Context(), actor(c), c.Param("id"), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}
