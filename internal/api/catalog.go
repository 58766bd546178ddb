package api

import (
	"errors"
	"net/http"

	"tradehub-be/internal/apperr"
	"tradehub-be/internal/category"
	"tradehub-be/internal/product"
	"tradehub-be/internal/review"
	"tradehub-be/internal/storage"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListCategories(c *gin.Context) {
	filter := category.ListFilter{
		ParentID: queryStr(c, "parentId"),
		RootOnly: c.Query("root") == "true",
	}
	if t := queryStr(c, "type"); t != nil {
		typ := category.Type(*t)
		filter.Type = &typ
	}
	list, err := h.svc.Categories.List(c.Request.Context(), actor(c), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *Handler) GetCategory(c *gin.Context) {
	cat, err := h.svc.Categories.GetBySlug(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, cat)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var in category.CreateInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	cat, err := h.svc.Categories.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, cat)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	var in category.UpdateInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	cat, err := h.svc.Categories.Update(c.Request.Context(), actor(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, cat)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.svc.Categories.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListProducts(c *gin.Context) {
	filter := product.ListFilter{
		CategoryID: queryStr(c, "categoryId"),
		SupplierID: queryStr(c, "supplierId"),
		Currency:   queryStr(c, "currency"),
		Featured:   queryBool(c, "featured"),
		Sort:       product.SortBy(c.Query("sort")),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
	}
	res, err := h.svc.Products.List(c.Request.Context(), actor(c), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

// GetProduct resolves the path segment as a slug first and as an id second.
func (h *Handler) GetProduct(c *gin.Context) {
	ref := c.Param("id")
	p, err := h.svc.Products.GetBySlug(c.Request.Context(), actor(c), ref)
	if errors.Is(err, apperr.ErrNotFound) {
		p, err = h.svc.Products.Get(c.Request.Context(), actor(c), ref)
	}
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, p)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var in product.CreateInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	p, err := h.svc.Products.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	var in product.UpdateInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	p, err := h.svc.Products.Update(c.Request.Context(), actor(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, p)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.svc.Products.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) RecordProductView(c *gin.Context) {
	views, err := h.svc.Products.RecordView(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"views": views})
}

// AttachProductImage takes a multipart upload in the "file" field.
func (h *Handler) AttachProductImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxUploadSize+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, apperr.Validation("file", "a file upload is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, apperr.Validation("file", "cannot read upload"))
		return
	}
	defer f.Close()

	p, err := h.svc.Products.AttachImage(c.Request.Context(), actor(c), c.Param("id"), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, p)
}

func (h *Handler) RemoveProductImage(c *gin.Context) {
	p, err := h.svc.Products.RemoveImage(c.Request.Context(), actor(c), c.Param("id"), c.Param("publicId"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, p)
}

type productReviews struct {
	Summary review.Summary   `json:"summary"`
	Reviews []*review.Review `json:"reviews"`
}

func (h *Handler) ListProductReviews(c *gin.Context) {
	ctx := c.Request.Context()
	sum, err := h.svc.Reviews.Summary(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	out := productReviews{Summary: sum, Reviews: []*review.Review{}}
	if a := actor(c); !a.IsAnonymous() {
		if out.Reviews, err = h.svc.Reviews.ListByProduct(ctx, a, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
	}
	ok(c, out)
}

func (h *Handler) CreateReview(c *gin.Context) {
	var in review.CreateInput
	if err := bind(c, &in); err != nil {
		fail(c, err)
		return
	}
	in.ProductID = c.Param("id")
	r, err := h.svc.Reviews.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, r)
}

func (h *Handler) ListMyReviews(c *gin.Context) {
	list, err := h.svc.Reviews.ListMine(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, list)
}

func (h *Handler) DeleteReview(c *gin.Context) {
	if err := h.svc.Reviews.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
