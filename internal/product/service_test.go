package product

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/cache"
	"tradehub-be/internal/category"
	"tradehub-be/internal/docstore"
	"tradehub-be/internal/storage"
	"tradehub-be/internal/supplier"
	"tradehub-be/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	staff         = access.Actor{UserID: "staff-1", Role: access.RoleStaff}
	admin         = access.Actor{UserID: "admin-1", Role: access.RoleAdmin}
	customer      = access.Actor{UserID: "cust-1", Role: access.RoleCustomer}
	supplierActor = access.Actor{UserID: "user-sup", Role: access.RoleSupplier}
	otherSupplier = access.Actor{UserID: "user-other", Role: access.RoleSupplier}
)

// failingUpdates lets a test break writes after reads succeed.
type failingUpdates struct {
	Repository
	err error
}

func (f *failingUpdates) Update(ctx context.Context, p *Product) error {
	if f.err != nil {
		return f.err
	}
	return f.Repository.Update(ctx, p)
}

type fixture struct {
	svc        Service
	repo       *failingUpdates
	stub       *storage.Stub
	categoryID string
	supplierID string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemory()

	cats := category.NewRepository(store)
	cat := &category.Category{Name: "Coffee", Slug: "coffee", Type: category.TypeExport, IsActive: true}
	require.NoError(t, cats.Create(ctx, cat))

	sups := supplier.NewRepository(store)
	sup := &supplier.Supplier{CompanyName: "Sidama Growers", UserID: utils.StrPtr("user-sup"), Status: supplier.StatusApproved}
	require.NoError(t, sups.Create(ctx, sup))
	other := &supplier.Supplier{CompanyName: "Other", UserID: utils.StrPtr("user-other"), Status: supplier.StatusApproved}
	require.NoError(t, sups.Create(ctx, other))

	repo := &failingUpdates{Repository: NewRepository(store)}
	stub := storage.NewStub()
	svc := NewService(repo, cats, sups, stub, cache.NewMemory(), time.Minute)
	return &fixture{svc: svc, repo: repo, stub: stub, categoryID: cat.ID, supplierID: sup.ID}
}

func (f *fixture) create(t *testing.T, name string, active bool, mutate ...func(*CreateInput)) *Product {
	t.Helper()
	in := CreateInput{
		Name:       name,
		CategoryID: f.categoryID,
		Price:      decimal.RequireFromString("12.50"),
		Currency:   CurrencyUSD,
		Unit:       "kg",
		IsActive:   &active,
	}
	for _, m := range mutate {
		m(&in)
	}
	p, err := f.svc.Create(context.Background(), staff, in)
	require.NoError(t, err)
	return p
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("derives slug and defaults", func(t *testing.T) {
		f := setup(t)
		p := f.create(t, "Yirgacheffe Grade 1", true, func(in *CreateInput) {
			in.Tags = []string{" Coffee", "coffee", "Arabica"}
		})

		assert.NotEmpty(t, p.ID)
		assert.Equal(t, "yirgacheffe-grade-1", p.Slug)
		assert.Equal(t, 1, p.MinOrderQuantity)
		assert.Equal(t, []string{"coffee", "arabica"}, p.Tags)
		assert.Zero(t, p.Views)
	})

	t.Run("customer denied", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.Create(ctx, customer, CreateInput{Name: "x"})
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	})

	t.Run("anonymous must sign in", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.Create(ctx, access.Anonymous, CreateInput{Name: "x"})
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.Create(ctx, staff, CreateInput{
			Name: "Sesame", CategoryID: f.categoryID, Price: decimal.NewFromInt(-1), Currency: CurrencyUSD, Unit: "kg",
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, "price", apperr.FieldOf(err))
	})

	t.Run("unknown currency rejected", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.Create(ctx, staff, CreateInput{
			Name: "Sesame", CategoryID: f.categoryID, Price: decimal.NewFromInt(1), Currency: "GBP", Unit: "kg",
		})
		assert.Equal(t, "currency", apperr.FieldOf(err))
	})

	t.Run("zero minimum order rejected", func(t *testing.T) {
		f := setup(t)
		zero := 0
		_, err := f.svc.Create(ctx, staff, CreateInput{
			Name: "Sesame", CategoryID: f.categoryID, Price: decimal.NewFromInt(1), Currency: CurrencyUSD, Unit: "kg",
			MinOrderQuantity: &zero,
		})
		assert.Equal(t, "minOrderQuantity", apperr.FieldOf(err))
	})

	t.Run("category must exist", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.Create(ctx, staff, CreateInput{
			Name: "Sesame", CategoryID: "missing", Price: decimal.NewFromInt(1), Currency: CurrencyUSD, Unit: "kg",
		})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("supplier must exist", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.Create(ctx, staff, CreateInput{
			Name: "Sesame", CategoryID: f.categoryID, SupplierID: utils.StrPtr("missing"),
			Price: decimal.NewFromInt(1), Currency: CurrencyUSD, Unit: "kg",
		})
		assert.ErrorIs(t, err, ErrSupplierNotFound)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		f := setup(t)
		f.create(t, "Sesame Seeds", true)
		_, err := f.svc.Create(ctx, staff, CreateInput{
			Name: "Sesame seeds", CategoryID: f.categoryID, Price: decimal.NewFromInt(1), Currency: CurrencyUSD, Unit: "kg",
		})
		assert.ErrorIs(t, err, ErrSlugTaken)
	})

	t.Run("price rounded to cents", func(t *testing.T) {
		f := setup(t)
		p := f.create(t, "Teff", true, func(in *CreateInput) {
			in.Price = decimal.RequireFromString("3.456")
		})
		assert.True(t, p.Price.Equal(decimal.RequireFromString("3.46")))
	})
}

func TestService_Read(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	active := f.create(t, "Active", true)
	hidden := f.create(t, "Hidden", false, func(in *CreateInput) { in.SupplierID = &f.supplierID })

	t.Run("anonymous reads active product", func(t *testing.T) {
		p, err := f.svc.GetBySlug(ctx, access.Anonymous, "active")
		require.NoError(t, err)
		assert.Equal(t, active.ID, p.ID)
	})

	t.Run("anonymous denied inactive product", func(t *testing.T) {
		_, err := f.svc.Get(ctx, access.Anonymous, hidden.ID)
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	})

	t.Run("customer denied inactive product", func(t *testing.T) {
		_, err := f.svc.Get(ctx, customer, hidden.ID)
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	})

	t.Run("linked supplier reads its inactive product", func(t *testing.T) {
		p, err := f.svc.Get(ctx, supplierActor, hidden.ID)
		require.NoError(t, err)
		assert.Equal(t, hidden.ID, p.ID)
	})

	t.Run("other supplier denied", func(t *testing.T) {
		_, err := f.svc.Get(ctx, otherSupplier, hidden.ID)
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := f.svc.Get(ctx, staff, "nope")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.create(t, "Cheap", true, func(in *CreateInput) { in.Price = decimal.NewFromInt(1) })
	f.create(t, "Pricey", true, func(in *CreateInput) { in.Price = decimal.NewFromInt(100) })
	f.create(t, "Mid", true, func(in *CreateInput) { in.Price = decimal.NewFromInt(20) })
	f.create(t, "Draft", false, func(in *CreateInput) { in.SupplierID = &f.supplierID })

	t.Run("public list hides inactive", func(t *testing.T) {
		res, err := f.svc.List(ctx, access.Anonymous, ListFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 3, res.Total)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, defaultLimit, res.Limit)
	})

	t.Run("staff sees everything", func(t *testing.T) {
		res, err := f.svc.List(ctx, staff, ListFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 4, res.Total)
	})

	t.Run("price sort is numeric", func(t *testing.T) {
		res, err := f.svc.List(ctx, customer, ListFilter{Sort: SortPriceDesc})
		require.NoError(t, err)
		require.Len(t, res.Items, 3)
		assert.Equal(t, "Pricey", res.Items[0].Name)
		assert.Equal(t, "Mid", res.Items[1].Name)
		assert.Equal(t, "Cheap", res.Items[2].Name)
	})

	t.Run("paging and limit cap", func(t *testing.T) {
		res, err := f.svc.List(ctx, staff, ListFilter{Sort: SortName, Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, res.Items, 2)
		assert.EqualValues(t, 4, res.Total)

		res, err = f.svc.List(ctx, staff, ListFilter{Limit: 1000})
		require.NoError(t, err)
		assert.Equal(t, maxLimit, res.Limit)
	})

	t.Run("list cache dropped on write", func(t *testing.T) {
		res, err := f.svc.List(ctx, access.Anonymous, ListFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 3, res.Total)

		f.create(t, "Fresh", true)

		res, err = f.svc.List(ctx, access.Anonymous, ListFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 4, res.Total)
	})

	t.Run("supplier listing", func(t *testing.T) {
		res, err := f.svc.ListBySupplier(ctx, supplierActor, f.supplierID, 0, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 1, res.Total)

		res, err = f.svc.ListBySupplier(ctx, customer, f.supplierID, 0, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 0, res.Total)
	})
}

func TestService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("rename rederives slug", func(t *testing.T) {
		f := setup(t)
		p := f.create(t, "Old Name", true)

		got, err := f.svc.Update(ctx, staff, p.ID, UpdateInput{Name: utils.StrPtr("New Name")})
		require.NoError(t, err)
		assert.Equal(t, "new-name", got.Slug)

		_, err = f.svc.GetBySlug(ctx, access.Anonymous, "old-name")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("negative price update rejected", func(t *testing.T) {
		f := setup(t)
		p := f.create(t, "Honey", true)
		neg := decimal.NewFromInt(-5)
		_, err := f.svc.Update(ctx, staff, p.ID, UpdateInput{Price: &neg})
		assert.Equal(t, "price", apperr.FieldOf(err))
	})

	t.Run("supplier cannot update", func(t *testing.T) {
		f := setup(t)
		p := f.create(t, "Honey", true, func(in *CreateInput) { in.SupplierID = &f.supplierID })
		_, err := f.svc.Update(ctx, supplierActor, p.ID, UpdateInput{Name: utils.StrPtr("Mine")})
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	})

	t.Run("delete removes media", func(t *testing.T) {
		f := setup(t)
		p := f.create(t, "Honey", true)
		p, err := f.svc.AttachImage(ctx, staff, p.ID, "jar.png", "image/png", strings.NewReader("png"))
		require.NoError(t, err)
		require.Equal(t, 1, f.stub.Len())

		require.NoError(t, f.svc.Delete(ctx, admin, p.ID))
		assert.Equal(t, 0, f.stub.Len())

		_, err = f.svc.Get(ctx, staff, p.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("customer cannot delete", func(t *testing.T) {
		f := setup(t)
		p := f.create(t, "Honey", true)
		err := f.svc.Delete(ctx, customer, p.ID)
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
	})

	t.Run("staff cannot delete", func(t *testing.T) {
		f := setup(t)
		p := f.create(t, "Honey", true)
		err := f.svc.Delete(ctx, staff, p.ID)
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

		_, err = f.svc.Get(ctx, staff, p.ID)
		assert.NoError(t, err)
	})
}

func TestService_RecordView(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.create(t, "Spices", true)

	for i := 1; i <= 3; i++ {
		views, err := f.svc.RecordView(ctx, access.Anonymous, p.ID)
		require.NoError(t, err)
		assert.EqualValues(t, i, views)
	}

	// A stale write carrying an older count does not move the counter back.
	stale, err := f.repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	stale.Views = 1
	require.NoError(t, f.repo.Update(ctx, stale))

	got, err := f.svc.Get(ctx, staff, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Views)
}

func TestService_RecordViewRefreshesCache(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.create(t, "Cardamom", true)

	cached, err := f.svc.GetBySlug(ctx, access.Anonymous, p.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 0, cached.Views)
	list, err := f.svc.List(ctx, access.Anonymous, ListFilter{Sort: SortPopular})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	_, err = f.svc.RecordView(ctx, access.Anonymous, p.ID)
	require.NoError(t, err)

	got, err := f.svc.GetBySlug(ctx, access.Anonymous, p.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Views)

	list, err = f.svc.List(ctx, access.Anonymous, ListFilter{Sort: SortPopular})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.EqualValues(t, 1, list.Items[0].Views)
}

func TestService_Images(t *testing.T) {
	ctx := context.Background()

	t.Run("attach and remove", func(t *testing.T) {
		f := setup(t)
		p := f.create(t, "Beans", true)

		p, err := f.svc.AttachImage(ctx, staff, p.ID, "bag.JPG", "image/jpeg", strings.NewReader("jpeg"))
		require.NoError(t, err)
		require.Len(t, p.Images, 1)
		img := p.Images[0]
		assert.True(t, strings.HasPrefix(img.PublicID, "products/"))
		assert.True(t, strings.HasSuffix(img.PublicID, ".jpg"))
		assert.True(t, f.stub.Has(img.PublicID))

		p, err = f.svc.RemoveImage(ctx, staff, p.ID, img.PublicID)
		require.NoError(t, err)
		assert.Empty(t, p.Images)
		assert.False(t, f.stub.Has(img.PublicID))

		_, err = f.svc.RemoveImage(ctx, staff, p.ID, img.PublicID)
		assert.ErrorIs(t, err, ErrImageNotFound)
	})

	t.Run("non image rejected", func(t *testing.T) {
		f := setup(t)
		p := f.create(t, "Beans", true)
		_, err := f.svc.AttachImage(ctx, staff, p.ID, "notes.txt", "text/plain", strings.NewReader("hi"))
		assert.Equal(t, "file", apperr.FieldOf(err))
		assert.Zero(t, f.stub.Len())
	})

	t.Run("upload compensated when save fails", func(t *testing.T) {
		f := setup(t)
		p := f.create(t, "Beans", true)
		f.repo.err = apperr.Infrastructure("docstore update", errors.New("connection reset"))

		_, err := f.svc.AttachImage(ctx, staff, p.ID, "bag.png", "image/png", strings.NewReader("png"))
		assert.ErrorIs(t, err, apperr.ErrInfrastructure)
		assert.Zero(t, f.stub.Len())

		f.repo.err = nil
		got, err := f.svc.Get(ctx, staff, p.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Images)
	})
}
