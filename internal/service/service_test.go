package service

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/creativehub205/ladies-tailor-shop/config"
	"github.com/creativehub205/ladies-tailor-shop/internal/database"
	"github.com/creativehub205/ladies-tailor-shop/internal/models"
	"github.com/creativehub205/ladies-tailor-shop/internal/repository"
	"github.com/creativehub205/ladies-tailor-shop/internal/session"
	"github.com/creativehub205/ladies-tailor-shop/internal/storage"

	"github.com/pkg/errors"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	svc    Service
	repo   repository.Repository
	images *storage.DiskStore
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestRepo(t *testing.T) repository.Repository {
	t.Helper()
	db, err := database.Connect(config.DatabaseConfig{
		Path:     filepath.Join(t.TempDir(), "tailor_shop.db"),
		LogLevel: "silent",
	}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = database.AutoMigrate(context.Background(), db, quietLogger())
	require.NoError(t, err)
	return repository.NewRepository(db)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := newTestRepo(t)

	images, err := storage.NewDiskStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	svc, err := NewService(ServiceConfig{
		Repository: repo,
		Images:     images,
		Sessions:   session.NewManager("test-secret", time.Hour, session.NewMemoryStore()),
		Logger:     quietLogger(),
		BcryptCost: bcrypt.MinCost,
		DefaultTailor: DefaultTailor{
			Username: "admin",
			Password: "admin123",
			ShopName: "Ladies Tailor",
		},
	})
	require.NoError(t, err)
	return &testEnv{svc: svc, repo: repo, images: images}
}

func form(pairs ...string) FormValues {
	f := FormValues{}
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Set(pairs[i], pairs[i+1])
	}
	return f
}

func (e *testEnv) customer(t *testing.T, name string) *models.Customer {
	t.Helper()
	c, err := e.svc.CreateCustomer(context.Background(), CustomerInput{Name: name})
	require.NoError(t, err)
	return c
}

func (e *testEnv) order(t *testing.T, f FormValues, image *ImageUpload) *models.OrderDetail {
	t.Helper()
	in, err := ParseOrderCreate(f)
	require.NoError(t, err)
	o, err := e.svc.CreateOrder(context.Background(), in, image)
	require.NoError(t, err)
	return o
}

func uploadedFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func assertAmount(t *testing.T, want int64, got decimal.NullDecimal) {
	t.Helper()
	require.True(t, got.Valid)
	assert.True(t, decimal.NewFromInt(want).Equal(got.Decimal), "want %d, got %s", want, got.Decimal)
}

func TestCreateCustomerAllocatesSequentialNumbers(t *testing.T) {
	env := newTestEnv(t)

	first := env.customer(t, "Asha")
	second := env.customer(t, "  Bina  ")

	assert.Equal(t, "1", first.CustomerNumber)
	assert.Equal(t, "2", second.CustomerNumber)
	assert.Equal(t, "Bina", second.Name)
}

func TestCreateCustomerRequiresName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateCustomer(context.Background(), CustomerInput{Name: "   "})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Field)
}

func TestUpdateCustomerKeepsNumber(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	c := env.customer(t, "Asha")

	address := "12 MG Road"
	updated, err := env.svc.UpdateCustomer(ctx, c.ID, CustomerInput{Name: "Asha V", Address: &address})
	require.NoError(t, err)
	assert.Equal(t, c.CustomerNumber, updated.CustomerNumber)
	assert.Equal(t, "Asha V", updated.Name)

	_, err = env.svc.UpdateCustomer(ctx, 999, CustomerInput{Name: "Nobody"})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestDeleteCustomerWithOrdersIsRefused(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	c := env.customer(t, "Asha")
	env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`), nil)

	err := env.svc.DeleteCustomer(ctx, c.ID)
	assert.ErrorIs(t, err, ErrCustomerHasOrders)

	_, err = env.svc.GetCustomer(ctx, c.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, env.svc.DeleteCustomer(ctx, 999), ErrCustomerNotFound)
}

func TestDeleteCustomerWithoutOrders(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	c := env.customer(t, "Asha")

	require.NoError(t, env.svc.DeleteCustomer(ctx, c.ID))
	_, err := env.svc.GetCustomer(ctx, c.ID)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCreateOrderComputesBalance(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"Asha", "Bina", "Chitra"} {
		env.customer(t, name)
	}

	o := env.order(t, form(
		"customer_id", "3",
		"garment_types", `["kurti"]`,
		"total_amount", "1000",
		"advance_amount", "300",
		"measurements", `[{"measurement_type":"bust","value":"34"},{"type":"waist","value":28,"unit":"cm"},{"measurement_type":"hip","value":""}]`,
	), nil)

	assert.True(t, strings.HasPrefix(o.OrderNumber, "ORD"))
	assert.Equal(t, uint(3), o.CustomerID)
	assert.Equal(t, "Chitra", o.CustomerName)
	assert.Equal(t, models.GarmentTypes{"kurti"}, o.GarmentTypes)
	assert.Equal(t, models.OrderStatusPending, o.Status)
	assert.True(t, o.OrderDate.Valid)
	assertAmount(t, 700, o.BalanceAmount)

	require.Len(t, o.Measurements, 2)
	assert.Equal(t, "bust", o.Measurements[0].MeasurementType)
	assert.Equal(t, models.DefaultUnit, o.Measurements[0].Unit)
	assert.Equal(t, "cm", o.Measurements[1].Unit)
	assert.NotZero(t, o.Measurements[0].ID)
}

func TestCreateOrderMissingAmountsDefaultToZero(t *testing.T) {
	env := newTestEnv(t)
	env.customer(t, "Asha")

	o := env.order(t, form("customer_id", "1", "garment_types", `["blouse","saree"]`, "total_amount", ""), nil)
	assertAmount(t, 0, o.TotalAmount)
	assertAmount(t, 0, o.BalanceAmount)
	assert.False(t, o.DeliveryDate.Valid)
}

func TestCreateOrderUniqueNumbersWithinOneMillisecond(t *testing.T) {
	env := newTestEnv(t)
	env.customer(t, "Asha")

	fixed := time.UnixMilli(1700000000000)
	env.svc.(*service).now = func() time.Time { return fixed }

	first := env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`), nil)
	second := env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`), nil)

	assert.Equal(t, "ORD1700000000000", first.OrderNumber)
	assert.Equal(t, "ORD1700000000001", second.OrderNumber)
}

func TestCreateOrderUnknownCustomerRemovesImage(t *testing.T) {
	env := newTestEnv(t)

	in, err := ParseOrderCreate(form("customer_id", "42", "garment_types", `["kurti"]`))
	require.NoError(t, err)

	_, err = env.svc.CreateOrder(context.Background(), in, &ImageUpload{Name: "dress.png", Reader: strings.NewReader("png")})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Empty(t, uploadedFiles(t, env.images.Dir()))
}

func TestCreateOrderStoresImage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.customer(t, "Asha")

	o := env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`),
		&ImageUpload{Name: "dress.png", Reader: strings.NewReader("png")})
	require.NotNil(t, o.DesignImage)
	assert.True(t, strings.HasSuffix(*o.DesignImage, "-dress.png"))
	assert.Equal(t, []string{*o.DesignImage}, uploadedFiles(t, env.images.Dir()))

	got, err := env.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.DesignImage, got.DesignImage)
}

func TestCreateOrderRejectsOutOfRangeAmounts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.customer(t, "Asha")

	tests := []struct {
		name    string
		total   string
		advance string
		want    string
	}{
		{name: "overflowing total", total: "1e400", advance: "0", want: "total_amount is out of range"},
		{name: "difference overflows", total: "1e308", advance: "-1e308", want: "total_amount is out of range"},
		{name: "advance beyond bound", total: "10", advance: "-5e12", want: "advance_amount is out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.CreateOrder(ctx, &OrderInput{
				CustomerID:    1,
				GarmentTypes:  models.GarmentTypes{"kurti"},
				TotalAmount:   decimal.RequireFromString(tt.total),
				AdvanceAmount: decimal.RequireFromString(tt.advance),
			}, &ImageUpload{Name: "dress.png", Reader: strings.NewReader("png")})
			assert.Equal(t, tt.want, validationMessage(t, err))
		})
	}

	orders, err := env.svc.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, uploadedFiles(t, env.images.Dir()))
}

func TestUpdateOrderRejectsOutOfRangeAmounts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.customer(t, "Asha")
	o := env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`, "total_amount", "1000", "advance_amount", "300"), nil)

	patches := []models.OrderPatch{
		{TotalAmount: mo.Some(decimal.RequireFromString("1e400"))},
		{TotalAmount: mo.Some(decimal.RequireFromString("1e308")), AdvanceAmount: mo.Some(decimal.RequireFromString("-1e308"))},
	}
	for _, patch := range patches {
		_, err := env.svc.UpdateOrder(ctx, o.ID, patch, nil)
		assert.True(t, IsValidationError(err), "got %v", err)
	}

	orders, err := env.svc.ListOrders(ctx, "")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	got, err := env.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assertAmount(t, 1000, got.TotalAmount)
	assertAmount(t, 300, got.AdvanceAmount)
	assertAmount(t, 700, got.BalanceAmount)
	require.NoError(t, env.svc.Ping(ctx))
}

func TestUpdateOrderOnlyAdvance(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.customer(t, "Asha")
	o := env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`, "total_amount", "1000", "advance_amount", "300"), nil)

	patch, err := ParseOrderPatch(form("advance_amount", "500"))
	require.NoError(t, err)

	detail, err := env.svc.UpdateOrder(ctx, o.ID, patch, nil)
	require.NoError(t, err)
	assert.Nil(t, detail)

	got, err := env.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assertAmount(t, 1000, got.TotalAmount)
	assertAmount(t, 500, got.AdvanceAmount)
	assertAmount(t, 500, got.BalanceAmount)
}

func TestUpdateOrderOnlyTotalAllowsNegativeBalance(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.customer(t, "Asha")
	o := env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`, "total_amount", "1000", "advance_amount", "300"), nil)

	patch, err := ParseOrderPatch(form("total_amount", "200"))
	require.NoError(t, err)
	_, err = env.svc.UpdateOrder(ctx, o.ID, patch, nil)
	require.NoError(t, err)

	got, err := env.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assertAmount(t, -100, got.BalanceAmount)
}

func TestUpdateOrderCompletePatchReturnsOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.customer(t, "Asha")
	env.customer(t, "Bina")
	o := env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`), nil)

	patch, err := ParseOrderPatch(form(
		"customer_id", "2",
		"garment_types", `["lehenga"]`,
		"total_amount", "2500",
		"advance_amount", "1000",
		"status", "in_progress",
	))
	require.NoError(t, err)
	require.True(t, patch.IsComplete())

	detail, err := env.svc.UpdateOrder(ctx, o.ID, patch, nil)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "Bina", detail.CustomerName)
	assert.Equal(t, models.GarmentTypes{"lehenga"}, detail.GarmentTypes)
	assert.Equal(t, models.OrderStatusInProgress, detail.Status)
	assertAmount(t, 1500, detail.BalanceAmount)
	assert.NotNil(t, detail.Measurements)
}

func TestUpdateOrderReplacesMeasurements(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.customer(t, "Asha")
	o := env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`,
		"measurements", `[{"measurement_type":"bust","value":34},{"measurement_type":"waist","value":28}]`), nil)

	patch, err := ParseOrderPatch(form("measurements", `[{"measurement_type":"length","value":40}]`))
	require.NoError(t, err)
	_, err = env.svc.UpdateOrder(ctx, o.ID, patch, nil)
	require.NoError(t, err)

	got, err := env.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Measurements, 1)
	assert.Equal(t, "length", got.Measurements[0].MeasurementType)
}

func TestUpdateOrderEmptyPatchIsNoop(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.customer(t, "Asha")
	o := env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`, "total_amount", "100"), nil)

	_, err := env.svc.UpdateOrder(ctx, o.ID, models.OrderPatch{}, nil)
	require.NoError(t, err)

	got, err := env.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assertAmount(t, 100, got.TotalAmount)
}

func TestUpdateOrderErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.customer(t, "Asha")
	o := env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`), nil)

	_, err := env.svc.UpdateOrder(ctx, 999, models.OrderPatch{Notes: mo.Some[*string](nil)}, nil)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = env.svc.UpdateOrder(ctx, o.ID, models.OrderPatch{CustomerID: mo.Some[uint](77)},
		&ImageUpload{Name: "x.png", Reader: strings.NewReader("x")})
	assert.True(t, IsValidationError(err))
	assert.Empty(t, uploadedFiles(t, env.images.Dir()))
}

func TestUpdateOrderKeepsPreviousImageFile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.customer(t, "Asha")
	o := env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`),
		&ImageUpload{Name: "old.png", Reader: strings.NewReader("old")})

	_, err := env.svc.UpdateOrder(ctx, o.ID, models.OrderPatch{},
		&ImageUpload{Name: "new.png", Reader: strings.NewReader("new")})
	require.NoError(t, err)

	got, err := env.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DesignImage)
	assert.True(t, strings.HasSuffix(*got.DesignImage, "-new.png"))
	assert.Len(t, uploadedFiles(t, env.images.Dir()), 2)
}

func TestDeleteOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.customer(t, "Asha")
	o := env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`,
		"measurements", `[{"measurement_type":"bust","value":34}]`),
		&ImageUpload{Name: "dress.png", Reader: strings.NewReader("png")})

	require.NoError(t, env.svc.DeleteOrder(ctx, o.ID))

	_, err := env.svc.GetOrder(ctx, o.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	measurements, err := env.repo.ListMeasurements(ctx, o.ID)
	require.NoError(t, err)
	assert.Empty(t, measurements)
	assert.Empty(t, uploadedFiles(t, env.images.Dir()))

	assert.ErrorIs(t, env.svc.DeleteOrder(ctx, o.ID), ErrOrderNotFound)
}

func TestReplaceMeasurements(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.customer(t, "Asha")
	o := env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`), nil)

	saved, err := env.svc.ReplaceMeasurements(ctx, o.ID, []models.Measurement{{MeasurementType: "bust", Value: 34}})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.NotZero(t, saved[0].ID)

	_, err = env.svc.ReplaceMeasurements(ctx, 999, nil)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrdersAndCustomerOrders(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	asha := env.customer(t, "Asha")
	env.customer(t, "Bina")
	env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`), nil)
	env.order(t, form("customer_id", "2", "garment_types", `["blouse"]`), nil)

	all, err := env.svc.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := env.svc.ListOrders(ctx, " bina ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, models.GarmentTypes{"blouse"}, found[0].GarmentTypes)

	mine, err := env.svc.ListCustomerOrders(ctx, asha.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = env.svc.ListCustomerOrders(ctx, 999)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	created, err := env.svc.EnsureDefaultTailor(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = env.svc.EnsureDefaultTailor(ctx)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = env.svc.Login(ctx, LoginInput{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.svc.Login(ctx, LoginInput{Username: "ghost", Password: "admin123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	result, err := env.svc.Login(ctx, LoginInput{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "Ladies Tailor", result.Tailor.ShopName)

	claims, err := env.svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Tailor.ID, claims.TailorID)

	require.NoError(t, env.svc.Logout(ctx, claims))
	_, err = env.svc.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, session.ErrRevokedToken)
}

func TestTailorManagement(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.CreateTailor(ctx, TailorInput{Username: "meera", Password: "secret1", ShopName: "Meera Boutique"})
	require.NoError(t, err)
	_, err = env.svc.CreateTailor(ctx, TailorInput{Username: "meera", Password: "secret1"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = env.svc.CreateTailor(ctx, TailorInput{Username: "short", Password: "123"})
	assert.True(t, IsValidationError(err))

	require.NoError(t, env.svc.ChangePassword(ctx, "meera", "newpass"))
	_, err = env.svc.Login(ctx, LoginInput{Username: "meera", Password: "newpass"})
	assert.NoError(t, err)

	assert.ErrorIs(t, env.svc.ChangePassword(ctx, "ghost", "newpass"), ErrTailorNotFound)

	tailors, err := env.svc.ListTailors(ctx)
	require.NoError(t, err)
	assert.Len(t, tailors, 1)
}

func TestClearCustomers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.customer(t, "Asha")
	env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`,
		"measurements", `[{"measurement_type":"bust","value":34}]`),
		&ImageUpload{Name: "dress.png", Reader: strings.NewReader("png")})

	_, err := env.svc.ClearCustomers(ctx, false)
	assert.ErrorIs(t, err, ErrCustomerHasOrders)

	report, err := env.svc.ClearCustomers(ctx, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, report.Orders)
	assert.EqualValues(t, 1, report.Measurements)
	assert.EqualValues(t, 1, report.Customers)
	assert.Equal(t, 1, report.ImagesRemoved)
	assert.Empty(t, uploadedFiles(t, env.images.Dir()))
}

func TestClearOrders(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.customer(t, "Asha")
	env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`), nil)

	report, err := env.svc.ClearOrders(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, report.Orders)

	customers, err := env.svc.ListCustomers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, customers, 1)
}

func TestSweepOrphanedImages(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.customer(t, "Asha")
	o := env.order(t, form("customer_id", "1", "garment_types", `["kurti"]`),
		&ImageUpload{Name: "kept.png", Reader: strings.NewReader("k")})

	orphan, err := env.images.Save("orphan.png", strings.NewReader("o"))
	require.NoError(t, err)

	removed, err := env.svc.SweepOrphanedImages(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)

	env.svc.(*service).now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	removed, err = env.svc.SweepOrphanedImages(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	files := uploadedFiles(t, env.images.Dir())
	assert.Equal(t, []string{*o.DesignImage}, files)
	assert.NotContains(t, files, orphan)
}

// MockImageStore records image store calls
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(originalName string, r io.Reader) (string, error) {
	args := m.Called(originalName, r)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Remove(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockImageStore) List() ([]storage.FileInfo, error) {
	args := m.Called()
	return args.Get(0).([]storage.FileInfo), args.Error(1)
}

func TestCreateOrderDiscardsImageOnRollback(t *testing.T) {
	images := new(MockImageStore)
	images.On("Save", "dress.png", mock.Anything).Return("1700000000000-dress.png", nil)
	images.On("Remove", "1700000000000-dress.png").Return(nil)

	svc, err := NewService(ServiceConfig{
		Repository: newTestRepo(t),
		Images:     images,
		Sessions:   session.NewManager("test-secret", time.Hour, nil),
		Logger:     quietLogger(),
	})
	require.NoError(t, err)

	in, err := ParseOrderCreate(form("customer_id", "5", "garment_types", `["kurti"]`))
	require.NoError(t, err)

	_, err = svc.CreateOrder(context.Background(), in, &ImageUpload{Name: "dress.png", Reader: bytes.NewReader([]byte("png"))})
	require.Error(t, err)

	images.AssertExpectations(t)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceConfig{})
	assert.Error(t, err)
}
