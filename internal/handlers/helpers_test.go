package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/velora-labs/storefront/internal/models"
	"github.com/velora-labs/storefront/internal/payment"
	"github.com/velora-labs/storefront/internal/service/order"
)

const testWebhookSecret = "whsec_test_secret"

type stubProvider struct {
	checkout   *payment.Checkout
	createErr  error
	captureErr error
}

func (s *stubProvider) CreateCheckout(ctx context.Context, ord *models.Order) (*payment.Checkout, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.checkout, nil
}

func (s *stubProvider) Capture(ctx context.Context, providerOrderID string) error {
	return s.captureErr
}

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Orders *order.Service

	A *AuthHandler
	C *CategoryHandler
	B *BrandHandler
	O *OrderHandler
	P *PaymentHandler
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.RefreshToken{},
		&models.Category{}, &models.Brand{},
		&models.Product{}, &models.ProductVariant{},
		&models.Order{}, &models.OrderItem{}, &models.Payment{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	orders := order.NewService(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	gateway := payment.NewGateway(db, orders, logger)
	gateway.Register(models.PaymentMethodStripe, &stubProvider{
		checkout: &payment.Checkout{IntentID: "pi_test", ClientSecret: "pi_test_secret"},
	})
	gateway.Register(models.PaymentMethodPayPal, &stubProvider{
		checkout: &payment.Checkout{ProviderOrderID: "PP-TEST-1"},
	})

	reconciler := payment.NewReconciler(db, orders, nil, logger)

	return &testEnv{
		T:      t,
		E:      echo.New(),
		DB:     db,
		Orders: orders,
		A: &AuthHandler{
			DB:            db,
			JWTSecret:     []byte("test-jwt-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
		},
		C: &CategoryHandler{DB: db},
		B: &BrandHandler{DB: db},
		O: &OrderHandler{Service: orders},
		P: &PaymentHandler{
			Gateway:       gateway,
			Reconciler:    reconciler,
			WebhookSecret: testWebhookSecret,
		},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) doRawRequest(method, path string, body []byte, headers map[string]string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) seedOrder(total float64) *models.Order {
	env.T.Helper()
	ord, err := env.Orders.Create(context.Background(), order.CreateInput{
		UserID:      1,
		TotalAmount: total,
		Items:       []order.ItemInput{{VariantID: 5, Quantity: 2, PriceAtTime: total / 2}},
	})
	require.NoError(env.T, err)
	return ord
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
}
