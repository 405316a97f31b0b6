package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/controllers"
	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testJWTSecret     = "test-secret"
	testKeySecret     = "key-secret"
	testWebhookSecret = "hook-secret"
	testPassword      = "Passw0rd!"
)

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// setupTestRouter points the globals at a fresh in-memory database and
// returns the full router
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	prevDB, prevCfg := config.DB, config.AppConfig
	config.DB = db
	config.AppConfig = &config.Config{
		JWTSecret: testJWTSecret,
		Razorpay:  config.RazorpayConfig{Key: "rzp_test", Secret: testKeySecret, WebhookSecret: testWebhookSecret},
		Pricing: config.PricingConfig{
			CGSTRate:              2.5,
			SGSTRate:              2.5,
			DeliveryFee:           40,
			FreeDeliveryThreshold: 499,
			ReferralDiscountPct:   10,
			ReferralDiscountCap:   100,
			ReferrerRewardPct:     5,
			PointsPerUnit:         0.1,
		},
	}
	controllers.Gateway = nil
	controllers.WebhookDeduper = nil
	controllers.OrderNotifier = services.NopNotifier{}

	t.Cleanup(func() {
		config.DB, config.AppConfig = prevDB, prevCfg
		sqlDB.Close()
	})
	return SetupRouter(config.AppConfig), db
}

// MakeTestRequest sends a JSON request through the router
func MakeTestRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data), string(resp.Data))
	}
	return resp
}

// createUser stores an account and returns it with a signed token
func createUser(t *testing.T, db *gorm.DB, name, email, role string) (*models.User, string) {
	t.Helper()
	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)
	user := &models.User{Name: name, Email: email, Password: hash, Role: role, MembershipTier: string(services.TierBronze)}
	require.NoError(t, db.Create(user).Error)

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, testJWTSecret)
	require.NoError(t, err)
	return user, token
}

func createMenuItem(t *testing.T, db *gorm.DB, name string, price float64) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{Name: name, Category: "mains", Price: price, IsAvailable: true}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestHealthAndMetrics(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := MakeTestRequest(t, router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = MakeTestRequest(t, router, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "quickbite_http_request_duration_seconds")
}

func TestRegisterLoginAndMembership(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := MakeTestRequest(t, router, http.MethodPost, "/v1/register", gin.H{
		"name": "Asha Rao", "email": "asha@example.com", "password": testPassword,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = MakeTestRequest(t, router, http.MethodPost, "/v1/register", gin.H{
		"name": "Asha Rao", "email": "ASHA@example.com", "password": testPassword,
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = MakeTestRequest(t, router, http.MethodPost, "/v1/login", gin.H{
		"email": "asha@example.com", "password": "wrong-Passw0rd",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = MakeTestRequest(t, router, http.MethodPost, "/v1/login", gin.H{
		"email": "asha@example.com", "password": testPassword,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	decode(t, w, &login)
	require.NotEmpty(t, login.Token)

	w = MakeTestRequest(t, router, http.MethodGet, "/v1/user/membership", nil, login.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var membership services.Membership
	decode(t, w, &membership)
	assert.Equal(t, services.TierBronze, membership.Tier)
	assert.Equal(t, services.TierSilver, *membership.Progress.NextTier)
}

func TestAuthGuards(t *testing.T) {
	router, db := setupTestRouter(t)
	_, customerToken := createUser(t, db, "Plain Customer", "plain@example.com", models.RoleCustomer)

	w := MakeTestRequest(t, router, http.MethodGet, "/v1/user/orders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = MakeTestRequest(t, router, http.MethodGet, "/v1/user/orders", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = MakeTestRequest(t, router, http.MethodGet, "/v1/admin/orders", nil, customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// a bad token on checkout is rejected rather than treated as a guest
	w = MakeTestRequest(t, router, http.MethodPost, "/v1/checkout/quote", gin.H{
		"items": []gin.H{{"menu_item_id": 1, "quantity": 1}},
	}, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCouponValidateAndAdminCRUD(t *testing.T) {
	router, db := setupTestRouter(t)
	_, adminToken := createUser(t, db, "Site Admin", "admin@example.com", models.RoleAdmin)

	expiry := time.Now().Add(48 * time.Hour)
	w := MakeTestRequest(t, router, http.MethodPost, "/v1/admin/coupons", gin.H{
		"code": "save20", "discount_type": "percentage", "value": 20, "expiry": expiry, "usage_limit": 5,
	}, adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Coupon models.Coupon `json:"coupon"`
	}
	decode(t, w, &created)
	assert.Equal(t, "SAVE20", created.Coupon.Code)

	w = MakeTestRequest(t, router, http.MethodPost, "/v1/coupons/validate", gin.H{"code": "Save20", "cart_total": 250}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var eval services.CouponEvaluation
	decode(t, w, &eval)
	assert.Equal(t, 50.0, eval.Discount)
	assert.Equal(t, 200.0, eval.FinalTotal)

	w = MakeTestRequest(t, router, http.MethodPost, "/v1/coupons/validate", gin.H{"code": "NOPE", "cart_total": 250}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = MakeTestRequest(t, router, http.MethodGet, "/v1/coupons/featured", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = MakeTestRequest(t, router, http.MethodDelete, fmt.Sprintf("/v1/admin/coupons/%d", created.Coupon.ID), nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = MakeTestRequest(t, router, http.MethodPost, "/v1/coupons/validate", gin.H{"code": "SAVE20", "cart_total": 250}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutToDeliveredInvoice(t *testing.T) {
	router, db := setupTestRouter(t)
	customer, customerToken := createUser(t, db, "Meera Iyer", "meera@example.com", models.RoleCustomer)
	_, adminToken := createUser(t, db, "Site Admin", "admin@example.com", models.RoleAdmin)
	dosa := createMenuItem(t, db, "Masala Dosa", 120)

	cart := gin.H{
		"items":          []gin.H{{"menu_item_id": dosa.ID, "quantity": 2}},
		"payment_method": "COD",
		"address_line":   "12 MG Road",
		"city":           "Bengaluru",
		"postal_code":    "560001",
	}

	w := MakeTestRequest(t, router, http.MethodPost, "/v1/checkout/quote", cart, customerToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var quote services.Quote
	decode(t, w, &quote)
	assert.Equal(t, 240.0, quote.Pricing.Subtotal)
	assert.Equal(t, 40.0, quote.Pricing.DeliveryFee)
	assert.Equal(t, 292.0, quote.Pricing.GrandTotal)

	w = MakeTestRequest(t, router, http.MethodPost, "/v1/checkout", cart, customerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placed struct {
		Order models.Order `json:"order"`
	}
	decode(t, w, &placed)
	order := placed.Order
	require.Equal(t, customer.ID, *order.UserID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, quote.Pricing.GrandTotal, order.GrandTotal)

	// no invoice before delivery
	invoicePath := fmt.Sprintf("/v1/user/orders/%d/invoice", order.ID)
	w = MakeTestRequest(t, router, http.MethodGet, invoicePath, nil, customerToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	statusPath := fmt.Sprintf("/v1/admin/orders/%d/status", order.ID)
	for _, status := range []string{"ACCEPTED", "PREPARING", "READY_FOR_PICKUP", "OUT_FOR_DELIVERY", "DELIVERED"} {
		w = MakeTestRequest(t, router, http.MethodPut, statusPath, gin.H{"status": status}, adminToken)
		require.Equal(t, http.StatusOK, w.Code, "%s: %s", status, w.Body.String())
	}

	w = MakeTestRequest(t, router, http.MethodPut, statusPath, gin.H{"status": "CANCELLED"}, adminToken)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = MakeTestRequest(t, router, http.MethodPut, statusPath, gin.H{"status": "TELEPORTED"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = MakeTestRequest(t, router, http.MethodGet, fmt.Sprintf("/v1/user/orders/%d", order.ID), nil, customerToken)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched struct {
		Order models.Order `json:"order"`
	}
	decode(t, w, &fetched)
	assert.Equal(t, models.OrderStatusDelivered, fetched.Order.Status)
	assert.Equal(t, models.PaymentStatusPaid, fetched.Order.PaymentStatus)
	require.NotNil(t, fetched.Order.InvoiceNumber)

	w = MakeTestRequest(t, router, http.MethodGet, invoicePath, nil, customerToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	var stored models.User
	require.NoError(t, db.First(&stored, customer.ID).Error)
	assert.Equal(t, order.GrandTotal, stored.LifetimeSpending)

	w = MakeTestRequest(t, router, http.MethodGet, "/v1/admin/orders/export", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = MakeTestRequest(t, router, http.MethodGet, "/v1/admin/dashboard?period=year", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stats services.DashboardStats
	decode(t, w, &stats)
	assert.Equal(t, int64(1), stats.TotalOrders)
}

func TestGuestCheckoutAndCustomerCancel(t *testing.T) {
	router, db := setupTestRouter(t)
	_, customerToken := createUser(t, db, "Ravi Kumar", "ravi@example.com", models.RoleCustomer)
	item := createMenuItem(t, db, "Paneer Roll", 150)
	lines := []gin.H{{"menu_item_id": item.ID, "quantity": 1}}

	w := MakeTestRequest(t, router, http.MethodPost, "/v1/checkout", gin.H{"items": lines}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "guests need a name and phone")

	w = MakeTestRequest(t, router, http.MethodPost, "/v1/checkout", gin.H{
		"items": lines, "guest_name": "Walk In", "guest_phone": "9876543210",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var guest struct {
		Order models.Order `json:"order"`
	}
	decode(t, w, &guest)
	assert.Nil(t, guest.Order.UserID)

	// a guest order is not visible to a signed-in customer
	w = MakeTestRequest(t, router, http.MethodPost, fmt.Sprintf("/v1/user/orders/%d/cancel", guest.Order.ID), nil, customerToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = MakeTestRequest(t, router, http.MethodPost, "/v1/checkout", gin.H{"items": lines}, customerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var mine struct {
		Order models.Order `json:"order"`
	}
	decode(t, w, &mine)

	w = MakeTestRequest(t, router, http.MethodPost, fmt.Sprintf("/v1/user/orders/%d/cancel", mine.Order.ID), gin.H{"reason": "Ordered twice"}, customerToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cancelled struct {
		Order models.Order `json:"order"`
	}
	decode(t, w, &cancelled)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Order.Status)
	assert.Equal(t, "Ordered twice", cancelled.Order.CancellationReason)

	w = MakeTestRequest(t, router, http.MethodGet, "/v1/user/orders?status=cancelled", nil, customerToken)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		TotalItems int64 `json:"total_items"`
	}
	decode(t, w, &page)
	assert.Equal(t, int64(1), page.TotalItems)
}

func TestAssignPartnerEndpoint(t *testing.T) {
	router, db := setupTestRouter(t)
	_, adminToken := createUser(t, db, "Site Admin", "admin@example.com", models.RoleAdmin)
	user, _ := createUser(t, db, "Nisha Shah", "nisha@example.com", models.RoleCustomer)

	w := MakeTestRequest(t, router, http.MethodPost, "/v1/admin/delivery-partners", gin.H{
		"name": "Rider One", "phone": "9123456780",
	}, adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Partner models.DeliveryPartner `json:"partner"`
	}
	decode(t, w, &created)

	first := &models.Order{OrderNumber: 1, UserID: &user.ID, Status: models.OrderStatusReadyForPickup, PaymentMethod: models.PaymentMethodCOD, PaymentStatus: models.PaymentStatusPending}
	second := &models.Order{OrderNumber: 2, UserID: &user.ID, Status: models.OrderStatusReadyForPickup, PaymentMethod: models.PaymentMethodCOD, PaymentStatus: models.PaymentStatusPending}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)

	w = MakeTestRequest(t, router, http.MethodPut, fmt.Sprintf("/v1/admin/orders/%d/partner", first.ID), gin.H{"partner_id": created.Partner.ID}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = MakeTestRequest(t, router, http.MethodPut, fmt.Sprintf("/v1/admin/orders/%d/partner", second.ID), gin.H{"partner_id": created.Partner.ID}, adminToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = MakeTestRequest(t, router, http.MethodGet, "/v1/admin/delivery-partners?status=BUSY", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	var busy struct {
		Partners []models.DeliveryPartner `json:"partners"`
	}
	decode(t, w, &busy)
	require.Len(t, busy.Partners, 1)
	assert.Equal(t, created.Partner.ID, busy.Partners[0].ID)
}

func TestReferralEndpoints(t *testing.T) {
	router, db := setupTestRouter(t)
	_, referrerToken := createUser(t, db, "Kiran Das", "kiran@example.com", models.RoleCustomer)
	_, friendToken := createUser(t, db, "Lata Menon", "lata@example.com", models.RoleCustomer)

	w := MakeTestRequest(t, router, http.MethodGet, "/v1/user/referral", nil, referrerToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summary services.ReferralSummary
	decode(t, w, &summary)
	require.True(t, strings.HasPrefix(summary.ReferralCode, "KIR"))

	w = MakeTestRequest(t, router, http.MethodPost, "/v1/user/referral/apply", gin.H{"code": summary.ReferralCode}, referrerToken)
	assert.Equal(t, http.StatusConflict, w.Code, "self referral")

	w = MakeTestRequest(t, router, http.MethodPost, "/v1/user/referral/apply", gin.H{"code": "ZZZ000000"}, friendToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = MakeTestRequest(t, router, http.MethodPost, "/v1/user/referral/apply", gin.H{"code": strings.ToLower(summary.ReferralCode)}, friendToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = MakeTestRequest(t, router, http.MethodPost, "/v1/user/referral/apply", gin.H{"code": summary.ReferralCode}, friendToken)
	assert.Equal(t, http.StatusConflict, w.Code, "already referred")

	w = MakeTestRequest(t, router, http.MethodGet, "/v1/user/referral/history", nil, referrerToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func signedWebhook(t *testing.T, router *gin.Engine, eventID string, payload interface{}, secret string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Razorpay-Signature", utils.SignHMAC(string(body), secret))
	if eventID != "" {
		req.Header.Set("X-Razorpay-Event-Id", eventID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type memoryDeduper struct {
	seen map[string]bool
}

func (m *memoryDeduper) FirstSeen(_ context.Context, key string) (bool, error) {
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func (m *memoryDeduper) Forget(_ context.Context, key string) error {
	delete(m.seen, key)
	return nil
}

func TestPaymentWebhook(t *testing.T) {
	router, db := setupTestRouter(t)
	user, _ := createUser(t, db, "Online Payer", "payer@example.com", models.RoleCustomer)
	order := &models.Order{
		OrderNumber:     7,
		UserID:          &user.ID,
		Status:          models.OrderStatusPending,
		GrandTotal:      321,
		PaymentMethod:   models.PaymentMethodOnline,
		PaymentStatus:   models.PaymentStatusPending,
		RazorpayOrderID: "order_web_1",
	}
	require.NoError(t, db.Create(order).Error)
	dedupe := &memoryDeduper{seen: map[string]bool{}}
	controllers.WebhookDeduper = dedupe

	payload := gin.H{
		"event": services.EventPaymentCaptured,
		"payload": gin.H{"payment": gin.H{"entity": gin.H{
			"id": "pay_web_1", "order_id": "order_web_1", "status": "captured",
		}}},
	}

	w := signedWebhook(t, router, "evt_web_1", payload, "wrong-secret")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = signedWebhook(t, router, "evt_web_1", payload, testWebhookSecret)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result struct {
		Processed bool `json:"processed"`
	}
	decode(t, w, &result)
	assert.True(t, result.Processed)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, models.OrderStatusPreparing, stored.Status)

	w = signedWebhook(t, router, "evt_web_1", payload, testWebhookSecret)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Event already processed", decode(t, w, nil).Message)

	// a failed event for an unknown order is not remembered, so a retry is handled
	missing := gin.H{
		"event":   services.EventPaymentCaptured,
		"payload": gin.H{"payment": gin.H{"entity": gin.H{"id": "pay_x", "order_id": "order_missing"}}},
	}
	w = signedWebhook(t, router, "evt_web_2", missing, testWebhookSecret)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, dedupe.seen["evt_web_2"])
}
