package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Piyush5621/AnarchyBay/internal/config"
	"github.com/Piyush5621/AnarchyBay/internal/middleware"
	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/services"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &services.ValidationError{Message: "bad price"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"resource not found", &services.NotFoundError{Resource: "product"}, http.StatusNotFound, "NOT_FOUND"},
		{"bare not found", services.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", services.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"disabled account", services.ErrAccountDisabled, http.StatusForbidden, "FORBIDDEN"},
		{"forbidden", fmt.Errorf("%w: not the owner", services.ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{"conflict", services.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"signature", services.ErrInvalidSignature, http.StatusBadRequest, "INVALID_SIGNATURE"},
		{"payment pending", services.ErrPaymentNotCompleted, http.StatusBadRequest, "PAYMENT_NOT_COMPLETED"},
		{"order creation", fmt.Errorf("%w: upstream", services.ErrOrderCreation), http.StatusBadGateway, "ORDER_CREATION_FAILED"},
		{"provider disabled", services.ErrProviderDisabled, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"storage disabled", services.ErrStorageDisabled, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine()
			r.GET("/", func(c *gin.Context) { respondError(c, tt.err) })

			w := perform(r, http.MethodGet, "/", nil, nil)
			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestParamUUID(t *testing.T) {
	r := newEngine()
	r.GET("/items/:id", func(c *gin.Context) {
		id, ok := paramUUID(c, "id", "product")
		if !ok {
			return
		}
		utils.SuccessResponse(c, gin.H{"id": id})
	})

	w := perform(r, http.MethodGet, "/items/nope", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := uuid.New()
	w = perform(r, http.MethodGet, "/items/"+id.String(), nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), decode(t, w).Data["id"])
}

func chatRouter(products *listedProducts, generator interface {
	Generate(context.Context, string) (string, error)
}) *gin.Engine {
	h := NewChatHandler(services.NewChatService(products, generator))
	r := newEngine()
	r.POST("/api/chat", h.Chat)
	return r
}

func TestChat(t *testing.T) {
	products := &listedProducts{items: []models.Product{{Name: "React Dashboard", Price: decimal.NewFromInt(20)}}}

	t.Run("reply", func(t *testing.T) {
		w := perform(chatRouter(products, stubGenerator{reply: "Hello"}), http.MethodPost, "/api/chat", gin.H{"message": "hi"}, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"reply":"Hello"}`, w.Body.String())
	})

	t.Run("generator failure keeps reply shape", func(t *testing.T) {
		w := perform(chatRouter(products, stubGenerator{err: errors.New("quota")}), http.MethodPost, "/api/chat", gin.H{"message": "hi"}, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), `"reply"`)
	})

	t.Run("disabled", func(t *testing.T) {
		h := NewChatHandler(services.NewChatService(products, nil))
		r := newEngine()
		r.POST("/api/chat", h.Chat)
		w := perform(r, http.MethodPost, "/api/chat", gin.H{"message": "hi"}, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("empty message", func(t *testing.T) {
		w := perform(chatRouter(products, stubGenerator{reply: "x"}), http.MethodPost, "/api/chat", gin.H{"message": ""}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func contactRouter(contacts *memContacts, profiles *memProfiles, notifier stubNotifier) *gin.Engine {
	contactService := services.NewContactService(contacts, notifier)
	contactHandler := NewContactHandler(contactService)
	adminHandler := NewAdminHandler(nil, nil, contactService)

	r := newEngine()
	r.POST("/api/contact", contactHandler.Submit)
	admin := r.Group("/api/admin", middleware.AuthRequired(profiles), middleware.AdminRequired())
	admin.POST("/contact-messages/:id/reply", adminHandler.ReplyContactMessage)
	return r
}

func TestContactSubmit(t *testing.T) {
	contacts := newMemContacts()
	r := contactRouter(contacts, newMemProfiles(), stubNotifier{err: errors.New("smtp down")})

	w := perform(r, http.MethodPost, "/api/contact", gin.H{
		"name":    "Asha",
		"email":   "asha@example.com",
		"message": "Where is my download?",
	}, nil)

	// The acknowledgement mail is best effort.
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Len(t, contacts.rows, 1)

	w = perform(r, http.MethodPost, "/api/contact", gin.H{"name": "Asha", "email": "bad"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplyContactMessage(t *testing.T) {
	adminID := uuid.New()

	for _, tt := range []struct {
		name     string
		notifier stubNotifier
		sent     bool
	}{
		{"delivered", stubNotifier{}, true},
		{"mail failure still saves reply", stubNotifier{err: errors.New("smtp down")}, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			contacts := newMemContacts()
			msg := &models.ContactMessage{Name: "Asha", Email: "asha@example.com", Message: "help"}
			require.NoError(t, contacts.Create(context.Background(), msg))
			profiles := newMemProfiles()
			r := contactRouter(contacts, profiles, tt.notifier)

			w := perform(r, http.MethodPost, "/api/admin/contact-messages/"+msg.ID.String()+"/reply",
				gin.H{"reply": "Check your library."}, bearerFor(t, profiles, adminID, "admin"))

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			resp := decode(t, w)
			assert.Equal(t, tt.sent, resp.Data["email_sent"])
			assert.Equal(t, "Check your library.", contacts.rows[msg.ID].ReplyMessage)
			assert.Equal(t, adminID, *contacts.rows[msg.ID].RepliedBy)
		})
	}

	t.Run("customers are refused", func(t *testing.T) {
		profiles := newMemProfiles()
		r := contactRouter(newMemContacts(), profiles, stubNotifier{})
		w := perform(r, http.MethodPost, "/api/admin/contact-messages/"+uuid.NewString()+"/reply",
			gin.H{"reply": "x"}, bearerFor(t, profiles, uuid.New(), "customer"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("stale admin token after demotion", func(t *testing.T) {
		profiles := newMemProfiles()
		r := contactRouter(newMemContacts(), profiles, stubNotifier{})
		header := bearerFor(t, profiles, adminID, "admin")
		profiles.rows[adminID].Roles = models.DefaultRoles()

		w := perform(r, http.MethodPost, "/api/admin/contact-messages/"+uuid.NewString()+"/reply",
			gin.H{"reply": "x"}, header)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown message", func(t *testing.T) {
		profiles := newMemProfiles()
		r := contactRouter(newMemContacts(), profiles, stubNotifier{})
		w := perform(r, http.MethodPost, "/api/admin/contact-messages/"+uuid.NewString()+"/reply",
			gin.H{"reply": "x"}, bearerFor(t, profiles, adminID, "admin"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func TestHealth(t *testing.T) {
	cfg := &config.Config{
		Supabase: config.SupabaseConfig{URL: "https://x.supabase.co", AnonKey: "anon"},
		Payment:  config.PaymentConfig{RazorpayKeyID: "rzp_test", DefaultCurrency: "INR"},
	}

	up := NewHealthHandler(fakePinger{}, cfg)
	down := NewHealthHandler(fakePinger{err: errors.New("refused")}, cfg)

	r := newEngine()
	r.GET("/health", up.Health)
	r.GET("/health-check", up.HealthCheck)
	r.GET("/down", down.HealthCheck)
	r.GET("/api/config", up.PublicConfig)

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/health", nil, nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/health-check", nil, nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, perform(r, http.MethodGet, "/down", nil, nil).Code)

	resp := decode(t, perform(r, http.MethodGet, "/api/config", nil, nil))
	assert.Equal(t, "https://x.supabase.co", resp.Data["supabaseUrl"])
	assert.Equal(t, "rzp_test", resp.Data["razorpayKeyId"])
	assert.Equal(t, false, resp.Data["stripeEnabled"])
}

func TestFormList(t *testing.T) {
	for _, tt := range []struct {
		in   []string
		want []string
	}{
		{nil, []string{}},
		{[]string{`["code","design"]`}, []string{"code", "design"}},
		{[]string{"code, design"}, []string{"code", "design"}},
		{[]string{"code", "design"}, []string{"code", "design"}},
	} {
		assert.Equal(t, tt.want, formList(tt.in), strconv.Quote(fmt.Sprint(tt.in)))
	}
}
