package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Piyush5621/AnarchyBay/internal/i18n"
	"github.com/Piyush5621/AnarchyBay/internal/middleware"
	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/repository"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := i18n.Initialize(); err != nil {
		panic(err)
	}
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(middleware.I18nMiddleware())
	return r
}

func perform(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   *utils.APIError        `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// bearerFor stores an active profile with roles under id and returns a
// matching Authorization header.
func bearerFor(t *testing.T, profiles *memProfiles, id uuid.UUID, roles ...string) map[string]string {
	t.Helper()
	set, err := models.NewRoleSet(roles...)
	require.NoError(t, err)
	profile := &models.Profile{Email: "u@example.com", Roles: set, IsActive: true}
	profile.ID = id
	require.NoError(t, profiles.Create(context.Background(), profile))
	token, err := utils.GenerateJWT(id, profile.Email, roles, 1)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

// Stubs embed the repository interface; only the methods a test reaches
// are implemented.

type memProfiles struct {
	repository.ProfileRepository
	mu   sync.Mutex
	rows map[uuid.UUID]*models.Profile
}

func newMemProfiles() *memProfiles {
	return &memProfiles{rows: map[uuid.UUID]*models.Profile{}}
}

func (m *memProfiles) ExistsByEmailOrUsername(_ context.Context, email string, username *string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.rows {
		if strings.EqualFold(p.Email, email) {
			return true, nil
		}
		if username != nil && p.Username != nil && *p.Username == *username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memProfiles) Create(_ context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	m.rows[p.ID] = &cp
	return nil
}

func (m *memProfiles) FindByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProfiles) FindByEmail(_ context.Context, email string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.rows {
		if strings.EqualFold(p.Email, email) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type listedProducts struct {
	repository.ProductRepository
	items []models.Product
	err   error
}

func (l *listedProducts) List(_ context.Context, _ repository.ProductFilter, params utils.PaginationParams) ([]models.Product, int64, error) {
	if l.err != nil {
		return nil, 0, l.err
	}
	items := l.items
	if params.Limit > 0 && len(items) > params.Limit {
		items = items[:params.Limit]
	}
	return items, int64(len(l.items)), nil
}

type memContacts struct {
	repository.ContactRepository
	mu   sync.Mutex
	rows map[uuid.UUID]*models.ContactMessage
}

func newMemContacts() *memContacts {
	return &memContacts{rows: map[uuid.UUID]*models.ContactMessage{}}
}

func (m *memContacts) Create(_ context.Context, msg *models.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	cp := *msg
	m.rows[msg.ID] = &cp
	return nil
}

func (m *memContacts) FindByID(_ context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *msg
	return &cp, nil
}

func (m *memContacts) MarkReplied(_ context.Context, id uuid.UUID, reply string, by uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	msg.ReplyMessage = reply
	msg.RepliedBy = &by
	msg.RepliedAt = &at
	return nil
}

type stubNotifier struct {
	err error
}

func (s stubNotifier) PurchaseCompleted(*models.Profile, []models.Purchase) error { return s.err }
func (s stubNotifier) ContactReceived(*models.ContactMessage) error             { return s.err }
func (s stubNotifier) ContactReplied(*models.ContactMessage) error              { return s.err }

type stubGenerator struct {
	reply string
	err   error
}

func (s stubGenerator) Generate(context.Context, string) (string, error) {
	return s.reply, s.err
}
