package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/payments"
	"github.com/Piyush5621/AnarchyBay/internal/repository"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

// In-memory repositories used by the service tests.

func page[T any](items []T, params utils.PaginationParams) ([]T, int64) {
	total := int64(len(items))
	if params.Limit <= 0 {
		return items, total
	}
	start := params.Offset()
	if start < 0 {
		start = 0
	}
	if start > len(items) {
		start = len(items)
	}
	end := start + params.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total
}

type fakeProfiles struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.Profile
}

func newFakeProfiles(profiles ...*models.Profile) *fakeProfiles {
	f := &fakeProfiles{rows: map[uuid.UUID]*models.Profile{}}
	for _, p := range profiles {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		f.rows[p.ID] = p
	}
	return f
}

func (f *fakeProfiles) Create(_ context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if strings.EqualFold(existing.Email, p.Email) {
			return repository.ErrDuplicate
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakeProfiles) FindByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) FindByEmail(_ context.Context, email string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if strings.EqualFold(p.Email, email) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProfiles) ExistsByEmailOrUsername(_ context.Context, email string, username *string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if strings.EqualFold(p.Email, email) {
			return true, nil
		}
		if username != nil && p.Username != nil && *p.Username == *username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProfiles) List(_ context.Context, filter repository.ProfileFilter, params utils.PaginationParams) ([]models.Profile, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Profile
	for _, p := range f.rows {
		if filter.Role != "" && !p.Roles.Has(models.Role(filter.Role)) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Email+" "+p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *p)
	}
	rows, total := page(out, params)
	return rows, total, nil
}

func (f *fakeProfiles) Update(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "roles":
			p.Roles = v.(models.RoleSet)
		case "is_verified_seller":
			p.IsVerifiedSeller = v.(bool)
		case "show_admin_badge":
			p.ShowAdminBadge = v.(bool)
		case "is_active":
			p.IsActive = v.(bool)
		case "is_restricted":
			p.IsRestricted = v.(bool)
		case "name":
			p.Name = v.(string)
		case "username":
			username := v.(string)
			for otherID, other := range f.rows {
				if otherID != id && other.Username != nil && *other.Username == username {
					return repository.ErrDuplicate
				}
			}
			p.Username = &username
		default:
			panic("fakeProfiles: unexpected field " + k)
		}
	}
	return nil
}

type fakeProducts struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]*models.Product
	variants map[uuid.UUID]*models.ProductVariant
	listErr  error
}

func newFakeProducts(products ...*models.Product) *fakeProducts {
	f := &fakeProducts{rows: map[uuid.UUID]*models.Product{}, variants: map[uuid.UUID]*models.ProductVariant{}}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		f.rows[p.ID] = p
	}
	return f
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakeProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, err := f.FindByID(ctx, id); err == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProducts) match(p *models.Product, filter repository.ProductFilter) bool {
	switch {
	case !filter.IncludeInactive && !p.IsActive:
		return false
	case filter.CreatorID != nil && p.CreatorID != *filter.CreatorID:
		return false
	case filter.Featured != nil && p.IsFeatured != *filter.Featured:
		return false
	case filter.Search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Description), strings.ToLower(filter.Search)):
		return false
	}
	if filter.Category != "" {
		for _, c := range p.Categories {
			if c == filter.Category {
				return true
			}
		}
		return false
	}
	return true
}

func (f *fakeProducts) List(_ context.Context, filter repository.ProductFilter, params utils.PaginationParams) ([]models.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []models.Product
	for _, p := range f.rows {
		if f.match(p, filter) {
			out = append(out, *p)
		}
	}
	rows, total := page(out, params)
	return rows, total, nil
}

func (f *fakeProducts) Count(ctx context.Context, filter repository.ProductFilter) (int64, error) {
	_, total, err := f.List(ctx, filter, utils.PaginationParams{})
	return total, err
}

func (f *fakeProducts) Update(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			p.Name = v.(string)
		case "description":
			p.Description = v.(string)
		case "price":
			p.Price = v.(decimal.Decimal)
		case "categories":
			p.Categories = v.(pq.StringArray)
		case "is_active":
			p.IsActive = v.(bool)
		case "is_featured":
			p.IsFeatured = v.(bool)
		case "metadata":
			p.Metadata = v.(datatypes.JSONMap)
		default:
			panic("fakeProducts: unexpected field " + k)
		}
	}
	return nil
}

func (f *fakeProducts) CreateVariant(_ context.Context, v *models.ProductVariant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	cp := *v
	f.variants[v.ID] = &cp
	return nil
}

func (f *fakeProducts) FindVariant(_ context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.variants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeProducts) ListVariants(_ context.Context, productID uuid.UUID) ([]models.ProductVariant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ProductVariant
	for _, v := range f.variants {
		if v.ProductID == productID {
			out = append(out, *v)
		}
	}
	return out, nil
}

type fakePurchases struct {
	mu        sync.Mutex
	rows      []*models.Purchase
	createErr error
}

func (f *fakePurchases) CreateBatch(_ context.Context, purchases []models.Purchase) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for i := range purchases {
		if purchases[i].ID == uuid.Nil {
			purchases[i].ID = uuid.New()
		}
		cp := purchases[i]
		f.rows = append(f.rows, &cp)
	}
	return nil
}

func refMatches(p *models.Purchase, ref repository.OrderRef) bool {
	return p.PaymentProvider == ref.Provider && p.OrderReference() == ref.ID
}

func (f *fakePurchases) FindByOrder(_ context.Context, ref repository.OrderRef) ([]models.Purchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Purchase
	for _, p := range f.rows {
		if refMatches(p, ref) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePurchases) CompletePending(_ context.Context, ref repository.OrderRef, paymentID string, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.rows {
		if refMatches(p, ref) && p.Status == models.PurchaseStatusPending {
			p.Status = models.PurchaseStatusCompleted
			p.PurchasedAt = &at
			if ref.Provider == models.PaymentProviderRazorpay {
				p.RazorpayPaymentID = paymentID
			}
			n++
		}
	}
	return n, nil
}

func (f *fakePurchases) FindByID(_ context.Context, id uuid.UUID) (*models.Purchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePurchases) FindByLicenseKey(_ context.Context, key string) (*models.Purchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.LicenseKey == key {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePurchases) completedWhere(keep func(*models.Purchase) bool, params utils.PaginationParams) ([]models.Purchase, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Purchase
	for _, p := range f.rows {
		if p.Status == models.PurchaseStatusCompleted && keep(p) {
			out = append(out, *p)
		}
	}
	rows, total := page(out, params)
	return rows, total, nil
}

func (f *fakePurchases) ListByCustomer(_ context.Context, customerID uuid.UUID, params utils.PaginationParams) ([]models.Purchase, int64, error) {
	return f.completedWhere(func(p *models.Purchase) bool { return p.CustomerID == customerID }, params)
}

func (f *fakePurchases) ListBySeller(_ context.Context, sellerID uuid.UUID, params utils.PaginationParams) ([]models.Purchase, int64, error) {
	return f.completedWhere(func(p *models.Purchase) bool { return p.SellerID == sellerID }, params)
}

func (f *fakePurchases) HasCompleted(_ context.Context, customerID, productID uuid.UUID) (bool, error) {
	rows, _, _ := f.completedWhere(func(p *models.Purchase) bool {
		return p.CustomerID == customerID && p.ProductID == productID
	}, utils.PaginationParams{})
	return len(rows) > 0, nil
}

func (f *fakePurchases) byStatus(status models.PurchaseStatus) []models.Purchase {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Purchase
	for _, p := range f.rows {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out
}

type fakeReports struct {
	mu   sync.Mutex
	rows []*models.ProductReport
}

func (f *fakeReports) Create(_ context.Context, r *models.ProductReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	cp := *r
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeReports) FindByID(_ context.Context, id uuid.UUID) (*models.ProductReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeReports) HasPending(_ context.Context, productID, reporterID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ProductID == productID && r.ReporterID == reporterID && r.Status == models.ReportStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReports) List(_ context.Context, status models.ReportStatus, params utils.PaginationParams) ([]models.ProductReport, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ProductReport
	for _, r := range f.rows {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	rows, total := page(out, params)
	return rows, total, nil
}

func (f *fakeReports) Update(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID != id {
			continue
		}
		r.Status = fields["status"].(models.ReportStatus)
		r.AdminNotes = fields["admin_notes"].(string)
		by := fields["reviewed_by"].(uuid.UUID)
		at := fields["reviewed_at"].(time.Time)
		r.ReviewedBy, r.ReviewedAt = &by, &at
		return nil
	}
	return repository.ErrNotFound
}

type fakeContacts struct {
	mu   sync.Mutex
	rows []*models.ContactMessage
}

func (f *fakeContacts) Create(_ context.Context, m *models.ContactMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	cp := *m
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeContacts) FindByID(_ context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rows {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeContacts) List(_ context.Context, params utils.PaginationParams) ([]models.ContactMessage, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.ContactMessage, 0, len(f.rows))
	for _, m := range f.rows {
		out = append(out, *m)
	}
	rows, total := page(out, params)
	return rows, total, nil
}

func (f *fakeContacts) MarkReplied(_ context.Context, id uuid.UUID, reply string, by uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rows {
		if m.ID == id {
			m.ReplyMessage, m.RepliedBy, m.RepliedAt = reply, &by, &at
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeAudit struct {
	entries chan *models.AuditLog
}

func newFakeAudit() *fakeAudit {
	return &fakeAudit{entries: make(chan *models.AuditLog, 32)}
}

func (f *fakeAudit) Create(_ context.Context, entry *models.AuditLog) error {
	f.entries <- entry
	return nil
}

type fakeStats struct {
	dashboard repository.DashboardStats
	summary   repository.SalesSummary
}

func (f *fakeStats) Dashboard(context.Context) (*repository.DashboardStats, error) {
	d := f.dashboard
	return &d, nil
}

func (f *fakeStats) SellerSummary(context.Context, uuid.UUID) (*repository.SalesSummary, error) {
	s := f.summary
	return &s, nil
}

// Gateways and collaborators.

type fakeGateway struct {
	provider models.PaymentProvider
	err      error
	status   string

	mu       sync.Mutex
	requests []payments.OrderRequest
	seq      int
}

func (g *fakeGateway) Provider() models.PaymentProvider { return g.provider }

func (g *fakeGateway) CreateOrder(_ context.Context, req payments.OrderRequest) (*payments.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	g.seq++
	prefix := "order_"
	secret := ""
	if g.provider == models.PaymentProviderStripe {
		prefix = "pi_"
		secret = fmt.Sprintf("pi_%d_secret", g.seq)
	}
	return &payments.Order{
		ID:           fmt.Sprintf("%s%d", prefix, g.seq),
		AmountMinor:  req.AmountMinor,
		Currency:     req.Currency,
		ClientSecret: secret,
	}, nil
}

func (g *fakeGateway) OrderStatus(context.Context, string) (string, error) {
	return g.status, nil
}

func (g *fakeGateway) lastRequest() payments.OrderRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requests[len(g.requests)-1]
}

type notification struct {
	kind string
	to   string
	n    int
}

type fakeNotifier struct {
	err  error
	sent chan notification
}

func newFakeNotifier(err error) *fakeNotifier {
	return &fakeNotifier{err: err, sent: make(chan notification, 16)}
}

func (f *fakeNotifier) PurchaseCompleted(buyer *models.Profile, purchases []models.Purchase) error {
	f.sent <- notification{kind: "purchase", to: buyer.Email, n: len(purchases)}
	return f.err
}

func (f *fakeNotifier) ContactReceived(msg *models.ContactMessage) error {
	f.sent <- notification{kind: "contact_received", to: msg.Email}
	return f.err
}

func (f *fakeNotifier) ContactReplied(msg *models.ContactMessage) error {
	f.sent <- notification{kind: "contact_replied", to: msg.Email}
	return f.err
}

type fakeStore struct {
	mu      sync.Mutex
	uploads []string
	deleted []string
	failOn  int
}

func (f *fakeStore) Upload(_ context.Context, folder string, h *multipart.FileHeader) (*UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn > 0 && len(f.uploads)+1 == f.failOn {
		return nil, fmt.Errorf("upload refused")
	}
	key := generateObjectKey(folder, h.Filename)
	f.uploads = append(f.uploads, key)
	return &UploadResult{Key: key, URL: "https://storage.test/" + key, Size: h.Size}, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) PresignDownload(key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?ttl=%d", key, int(ttl.Seconds())), nil
}

type fakeGenerator struct {
	reply  string
	err    error
	prompt string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.reply, g.err
}
