// internal/services/product_service.go
package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/Piyush5621/AnarchyBay/internal/config"
	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/repository"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

const (
	maxProductFiles   = 10
	maxPreviewImages  = 10
	downloadLinkTTL   = 15 * time.Minute
	featuredListLimit = 12
)

type ProductService struct {
	products  repository.ProductRepository
	purchases repository.PurchaseRepository
	profiles  repository.ProfileRepository
	storage   FileStore
	cfg       *config.Config
}

type CreateProductRequest struct {
	Name        string                 `form:"name" json:"name" validate:"required,min=3,max=255"`
	Description string                 `form:"description" json:"description" validate:"max=10000"`
	Price       decimal.Decimal        `form:"-" json:"price"`
	Currency    string                 `form:"currency" json:"currency" validate:"omitempty,len=3"`
	Categories  []string               `form:"-" json:"categories" validate:"max=10,dive,max=50"`
	Metadata    map[string]interface{} `form:"-" json:"metadata"`
}

type UpdateProductRequest struct {
	Name        *string                `json:"name" validate:"omitempty,min=3,max=255"`
	Description *string                `json:"description" validate:"omitempty,max=10000"`
	Price       *decimal.Decimal       `json:"price"`
	Categories  []string               `json:"categories" validate:"omitempty,max=10,dive,max=50"`
	IsActive    *bool                  `json:"is_active"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type CreateVariantRequest struct {
	Name  string          `json:"name" validate:"required,max=255"`
	Price decimal.Decimal `json:"price"`
}

// ProductUploads are the multipart fields of a product creation.
type ProductUploads struct {
	Files         []*multipart.FileHeader
	Thumbnail     []*multipart.FileHeader
	PreviewImages []*multipart.FileHeader
}

type DownloadLink struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ProductListQuery struct {
	Params   utils.PaginationParams
	Featured *bool
}

// NewProductService accepts a nil storage; uploads and downloads then fail
// with ErrStorageDisabled.
func NewProductService(
	products repository.ProductRepository,
	purchases repository.PurchaseRepository,
	profiles repository.ProfileRepository,
	storage FileStore,
	cfg *config.Config,
) *ProductService {
	return &ProductService{
		products:  products,
		purchases: purchases,
		profiles:  profiles,
		storage:   storage,
		cfg:       cfg,
	}
}

func (s *ProductService) List(ctx context.Context, q ProductListQuery) ([]models.Product, int64, error) {
	return s.products.List(ctx, repository.ProductFilter{
		Category: q.Params.Category,
		Featured: q.Featured,
		Search:   q.Params.Search,
	}, q.Params)
}

func (s *ProductService) Search(ctx context.Context, params utils.PaginationParams) ([]models.Product, int64, error) {
	if strings.TrimSpace(params.Search) == "" {
		return nil, 0, invalid("search query is required")
	}
	return s.products.List(ctx, repository.ProductFilter{
		Category: params.Category,
		Search:   strings.TrimSpace(params.Search),
	}, params)
}

func (s *ProductService) Total(ctx context.Context) (int64, error) {
	return s.products.Count(ctx, repository.ProductFilter{})
}

func (s *ProductService) Featured(ctx context.Context) ([]models.Product, error) {
	featured := true
	products, _, err := s.products.List(ctx, repository.ProductFilter{Featured: &featured}, utils.PaginationParams{
		Page:  1,
		Limit: featuredListLimit,
		Sort:  "created_at",
		Order: "desc",
	})
	return products, err
}

func (s *ProductService) MyProducts(ctx context.Context, creatorID uuid.UUID, params utils.PaginationParams) ([]models.Product, int64, error) {
	return s.products.List(ctx, repository.ProductFilter{
		IncludeInactive: true,
		CreatorID:       &creatorID,
		Search:          params.Search,
	}, params)
}

// Get hides inactive products from everyone but their owner and admins.
func (s *ProductService) Get(ctx context.Context, viewer Actor, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, "product")
	}
	if !product.IsActive && !viewer.Owns(product.CreatorID) {
		return nil, notFound("product")
	}
	return product, nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return invalid("price must not be negative")
	}
	if !price.Equal(price.Round(2)) {
		return invalid("price supports at most two decimal places")
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, creator Actor, req *CreateProductRequest, uploads ProductUploads) (*models.Product, error) {
	profile, err := s.profiles.FindByID(ctx, creator.ID)
	if err != nil {
		return nil, orNotFound(err, "user")
	}
	if profile.IsRestricted {
		return nil, fmt.Errorf("%w: account is restricted", ErrForbidden)
	}
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	if err := checkUploads(uploads); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = s.cfg.Payment.DefaultCurrency
	}

	product := &models.Product{
		CreatorID:   creator.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Currency:    currency,
		Categories:  pq.StringArray(req.Categories),
		IsActive:    true,
		Metadata:    datatypes.JSONMap(req.Metadata),
	}
	product.ID = uuid.New()

	keys, err := s.storeUploads(ctx, product, uploads)
	if err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		s.cleanup(keys)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func checkUploads(u ProductUploads) error {
	switch {
	case len(u.Files) > maxProductFiles:
		return invalid(fmt.Sprintf("at most %d files are allowed", maxProductFiles))
	case len(u.Thumbnail) > 1:
		return invalid("only one thumbnail is allowed")
	case len(u.PreviewImages) > maxPreviewImages:
		return invalid(fmt.Sprintf("at most %d preview images are allowed", maxPreviewImages))
	}
	for _, group := range [][]*multipart.FileHeader{u.Files, u.Thumbnail, u.PreviewImages} {
		for _, h := range group {
			if h.Size > MaxUploadSize {
				return invalid(fmt.Sprintf("file %s exceeds the 50MB limit", h.Filename))
			}
		}
	}
	return nil
}

// storeUploads puts every upload under products/<id>/ and returns the stored
// keys. On failure everything stored so far is removed again.
func (s *ProductService) storeUploads(ctx context.Context, product *models.Product, u ProductUploads) ([]string, error) {
	if len(u.Files)+len(u.Thumbnail)+len(u.PreviewImages) == 0 {
		return nil, nil
	}
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}

	prefix := path.Join("products", product.ID.String())
	var keys []string
	put := func(dir string, h *multipart.FileHeader) (*UploadResult, error) {
		res, err := s.storage.Upload(ctx, path.Join(prefix, dir), h)
		if err != nil {
			s.cleanup(keys)
			return nil, err
		}
		keys = append(keys, res.Key)
		return res, nil
	}

	for _, h := range u.Files {
		res, err := put("files", h)
		if err != nil {
			return nil, err
		}
		product.FileKeys = append(product.FileKeys, res.Key)
	}
	for _, h := range u.Thumbnail {
		res, err := put("thumbnail", h)
		if err != nil {
			return nil, err
		}
		product.ThumbnailURL = res.URL
	}
	for _, h := range u.PreviewImages {
		res, err := put("previews", h)
		if err != nil {
			return nil, err
		}
		product.PreviewImages = append(product.PreviewImages, res.URL)
	}
	return keys, nil
}

// cleanup removes uploaded objects; failures are only logged.
func (s *ProductService) cleanup(keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(context.Background(), key); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("Failed to remove orphaned upload")
		}
	}
}

func (s *ProductService) owned(ctx context.Context, actor Actor, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, "product")
	}
	if !actor.Owns(product.CreatorID) {
		return nil, fmt.Errorf("%w: not the product owner", ErrForbidden)
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, actor Actor, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
		fields["price"] = *req.Price
	}
	if req.Categories != nil {
		fields["categories"] = pq.StringArray(req.Categories)
	}
	if req.IsActive != nil {
		// Owners may unlist; only admins relist a hidden product.
		if *req.IsActive && !product.IsActive && !actor.IsAdmin() {
			return nil, fmt.Errorf("%w: only an admin can reactivate a product", ErrForbidden)
		}
		fields["is_active"] = *req.IsActive
	}
	if req.Metadata != nil {
		fields["metadata"] = datatypes.JSONMap(req.Metadata)
	}
	if len(fields) == 0 {
		return nil, invalid("nothing to update")
	}

	if err := s.products.Update(ctx, id, fields); err != nil {
		return nil, orNotFound(err, "product")
	}
	return s.products.FindByID(ctx, id)
}

// Deactivate hides the product; purchases keep access to the files.
func (s *ProductService) Deactivate(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	return orNotFound(s.products.Update(ctx, id, map[string]interface{}{"is_active": false}), "product")
}

func (s *ProductService) CreateVariant(ctx context.Context, actor Actor, productID uuid.UUID, req *CreateVariantRequest) (*models.ProductVariant, error) {
	if _, err := s.owned(ctx, actor, productID); err != nil {
		return nil, err
	}
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}

	variant := &models.ProductVariant{
		ProductID: productID,
		Name:      strings.TrimSpace(req.Name),
		Price:     req.Price,
	}
	if err := s.products.CreateVariant(ctx, variant); err != nil {
		return nil, fmt.Errorf("failed to create variant: %w", err)
	}
	return variant, nil
}

func (s *ProductService) ListVariants(ctx context.Context, viewer Actor, productID uuid.UUID) ([]models.ProductVariant, error) {
	if _, err := s.Get(ctx, viewer, productID); err != nil {
		return nil, err
	}
	return s.products.ListVariants(ctx, productID)
}

// DownloadLinks presigns every product file for the owner, admins and
// buyers with a completed purchase.
func (s *ProductService) DownloadLinks(ctx context.Context, actor Actor, productID uuid.UUID) ([]DownloadLink, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, orNotFound(err, "product")
	}

	if !actor.Owns(product.CreatorID) {
		bought, err := s.purchases.HasCompleted(ctx, actor.ID, productID)
		if err != nil {
			return nil, fmt.Errorf("failed to check purchase: %w", err)
		}
		if !bought {
			return nil, fmt.Errorf("%w: product not purchased", ErrForbidden)
		}
	}

	if len(product.FileKeys) == 0 {
		return []DownloadLink{}, nil
	}
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}

	expires := time.Now().Add(downloadLinkTTL)
	links := make([]DownloadLink, 0, len(product.FileKeys))
	for _, key := range product.FileKeys {
		url, err := s.storage.PresignDownload(key, downloadLinkTTL)
		if err != nil {
			return nil, err
		}
		links = append(links, DownloadLink{Name: originalName(key), URL: url, ExpiresAt: expires})
	}
	return links, nil
}
