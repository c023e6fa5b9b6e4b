// internal/handlers/product.go
package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Piyush5621/AnarchyBay/internal/i18n"
	"github.com/Piyush5621/AnarchyBay/internal/services"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	reportService  *services.ReportService
}

func NewProductHandler(productService *services.ProductService, reportService *services.ReportService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		reportService:  reportService,
	}
}

// GET /api/products/list
func (h *ProductHandler) List(c *gin.Context) {
	q := services.ProductListQuery{Params: utils.PaginationFromQuery(c)}
	if featured, err := strconv.ParseBool(c.Query("featured")); err == nil {
		q.Featured = &featured
	}

	products, total, err := h.productService.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, products, total, q.Params)
}

// GET /api/products/search?q=
func (h *ProductHandler) Search(c *gin.Context) {
	params := utils.PaginationFromQuery(c)

	products, total, err := h.productService.Search(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, products, total, params)
}

// GET /api/products/total
func (h *ProductHandler) Total(c *gin.Context) {
	total, err := h.productService.Total(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"total": total})
}

// GET /api/products/featured
func (h *ProductHandler) Featured(c *gin.Context) {
	products, err := h.productService.Featured(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, products)
}

// GET /api/products/my/list
func (h *ProductHandler) MyProducts(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	params := utils.PaginationFromQuery(c)

	products, total, err := h.productService.MyProducts(c.Request.Context(), actor.ID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, products, total, params)
}

// GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /api/products/create (multipart/form-data)
func (h *ProductHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	price, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("price")))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "price"), nil)
		return
	}
	req.Price = price
	req.Categories = formList(c.PostFormArray("categories"))

	if raw := c.PostForm("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Metadata); err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "metadata"), err.Error())
			return
		}
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	var uploads services.ProductUploads
	if form, err := c.MultipartForm(); err == nil {
		uploads = services.ProductUploads{
			Files:         form.File["files"],
			Thumbnail:     form.File["thumbnail"],
			PreviewImages: form.File["preview_images"],
		}
	}

	product, err := h.productService.Create(c.Request.Context(), actor, &req, uploads)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, product)
}

// formList accepts repeated fields, a comma separated value or a JSON array.
func formList(values []string) []string {
	if len(values) == 1 {
		raw := strings.TrimSpace(values[0])
		var parsed []string
		if strings.HasPrefix(raw, "[") && json.Unmarshal([]byte(raw), &parsed) == nil {
			values = parsed
		} else {
			values = strings.Split(raw, ",")
		}
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// PUT /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return
	}

	if err := h.productService.Deactivate(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyProductDeactivated),
	})
}

// GET /api/products/:id/variants
func (h *ProductHandler) ListVariants(c *gin.Context) {
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return
	}

	variants, err := h.productService.ListVariants(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, variants)
}

// POST /api/products/:id/variants
func (h *ProductHandler) CreateVariant(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return
	}

	var req services.CreateVariantRequest
	if !bindJSON(c, &req) {
		return
	}

	variant, err := h.productService.CreateVariant(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, variant)
}

// GET /api/products/:id/files
func (h *ProductHandler) Files(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return
	}

	links, err := h.productService.DownloadLinks(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"files": links})
}

// POST /api/products/:id/report
func (h *ProductHandler) Report(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return
	}

	var req services.ReportProductRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.reportService.Report(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Report submitted successfully. Our team will review it soon.",
		"report":  report,
	})
}
