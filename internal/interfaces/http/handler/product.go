package handler

import (
	"context"
	"net/http"
	"strconv"

	catalogapp "github.com/erp/installments/internal/application/catalog"
	"github.com/erp/installments/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ProductService is what ProductHandler needs from the catalog service
type ProductService interface {
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	GetByID(ctx context.Context, id int64) (*catalogapp.ProductResponse, error)
	ChangePrice(ctx context.Context, id int64, req catalogapp.ChangePriceRequest) (*catalogapp.ProductResponse, error)
	RevertToSnapshot(ctx context.Context, id int64, version int) (*catalogapp.ProductResponse, error)
	ListSnapshots(ctx context.Context, id int64) ([]catalogapp.PriceSnapshotResponse, error)
}

// ProductHandler handles product and price snapshot endpoints
type ProductHandler struct {
	BaseHandler
	products ProductService
}

// NewProductHandler creates a ProductHandler
func NewProductHandler(base BaseHandler, products ProductService) *ProductHandler {
	return &ProductHandler{BaseHandler: base, products: products}
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Description  Creates the product and its first price snapshot
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangePrice godoc
// @ID           changeProductPrice
// @Summary      Change a product's prices
// @Description  Stores the new prices as the next snapshot version
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path int                           true "Product ID"
// @Param        request body catalogapp.ChangePriceRequest true "Prices"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/price [put]
func (h *ProductHandler) ChangePrice(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ChangePriceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.products.ChangePrice(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListSnapshots godoc
// @ID           listPriceSnapshots
// @Summary      List price snapshots of a product
// @Tags         products
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200 {object} APIResponse[[]catalogapp.PriceSnapshotResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/price-snapshots [get]
func (h *ProductHandler) ListSnapshots(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.products.ListSnapshots(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RevertPrice godoc
// @ID           revertProductPrice
// @Summary      Restore the prices of a snapshot
// @Tags         products
// @Produce      json
// @Param        id      path int true "Product ID"
// @Param        version path int true "Snapshot version"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/price-snapshots/{version}/revert [post]
func (h *ProductHandler) RevertPrice(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil || version <= 0 {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid version")
		return
	}
	resp, err := h.products.RevertToSnapshot(c.Request.Context(), id, version)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
