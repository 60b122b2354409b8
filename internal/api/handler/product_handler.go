package handler

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/ports"
)

// ProductHandler handles HTTP requests for catalog operations. Reads require
// the user or admin group, writes require admin.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /api/products.
func (h *ProductHandler) List(c echo.Context) error {
	if _, err := guard(c, domain.GroupUser, domain.GroupAdmin); err != nil {
		return err
	}
	views, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponses(views))
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c echo.Context) error {
	if _, err := guard(c, domain.GroupUser, domain.GroupAdmin); err != nil {
		return err
	}
	view, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(*view))
}

// Search handles GET /api/products/search?name=.
func (h *ProductHandler) Search(c echo.Context) error {
	if _, err := guard(c, domain.GroupUser, domain.GroupAdmin); err != nil {
		return err
	}
	views, err := h.service.SearchByName(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponses(views))
}

// PriceRange handles GET /api/products/price-range?min=&max=.
func (h *ProductHandler) PriceRange(c echo.Context) error {
	if _, err := guard(c, domain.GroupUser, domain.GroupAdmin); err != nil {
		return err
	}
	minPrice, err := floatQuery(c, "min", 0)
	if err != nil {
		return err
	}
	maxPrice, err := floatQuery(c, "max", math.MaxFloat64)
	if err != nil {
		return err
	}
	views, err := h.service.ListByPriceRange(c.Request().Context(), minPrice, maxPrice)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponses(views))
}

// InStock handles GET /api/products/in-stock.
func (h *ProductHandler) InStock(c echo.Context) error {
	if _, err := guard(c, domain.GroupUser, domain.GroupAdmin); err != nil {
		return err
	}
	views, err := h.service.ListInStock(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponses(views))
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c echo.Context) error {
	if _, err := guard(c, domain.GroupAdmin); err != nil {
		return err
	}
	req, err := bindProduct(c)
	if err != nil {
		return err
	}
	view, err := h.service.Create(c.Request().Context(), toProductInput(req))
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, "/api/products/"+view.ID)
	return c.JSON(http.StatusCreated, toProductResponse(*view))
}

// Update handles PUT /api/products/:id.
func (h *ProductHandler) Update(c echo.Context) error {
	if _, err := guard(c, domain.GroupAdmin); err != nil {
		return err
	}
	req, err := bindProduct(c)
	if err != nil {
		return err
	}
	view, err := h.service.Update(c.Request().Context(), c.Param("id"), toProductInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(*view))
}

// Delete handles DELETE /api/products/:id.
func (h *ProductHandler) Delete(c echo.Context) error {
	if _, err := guard(c, domain.GroupAdmin); err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func bindProduct(c echo.Context) (productRequest, error) {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}

func floatQuery(c echo.Context, name string, def float64) (float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, name)
	}
	return v, nil
}
