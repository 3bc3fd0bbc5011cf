package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/expirians/storefront/internal/service/catalog"
)

// createProduct обрабатывает POST /api/v1/products.
func (a *API) createProduct(c *gin.Context) {
	var dto createProductDTO
	if err := bindAndValidate(c, &dto, a.validate); err != nil {
		return
	}

	product, err := a.catalog.AddProduct(c.Request.Context(), catalog.AddProductRequest{
		SKU:            dto.SKU,
		InternalCode:   dto.InternalCode,
		Name:           dto.Name,
		Description:    dto.Description,
		UnitPriceMinor: dto.UnitPriceMinor,
		StockQuantity:  dto.StockQuantity,
	})
	if err != nil {
		writeError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toProductView(product))
}

// listProducts обрабатывает GET /api/v1/products. По умолчанию отдаются
// только активные продукты; include_inactive=true возвращает все.
func (a *API) listProducts(c *gin.Context) {
	includeInactive, _ := strconv.ParseBool(c.Query("include_inactive"))

	products, err := a.catalog.ListProducts(c.Request.Context(), !includeInactive)
	if err != nil {
		writeError(c, a.logger, err)
		return
	}

	views := make([]productView, 0, len(products))
	for _, product := range products {
		views = append(views, toProductView(product))
	}
	c.JSON(http.StatusOK, gin.H{"products": views})
}

// getProduct обрабатывает GET /api/v1/products/:id.
func (a *API) getProduct(c *gin.Context) {
	product, err := a.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, toProductView(product))
}

// updateProduct обрабатывает PUT /api/v1/products/:id.
func (a *API) updateProduct(c *gin.Context) {
	var dto updateProductDTO
	if err := bindAndValidate(c, &dto, a.validate); err != nil {
		return
	}

	product, err := a.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), catalog.UpdateProductRequest{
		Name:           dto.Name,
		Description:    dto.Description,
		UnitPriceMinor: dto.UnitPriceMinor,
		StockQuantity:  dto.StockQuantity,
	})
	if err != nil {
		writeError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, toProductView(product))
}

// deactivateProduct обрабатывает PATCH /api/v1/products/:id — снятие
// продукта с витрины без удаления.
func (a *API) deactivateProduct(c *gin.Context) {
	product, err := a.catalog.DeactivateProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, toProductView(product))
}

// createCustomer обрабатывает POST /api/v1/customers.
func (a *API) createCustomer(c *gin.Context) {
	var dto createCustomerDTO
	if err := bindAndValidate(c, &dto, a.validate); err != nil {
		return
	}

	customer, err := a.catalog.CreateCustomer(c.Request.Context(), catalog.CreateCustomerRequest{
		Email:       dto.Email,
		Name:        dto.Name,
		PhoneNumber: dto.PhoneNumber,
	})
	if err != nil {
		writeError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomerView(customer))
}

// getCustomer обрабатывает GET /api/v1/customers/:id.
func (a *API) getCustomer(c *gin.Context) {
	customer, err := a.catalog.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerView(customer))
}
