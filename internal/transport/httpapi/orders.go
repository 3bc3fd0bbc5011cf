package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/expirians/storefront/internal/service/fulfillment"
)

// createOrder обрабатывает POST /api/v1/orders.
func (a *API) createOrder(c *gin.Context) {
	var dto createOrderDTO
	if err := bindAndValidate(c, &dto, a.validate); err != nil {
		return
	}

	req := fulfillment.CreateOrderRequest{
		CustomerID:      dto.CustomerID,
		ShippingAddress: dto.ShippingAddress,
		BillingAddress:  dto.BillingAddress,
		Notes:           dto.Notes,
	}
	for _, item := range dto.Items {
		req.Items = append(req.Items, fulfillment.CreateOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	resp, err := a.engine.CreateOrder(c.Request.Context(), req)
	if err != nil {
		writeError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderView(resp))
}

// getOrder обрабатывает GET /api/v1/orders/:id.
func (a *API) getOrder(c *gin.Context) {
	resp, err := a.engine.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderView(resp))
}

// listOrders обрабатывает GET /api/v1/orders с опциональными фильтрами
// customer_id и status.
func (a *API) listOrders(c *gin.Context) {
	req := fulfillment.ListOrdersRequest{
		CustomerID: c.Query("customer_id"),
		Status:     c.Query("status"),
	}
	responses, err := a.engine.ListOrders(c.Request.Context(), req)
	if err != nil {
		writeError(c, a.logger, err)
		return
	}

	views := make([]orderView, 0, len(responses))
	for _, resp := range responses {
		views = append(views, toOrderView(resp))
	}
	c.JSON(http.StatusOK, gin.H{"orders": views})
}

// updateOrderStatus обрабатывает PUT /api/v1/orders/:id/status.
func (a *API) updateOrderStatus(c *gin.Context) {
	var dto updateOrderStatusDTO
	if err := bindAndValidate(c, &dto, a.validate); err != nil {
		return
	}

	resp, err := a.engine.UpdateOrderStatus(c.Request.Context(), c.Param("id"), dto.Status)
	if err != nil {
		writeError(c, a.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderView(resp))
}
