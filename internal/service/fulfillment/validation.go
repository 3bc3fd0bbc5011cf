package fulfillment

import "github.com/expirians/storefront/internal/domain"

// validateCreateOrder проверяет форму запроса до обращения к хранилищу.
// Проверки структурные: существование клиента и продуктов, достаточность
// стока и активность продуктов проверяются уже внутри единицы работы.
func validateCreateOrder(req *CreateOrderRequest) error {
	if req == nil {
		return domain.ErrRequestRequired
	}
	if req.CustomerID == "" {
		return domain.ErrCustomerIDRequired
	}
	if req.ShippingAddress == "" {
		return domain.ErrShippingAddrRequired
	}
	if len(req.ShippingAddress) > domain.MaxOrderAddressLen {
		return domain.ErrShippingAddrTooLong
	}
	if req.BillingAddress == "" {
		return domain.ErrBillingAddrRequired
	}
	if len(req.BillingAddress) > domain.MaxOrderAddressLen {
		return domain.ErrBillingAddrTooLong
	}
	if len(req.Items) == 0 {
		return domain.ErrItemsRequired
	}
	for _, item := range req.Items {
		if item.ProductID == "" {
			return domain.ErrItemProductRequired
		}
		if item.Quantity <= 0 {
			return domain.ErrItemQtyInvalid
		}
	}
	return nil
}
