package domain

// Валидаторы — чистые функции без побочных эффектов. Каждый срабатывает
// до любой мутации и возвращает отдельный сентинел вместо общей ошибки.

// ValidateProduct проверяет, что продукт пригоден для включения в заказ.
func ValidateProduct(p *Product) error {
	if p == nil {
		return ErrProductNotFound
	}
	if !p.Active {
		return ErrProductInactive
	}
	if p.UnitPriceMinor() <= 0 {
		return ErrProductPriceInvalid
	}
	if p.StockQuantity() < 0 {
		return ErrProductStockNegative
	}
	return nil
}

// ValidateCustomer проверяет полноту данных клиента.
func ValidateCustomer(c *Customer) error {
	if c == nil {
		return ErrCustomerNotFound
	}
	if c.Name == "" {
		return ErrCustomerNameRequired
	}
	if len(c.Name) > MaxCustomerNameLen {
		return ErrCustomerNameTooLong
	}
	if c.Email == "" {
		return ErrCustomerEmailRequired
	}
	if len(c.Email) > MaxCustomerEmailLen {
		return ErrCustomerEmailTooLong
	}
	if c.PhoneNumber == "" {
		return ErrCustomerPhoneRequired
	}
	return nil
}

// EnsureStock проверяет достаточность стока под запрошенное количество.
func EnsureStock(p *Product, requestedQty int32) error {
	if p == nil {
		return ErrProductNotFound
	}
	if requestedQty <= 0 {
		return ErrItemQtyInvalid
	}
	if p.StockQuantity() < requestedQty {
		return ErrInsufficientStock
	}
	return nil
}
