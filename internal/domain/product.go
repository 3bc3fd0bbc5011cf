package domain

import "time"

// Ограничения на поля продукта.
const (
	MaxProductSKULen  = 20
	MaxProductNameLen = 60
	MaxProductDescLen = 200
)

// Product — позиция каталога с конечным стоком. Цена хранится в минимальных
// денежных единицах. Поля цены и стока меняются только через мутаторы,
// чтобы некорректное состояние было непредставимо снаружи пакета.
type Product struct {
	ID           string
	SKU          string
	InternalCode string
	Name         string
	Description  string

	unitPriceMinor int64
	stockQuantity  int32

	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct создаёт продукт, проверяя инварианты в момент конструирования.
func NewProduct(id, sku, internalCode, name, description string, unitPriceMinor int64, stockQuantity int32, active bool) (Product, error) {
	p := Product{
		ID:           id,
		SKU:          sku,
		InternalCode: internalCode,
		Name:         name,
		Description:  description,
		Active:       active,
	}
	if sku == "" {
		return Product{}, ErrProductSKURequired
	}
	if len(sku) > MaxProductSKULen {
		return Product{}, ErrProductSKUTooLong
	}
	if name == "" {
		return Product{}, ErrProductNameRequired
	}
	if len(name) > MaxProductNameLen {
		return Product{}, ErrProductNameTooLong
	}
	if len(description) > MaxProductDescLen {
		return Product{}, ErrProductDescTooLong
	}
	if err := p.SetUnitPrice(unitPriceMinor); err != nil {
		return Product{}, err
	}
	if err := p.SetStock(stockQuantity); err != nil {
		return Product{}, err
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

// UnitPriceMinor возвращает текущую цену за единицу в минимальных единицах.
func (p *Product) UnitPriceMinor() int64 { return p.unitPriceMinor }

// StockQuantity возвращает доступный сток.
func (p *Product) StockQuantity() int32 { return p.stockQuantity }

// SetUnitPrice меняет цену. Цена должна быть строго положительной.
func (p *Product) SetUnitPrice(priceMinor int64) error {
	if priceMinor <= 0 {
		return ErrProductPriceInvalid
	}
	p.unitPriceMinor = priceMinor
	return nil
}

// SetStock задаёт сток. Отрицательные значения отклоняются на присвоении.
func (p *Product) SetStock(qty int32) error {
	if qty < 0 {
		return ErrProductStockNegative
	}
	p.stockQuantity = qty
	return nil
}

// Deactivate помечает продукт недоступным для новых заказов.
// Продукты не удаляются физически, пока на них ссылаются позиции заказов.
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now().UTC()
}

// RestoreProduct восстанавливает продукт из хранилища без повторной проверки
// инвариантов: схема БД гарантирует их для уже записанных строк.
func RestoreProduct(id, sku, internalCode, name, description string, unitPriceMinor int64, stockQuantity int32, active bool, createdAt, updatedAt time.Time) Product {
	return Product{
		ID:             id,
		SKU:            sku,
		InternalCode:   internalCode,
		Name:           name,
		Description:    description,
		unitPriceMinor: unitPriceMinor,
		stockQuantity:  stockQuantity,
		Active:         active,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
}
