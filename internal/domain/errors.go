package domain

import "errors"

// Kind классифицирует доменные ошибки. Транспортный слой переводит Kind
// в HTTP-статусы, ядро оперирует только этими категориями.
type Kind int

const (
	// KindInternal — неожиданная ошибка хранилища или инфраструктуры.
	KindInternal Kind = iota
	// KindBadRequest — некорректный или неполный ввод, нелегальный переход статуса,
	// нехватка стока.
	KindBadRequest
	// KindNotFound — запрошенная сущность не существует.
	KindNotFound
	// KindConflict — нарушение уникальности (например, дубликат SKU) или
	// конфликт версий при конкурентном обновлении.
	KindConflict
)

// Error связывает сообщение с категорией. Сентинелы ниже создаются через
// конструкторы, поэтому errors.Is по ним работает как по обычным значениям.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

// ErrKind возвращает категорию ошибки.
func (e *Error) ErrKind() Kind { return e.kind }

// BadRequestError создаёт ошибку категории KindBadRequest.
func BadRequestError(msg string) error { return &Error{kind: KindBadRequest, msg: msg} }

// NotFoundError создаёт ошибку категории KindNotFound.
func NotFoundError(msg string) error { return &Error{kind: KindNotFound, msg: msg} }

// ConflictError создаёт ошибку категории KindConflict.
func ConflictError(msg string) error { return &Error{kind: KindConflict, msg: msg} }

var (
	// Ошибки структуры запроса на создание заказа.
	ErrRequestRequired      = BadRequestError("order request is required")
	ErrCustomerIDRequired   = BadRequestError("customer_id is required")
	ErrShippingAddrRequired = BadRequestError("shipping address is required")
	ErrShippingAddrTooLong  = BadRequestError("shipping address exceeds 256 characters")
	ErrBillingAddrRequired  = BadRequestError("billing address is required")
	ErrBillingAddrTooLong   = BadRequestError("billing address exceeds 256 characters")
	ErrItemsRequired        = BadRequestError("order must contain at least one item")
	ErrItemProductRequired  = BadRequestError("item product_id is required")
	ErrItemQtyInvalid       = BadRequestError("item quantity must be greater than zero")
	ErrItemPriceInvalid     = BadRequestError("item unit price must be non-negative")

	// Ошибки инвариантов продукта.
	ErrProductSKURequired   = BadRequestError("product sku is required")
	ErrProductSKUTooLong    = BadRequestError("product sku exceeds 20 characters")
	ErrProductNameRequired  = BadRequestError("product name is required")
	ErrProductNameTooLong   = BadRequestError("product name exceeds 60 characters")
	ErrProductDescTooLong   = BadRequestError("product description exceeds 200 characters")
	ErrProductPriceInvalid  = BadRequestError("product unit price must be greater than zero")
	ErrProductStockNegative = BadRequestError("product stock quantity must be non-negative")
	ErrProductInactive      = BadRequestError("product is not active")
	ErrInsufficientStock    = BadRequestError("insufficient stock for requested quantity")

	// Ошибки инвариантов клиента.
	ErrCustomerNameRequired  = BadRequestError("customer name is required")
	ErrCustomerNameTooLong   = BadRequestError("customer name exceeds 60 characters")
	ErrCustomerEmailRequired = BadRequestError("customer email is required")
	ErrCustomerEmailTooLong  = BadRequestError("customer email exceeds 320 characters")
	ErrCustomerPhoneRequired = BadRequestError("customer phone number is required")

	// Ошибки переходов статуса.
	ErrStatusUnknown       = BadRequestError("order status is not a known value")
	ErrTransitionForbidden = BadRequestError("order status transition is not allowed")

	// Сущность не найдена.
	ErrOrderNotFound    = NotFoundError("order not found")
	ErrProductNotFound  = NotFoundError("product not found")
	ErrCustomerNotFound = NotFoundError("customer not found")

	// Конфликты хранилища.
	ErrDuplicateSKU         = ConflictError("product with this sku already exists")
	ErrDuplicateEntity      = ConflictError("entity with this id already exists")
	ErrOrderVersionConflict = ConflictError("order version conflict")
)

// KindOf определяет категорию произвольной ошибки. Всё, что не помечено
// доменной категорией, трактуется как внутренняя ошибка.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.ErrKind()
	}
	return KindInternal
}

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}
