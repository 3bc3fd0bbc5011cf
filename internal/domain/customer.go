package domain

import "time"

// Ограничения на поля клиента; совпадают со схемой хранения.
const (
	MaxCustomerNameLen  = 60
	MaxCustomerEmailLen = 320
)

// Customer — покупатель каталога. Заказы ссылаются на клиента, но сам
// клиент заказы не мутирует и не каскадирует их удаление.
type Customer struct {
	ID          string
	Email       string
	Name        string
	PhoneNumber string
	CreatedAt   time.Time
}
