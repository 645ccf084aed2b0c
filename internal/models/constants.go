package models

// Роли пользователей
const (
	RoleGuest = "GUEST"
	RoleHost  = "HOST"
)

// Статусы бронирований
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// Статусы платежей
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
	PaymentCancelled = "CANCELLED"
)

// Способы оплаты
const (
	MethodCard         = "CARD"
	MethodBankTransfer = "BANK_TRANSFER"
	MethodCash         = "CASH"
)

const (
	// DateLayout формат календарной даты в API
	DateLayout = "2006-01-02"

	// MinRating и MaxRating границы оценки отзыва
	MinRating = 1
	MaxRating = 5

	// DefaultLookupTTL время жизни снимка бронирования в кэше
	DefaultLookupTTL = 10 * 60 // 10 минут в секундах

	// LookupRateLimit количество анонимных запросов в окне
	LookupRateLimit = 30

	// LookupRateWindow окно ограничения анонимных запросов
	LookupRateWindow = 60 // 1 минута в секундах

	// DefaultMaxNights максимальная длина бронирования
	DefaultMaxNights = 90
)

// IsValidRole проверяет роль пользователя
func IsValidRole(role string) bool {
	return role == RoleGuest || role == RoleHost
}

// IsValidStatus проверяет статус бронирования
func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// IsValidPaymentStatus проверяет статус платежа
func IsValidPaymentStatus(status string) bool {
	switch status {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentCancelled:
		return true
	}
	return false
}

// IsValidMethod проверяет способ оплаты
func IsValidMethod(method string) bool {
	switch method {
	case MethodCard, MethodBankTransfer, MethodCash:
		return true
	}
	return false
}
