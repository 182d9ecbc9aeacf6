package models

import "time"

// ActiveTransactionID - логический ключ единственной записи о незавершенной транзакции.
const ActiveTransactionID = 1

// ActiveTransactionMarker фиксирует транзакцию, начатую, но не завершенную.
type ActiveTransactionMarker struct {
	TransactionID string
	CreatedAt     time.Time
}
