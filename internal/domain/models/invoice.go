package models

// InvoiceItem представляет одну строку транзакции.
type InvoiceItem struct {
	ItemID           string // Товар или единица упаковки
	PackagingItemID  string // Пусто, если строка не зависит от упаковки
	LineItemSequence int    // Порядковый номер ввода, строго возрастает
	IsDeleted        bool
	HasPackaging     bool
	Quantity         int
}
