package domain

// CartClearMessage asks the reconciliation worker to remove the cart items
// paid for by a payment still marked pending.
type CartClearMessage struct {
	PaymentID string `json:"payment_id"`
	Email     string `json:"email"`
}

type MenuImportMessage struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	RequestedBy   string `json:"requested_by"`
}
