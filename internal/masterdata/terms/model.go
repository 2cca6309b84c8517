package terms

// Terms are the payment terms shown on an invoice.
type Terms struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
