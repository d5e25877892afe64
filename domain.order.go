package main

// OrderItem is a single catalog line of an order.
type OrderItem struct {
	BookID   int `json:"bookId"`
	Quantity int `json:"quantity"`
}

// OrderRequest carries the customer identity and the selected lines of a
// checkout. When Items is empty the current selection is used instead.
type OrderRequest struct {
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
	City      string      `json:"city,omitempty"`
	Items     []OrderItem `json:"items"`
	Notes     string      `json:"notes,omitempty"`
}

// OrderRecord is the upstream acknowledgement of a created order.
type OrderRecord struct {
	ID          int    `json:"id"`
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
	TotalPrice  string `json:"totalPrice,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// ArchivedOrder is the locally kept trace of a submitted order. It is queued
// after a successful upstream submission and written to the archive store by
// a background consumer.
type ArchivedOrder struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"orderNumber"`
	Email       string      `json:"email"`
	Items       []OrderItem `json:"items"`
	TotalPrice  string      `json:"totalPrice"`
	SubmittedAt string      `json:"submittedAt"`
}
