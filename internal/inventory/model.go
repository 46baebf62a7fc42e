package inventory

// Product is a product row with its available stock. Quantity never goes
// negative; the reservation path enforces that under a row lock.
type Product struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}
