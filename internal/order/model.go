package order

type Order struct {
	ID          int64  `json:"id"`
	ProductName string `json:"productName"`
	ProductID   int64  `json:"productId"`
	Quantity    int    `json:"quantity"`
	Username    string `json:"username"`
	Status      Status `json:"status"`
}
