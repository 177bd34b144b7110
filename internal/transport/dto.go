package transport

type CreateCustomerRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// CustomerResponse is the read shape: the password hash never leaves the
// service.
type CustomerResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type CreateOrderRequest struct {
	CustomerID  uint    `json:"customer_id"`
	TotalAmount float64 `json:"total_amount"`
	ProductIDs  []uint  `json:"product_ids"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
