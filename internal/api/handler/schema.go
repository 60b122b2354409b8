package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

// Password length is capped at bcrypt's 72-byte input limit.
type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// --- Products ---

type productRequest struct {
	Name          string  `json:"name"           validate:"required,max=200"`
	Description   string  `json:"description"    validate:"max=2000"`
	Price         float64 `json:"price"          validate:"gte=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	SKU           string  `json:"sku"            validate:"required,max=64"`
}

// Response-only types owned by the transport layer.
// These are intentionally separate from ports/domain types so the JSON
// contract is not coupled to internal service changes.

type productResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	StockQuantity int        `json:"stock_quantity"`
	SKU           string     `json:"sku"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// --- Protected resources ---

type publicResponse struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type userInfoResponse struct {
	Message   string    `json:"message"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Groups    []string  `json:"groups"`
	Issuer    string    `json:"issuer"`
	Audience  []string  `json:"audience"`
	ExpiresAt time.Time `json:"expires_at"`
}

type adminInfoResponse struct {
	Message  string   `json:"message"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Groups   []string `json:"groups"`
	IsAdmin  bool     `json:"is_admin"`
}

type profileResponse struct {
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Subject     string   `json:"subject"`
	TokenID     string   `json:"token_id"`
	AccessLevel string   `json:"access_level"`
	Permissions []string `json:"permissions"`
}
