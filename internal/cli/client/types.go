package client

// Envelope is the uniform wrapper around every backend response.
// StatusCode is the backend's own verdict and is independent of the HTTP status.
type Envelope[T any] struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       *T     `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
}

// User represents the authenticated user
type User struct {
	ID        string `json:"_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	CreatedAt *Time  `json:"createdAt,omitempty"`
	UpdatedAt *Time  `json:"updatedAt,omitempty"`
}

// UserUpdate holds the mutable profile fields; nil fields are left unchanged
type UserUpdate struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
	Email  *string `json:"email,omitempty"`
}

// LoginCredentials represents the login request body
type LoginCredentials struct {
	Email    string `json:"email" validate:"required,finemail"`
	Password string `json:"password" validate:"required"`
}

// RegisterCredentials represents the registration request body
type RegisterCredentials struct {
	Name            string `json:"name" validate:"required,finname"`
	Email           string `json:"email" validate:"required,finemail"`
	Password        string `json:"password" validate:"required,finpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// AuthResponse is returned by the login and Google code exchange endpoints
type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RegisterResponse is returned by the registration endpoint
type RegisterResponse struct {
	ID       string `json:"_id"`
	CreateAt string `json:"createAt"`
}

// Transaction types
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction is a single income or expense entry
type Transaction struct {
	ID          string  `json:"id,omitempty"`
	UserID      string  `json:"userId,omitempty"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        Time    `json:"date"`
	CreatedAt   *Time   `json:"createdAt,omitempty"`
	UpdatedAt   *Time   `json:"updatedAt,omitempty"`
}

// Account is a bank, credit or investment account
type Account struct {
	ID        string  `json:"id,omitempty"`
	UserID    string  `json:"userId,omitempty"`
	Name      string  `json:"name"`
	Type      string  `json:"type"` // checking, savings, credit, investment
	Balance   float64 `json:"balance"`
	Currency  string  `json:"currency"`
	CreatedAt *Time   `json:"createdAt,omitempty"`
	UpdatedAt *Time   `json:"updatedAt,omitempty"`
}

// Budget is a spending limit for a category over a period
type Budget struct {
	ID        string  `json:"id,omitempty"`
	UserID    string  `json:"userId,omitempty"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Spent     float64 `json:"spent"`
	Period    string  `json:"period"` // monthly, yearly
	Category  string  `json:"category"`
	CreatedAt *Time   `json:"createdAt,omitempty"`
	UpdatedAt *Time   `json:"updatedAt,omitempty"`
}

// Investment is a holding of a traded symbol
type Investment struct {
	ID           string  `json:"id,omitempty"`
	UserID       string  `json:"userId,omitempty"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Shares       float64 `json:"shares"`
	AveragePrice float64 `json:"averagePrice"`
	CurrentPrice float64 `json:"currentPrice"`
	CreatedAt    *Time   `json:"createdAt,omitempty"`
	UpdatedAt    *Time   `json:"updatedAt,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type googleCodeRequest struct {
	Code string `json:"code"`
}
