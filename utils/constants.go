package utils

// Application constants
const (
	AppName    = "QuickBite"
	APIVersion = "v1"

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum pagination limit
	MaxPaginationLimit = 100

	MinPasswordLength = 8
	MaxPasswordLength = 64

	MinNameLength = 2
	MaxNameLength = 50

	// Maximum quantity of a single line item
	MaxLineQuantity = 50
)

// Error messages
const (
	ErrInvalidCredentials = "Invalid email or password"
	ErrUserBlocked        = "Your account has been blocked"
	ErrInvalidToken       = "Invalid or expired token"
	ErrUnauthorized       = "Please login for access"
	ErrInternalServer     = "Internal server error"
)

// Success messages
const (
	MsgLoginSuccess    = "Login successful"
	MsgRegisterSuccess = "Registration successful"
	MsgUpdateSuccess   = "Updated successfully"
)
