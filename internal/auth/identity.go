package auth

// Role is the single effective role of a caller. The store keeps the three
// boolean flags; the strongest one wins when they are combined.
type Role string

const (
	RoleGuest    Role = "guest"
	RoleCustomer Role = "customer"
	RoleSupplier Role = "supplier"
	RoleAdmin    Role = "admin"
)

// Identity is the decoded claim set of a bearer token.
type Identity struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func RoleFromFlags(isAdmin, isSupplier, isCustomer bool) Role {
	switch {
	case isAdmin:
		return RoleAdmin
	case isSupplier:
		return RoleSupplier
	case isCustomer:
		return RoleCustomer
	default:
		return RoleGuest
	}
}
