package types

// for login
type InputLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// for adding a destination address
type InputAddress struct {
	Email string `json:"email" validate:"required,email"`
}

// for creating a forwarding rule. LocalPart is validated with the custom
// "localpart" tag: 1-64 chars of lowercase letters, digits, dot,
// underscore or hyphen.
type InputRule struct {
	LocalPart string `json:"localPart" validate:"required,max=64,localpart"`
	DestEmail string `json:"destEmail" validate:"required,email"`
}
