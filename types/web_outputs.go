package types

// OutputProfile is derived from configuration, not from upstream state.
type OutputProfile struct {
	Email      string `json:"email"`
	RootDomain string `json:"rootDomain"`
}

type OutputSuccess struct {
	Success bool `json:"success"`
}
