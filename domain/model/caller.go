package model

// Caller is the identity attached to an inbound request by the auth layer.
type Caller struct {
	Identity      string
	Authenticated bool
}

func AnonymousCaller() Caller {
	return Caller{}
}
