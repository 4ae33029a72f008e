package models

// Bill represents a recurring obligation type (e.g., "Electricity").
// A bill has no owner field: ownership is expressed only through BillUser links.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// Name is the display name of the bill. Payments copy it into BillType.
	Name string

	// Description is free-form text describing the bill.
	Description string

	// PaymentMethod describes how the bill is usually paid (e.g., "Card", "Bank transfer").
	PaymentMethod string

	// AccountNumber is the default account reference used to prefill payments.
	AccountNumber string

	// CreatedAt is the Unix timestamp (microseconds) when the bill was created.
	CreatedAt int64
}

// BillUser grants a user a role on a bill.
// Every bill has at least one owner link, created together with the bill.
type BillUser struct {
	// BillID is the bill this grant applies to.
	BillID string

	// UserID is the opaque identifier issued by the identity provider.
	UserID string

	// Role is the access level granted.
	Role Role

	// CreatedAt is the Unix timestamp (microseconds) when the grant was created.
	CreatedAt int64
}
