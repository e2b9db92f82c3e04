package domain

import "context"

// SchemaRepository manages the two directory tables.
type SchemaRepository interface {
	// Create ensures both tables exist. Safe to call repeatedly.
	Create(ctx context.Context) error
	// Drop removes both tables; ErrNotFound when they were never created.
	Drop(ctx context.Context) error
}

// ClientRepository defines the operations on the client entity.
// Inputs are expected to be validated and normalized by the caller.
type ClientRepository interface {
	Create(ctx context.Context, name, surname, email string) (int64, error)
	Update(ctx context.Context, clientID int64, upd ClientUpdate) error
	Delete(ctx context.Context, clientID int64) error
	GetByID(ctx context.Context, clientID int64) (*ClientRecord, error)
	Find(ctx context.Context, query string) ([]ClientListing, error)
}

// PhoneRepository defines the operations on phone numbers.
type PhoneRepository interface {
	Add(ctx context.Context, clientID int64, number string) (int64, error)
	Remove(ctx context.Context, clientID int64, number string) error
}
