// Package app wires the validators' output into the repositories. The
// console shell talks to Application only; it never holds a repository
// directly.
package app

import (
	"context"
	"log/slog"

	"github.com/lmartemyanova/clients-db-manager/internal/directory/domain"
)

// Application provides the record-management operations of the directory.
type Application struct {
	schemaRepo domain.SchemaRepository
	clientRepo domain.ClientRepository
	phoneRepo  domain.PhoneRepository
	logger     *slog.Logger
}

func NewApplication(
	schemaRepo domain.SchemaRepository,
	clientRepo domain.ClientRepository,
	phoneRepo domain.PhoneRepository,
	logger *slog.Logger,
) *Application {
	return &Application{
		schemaRepo: schemaRepo,
		clientRepo: clientRepo,
		phoneRepo:  phoneRepo,
		logger:     logger,
	}
}

// PhoneAttachResult reports the outcome of attaching one number during
// client creation. Err is nil on success.
type PhoneAttachResult struct {
	Number  string
	PhoneID int64
	Err     error
}

// CreateClientResult is the payload of a (possibly partially) successful
// client creation.
type CreateClientResult struct {
	ClientID int64
	Attached []PhoneAttachResult
}

// CreateSchema idempotently ensures both tables exist.
func (a *Application) CreateSchema(ctx context.Context) error {
	return a.schemaRepo.Create(ctx)
}

// DropSchema removes both tables.
func (a *Application) DropSchema(ctx context.Context) error {
	return a.schemaRepo.Drop(ctx)
}

// CreateClient registers a client and attaches each supplied number.
// The client row commits on its own; a conflict on one number does not
// undo the client or the other numbers. Every attach outcome is
// reported per number so partial success is visible, never hidden.
func (a *Application) CreateClient(ctx context.Context, name, surname, email string, phones []string) (*CreateClientResult, error) {
	clientID, err := a.clientRepo.Create(ctx, name, surname, email)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to create client", "error", err, "email", email)
		return nil, err
	}

	result := &CreateClientResult{ClientID: clientID}
	for _, number := range phones {
		phoneID, err := a.phoneRepo.Add(ctx, clientID, number)
		if err != nil {
			a.logger.WarnContext(ctx, "Failed to attach phone on create", "error", err, "client_id", clientID, "phone", number)
		}
		result.Attached = append(result.Attached, PhoneAttachResult{Number: number, PhoneID: phoneID, Err: err})
	}
	return result, nil
}

// UpdateClient applies a partial update; nil fields stay unchanged and a
// non-nil phone set is a destructive replace.
func (a *Application) UpdateClient(ctx context.Context, clientID int64, upd domain.ClientUpdate) error {
	return a.clientRepo.Update(ctx, clientID, upd)
}

// DeleteClient removes a client and all of its numbers.
func (a *Application) DeleteClient(ctx context.Context, clientID int64) error {
	return a.clientRepo.Delete(ctx, clientID)
}

// GetClient returns one client with its full phone list.
func (a *Application) GetClient(ctx context.Context, clientID int64) (*domain.ClientRecord, error) {
	return a.clientRepo.GetByID(ctx, clientID)
}

// FindClients matches by name, surname, email, or attached phone. The
// query must already be normalized by the caller where applicable.
func (a *Application) FindClients(ctx context.Context, query string) ([]domain.ClientListing, error) {
	return a.clientRepo.Find(ctx, query)
}

// AddPhone attaches a canonical number to an existing client.
func (a *Application) AddPhone(ctx context.Context, clientID int64, number string) (int64, error) {
	return a.phoneRepo.Add(ctx, clientID, number)
}

// RemovePhone detaches a canonical number from the client that owns it.
func (a *Application) RemovePhone(ctx context.Context, clientID int64, number string) error {
	return a.phoneRepo.Remove(ctx, clientID, number)
}
