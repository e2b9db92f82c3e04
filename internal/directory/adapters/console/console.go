// Package console is the interactive shell around the directory core.
// Everything here is presentation: it tokenizes raw operator input,
// pushes it through the validators, calls one Application operation,
// and prints whatever structured result comes back. No business rule
// lives in this package.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lmartemyanova/clients-db-manager/internal/directory/app"
	"github.com/lmartemyanova/clients-db-manager/internal/directory/domain"
	"github.com/lmartemyanova/clients-db-manager/internal/directory/validate"
)

const menu = `
Available commands:
1. create the database structure (tables).
2. add a new client.
3. add a phone for an existing client.
4. update a client's data.
5. delete a phone for an existing client.
6. delete an existing client.
7. find a client by name, surname, email or phone.
8. quit.
9. drop the tables and clear the database.
`

// Shell runs the numbered-command loop against an Application.
type Shell struct {
	app    *app.Application
	in     *bufio.Scanner
	out    io.Writer
	logger *slog.Logger
}

func NewShell(a *app.Application, in io.Reader, out io.Writer, logger *slog.Logger) *Shell {
	return &Shell{app: a, in: bufio.NewScanner(in), out: out, logger: logger}
}

// Run loops until the operator quits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprint(s.out, menu)
	for {
		command, ok := s.prompt("Enter a command number: ")
		if !ok {
			return nil
		}
		switch command {
		case "1":
			s.createSchema(ctx)
		case "2":
			s.addClient(ctx)
		case "3":
			s.addPhone(ctx)
		case "4":
			s.updateClient(ctx)
		case "5":
			s.deletePhone(ctx)
		case "6":
			s.deleteClient(ctx)
		case "7":
			s.findClients(ctx)
		case "8":
			fmt.Fprintln(s.out, "Session closed. Restart the program to continue working.")
			return nil
		case "9":
			s.dropSchema(ctx)
		default:
			fmt.Fprintln(s.out, "Unknown command, please try again.")
		}
	}
}

func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// promptName loops until the operator supplies a valid name token.
func (s *Shell) promptName(label string) (string, bool) {
	for {
		v, ok := s.prompt(label)
		if !ok {
			return "", false
		}
		if validate.Name(v) {
			return v, true
		}
		fmt.Fprintln(s.out, "Invalid value: letters only, no spaces or digits. Please try again.")
	}
}

// promptEmail loops until the operator supplies a syntactically valid
// address, echoing the validator's reason on each miss.
func (s *Shell) promptEmail(label string) (string, bool) {
	for {
		v, ok := s.prompt(label)
		if !ok {
			return "", false
		}
		email, err := validate.Email(v)
		if err == nil {
			return email, true
		}
		fmt.Fprintln(s.out, err)
	}
}

// promptPhones splits a comma-separated list and keeps only the numbers
// that normalize; invalid entries are reported and skipped.
func (s *Shell) promptPhones(label string) ([]string, bool) {
	raw, ok := s.prompt(label)
	if !ok {
		return nil, false
	}
	if raw == "" {
		return nil, true
	}
	var phones []string
	for _, token := range strings.Split(raw, ",") {
		number, err := validate.Phone(token)
		if err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}
		phones = append(phones, number)
	}
	return phones, true
}

func (s *Shell) promptClientID(label string) (int64, bool) {
	for {
		v, ok := s.prompt(label)
		if !ok {
			return 0, false
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err == nil && id > 0 {
			return id, true
		}
		fmt.Fprintln(s.out, "A client id is a positive integer. Please try again.")
	}
}

func (s *Shell) createSchema(ctx context.Context) {
	if err := s.app.CreateSchema(ctx); err != nil {
		fmt.Fprintln(s.out, "Tables were not created:", err)
		return
	}
	fmt.Fprintln(s.out, "Tables created successfully.")
}

func (s *Shell) dropSchema(ctx context.Context) {
	err := s.app.DropSchema(ctx)
	switch {
	case err == nil:
		fmt.Fprintln(s.out, "Tables dropped.")
	case errors.Is(err, domain.ErrNotFound):
		fmt.Fprintln(s.out, "Tables were never created or are already dropped.")
	default:
		fmt.Fprintln(s.out, "Tables were not dropped:", err)
	}
}

func (s *Shell) addClient(ctx context.Context) {
	name, ok := s.promptName("Enter a name: ")
	if !ok {
		return
	}
	surname, ok := s.promptName("Enter a surname: ")
	if !ok {
		return
	}
	email, ok := s.promptEmail("Enter an email: ")
	if !ok {
		return
	}
	phones, ok := s.promptPhones("Enter phone number(s), comma separated, with country code: ")
	if !ok {
		return
	}

	result, err := s.app.CreateClient(ctx, name, surname, email, phones)
	if err != nil {
		s.reportError(err)
		return
	}
	fmt.Fprintf(s.out, "Done! Client id: %d\n", result.ClientID)
	for _, attach := range result.Attached {
		if attach.Err != nil {
			fmt.Fprintf(s.out, "Phone %s was not added: %v\n", attach.Number, attach.Err)
			continue
		}
		fmt.Fprintf(s.out, "Phone %s added for client %d, id: %d\n", attach.Number, result.ClientID, attach.PhoneID)
	}
}

func (s *Shell) addPhone(ctx context.Context) {
	clientID, ok := s.promptClientID("Enter the client id: ")
	if !ok {
		return
	}
	raw, ok := s.prompt("Enter a phone number: ")
	if !ok {
		return
	}
	number, err := validate.Phone(raw)
	if err != nil {
		fmt.Fprintln(s.out, err)
		fmt.Fprintln(s.out, "The number is invalid and will not be added to the database.")
		return
	}
	phoneID, err := s.app.AddPhone(ctx, clientID, number)
	if err != nil {
		s.reportError(err)
		return
	}
	fmt.Fprintf(s.out, "Number %s with id %d successfully added for client %d\n", number, phoneID, clientID)
}

func (s *Shell) updateClient(ctx context.Context) {
	clientID, ok := s.promptClientID("Enter the client id: ")
	if !ok {
		return
	}
	if rec, err := s.app.GetClient(ctx, clientID); err == nil {
		s.printRecord(rec)
	} else if errors.Is(err, domain.ErrNotFound) {
		fmt.Fprintln(s.out, "No client with this id was found.")
	} else {
		s.reportError(err)
		return
	}

	fmt.Fprintln(s.out, "Enter the data you want to change, one field at a time. Press Enter to keep a field unchanged.")

	var upd domain.ClientUpdate
	if v, ok := s.prompt("Enter a new name: "); !ok {
		return
	} else if v != "" {
		if !validate.Name(v) {
			fmt.Fprintln(s.out, "Invalid name; the field stays unchanged.")
		} else {
			upd.Name = &v
		}
	}
	if v, ok := s.prompt("Enter a new surname: "); !ok {
		return
	} else if v != "" {
		if !validate.Name(v) {
			fmt.Fprintln(s.out, "Invalid surname; the field stays unchanged.")
		} else {
			upd.Surname = &v
		}
	}
	if v, ok := s.prompt("Enter a new email: "); !ok {
		return
	} else if v != "" {
		email, err := validate.Email(v)
		if err != nil {
			fmt.Fprintln(s.out, err)
			fmt.Fprintln(s.out, "The field stays unchanged.")
		} else {
			upd.Email = &email
		}
	}
	phones, ok := s.promptPhones("Enter phone number(s) to REPLACE the current set (Enter keeps it): ")
	if !ok {
		return
	}
	if phones != nil {
		upd.Phones = phones
	}

	if upd.IsZero() {
		fmt.Fprintln(s.out, "Nothing to change.")
		return
	}
	if err := s.app.UpdateClient(ctx, clientID, upd); err != nil {
		s.reportError(err)
		return
	}
	fmt.Fprintf(s.out, "Client %d data replaced.\n", clientID)
}

func (s *Shell) deletePhone(ctx context.Context) {
	clientID, ok := s.promptClientID("Enter the client id: ")
	if !ok {
		return
	}
	raw, ok := s.prompt("Enter the phone number to delete: ")
	if !ok {
		return
	}
	number, err := validate.Phone(raw)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	if err := s.app.RemovePhone(ctx, clientID, number); err != nil {
		s.reportError(err)
		return
	}
	fmt.Fprintln(s.out, "Number successfully deleted.")
}

func (s *Shell) deleteClient(ctx context.Context) {
	clientID, ok := s.promptClientID("Enter the client id to delete: ")
	if !ok {
		return
	}
	if err := s.app.DeleteClient(ctx, clientID); err != nil {
		s.reportError(err)
		return
	}
	fmt.Fprintf(s.out, "Client with id %d deleted.\n", clientID)
}

func (s *Shell) findClients(ctx context.Context) {
	raw, ok := s.prompt("Enter the data to search for: ")
	if !ok {
		return
	}
	// Phone and email queries go through the same normalization as
	// inserts so exact matching works; names match as typed.
	query := raw
	if number, err := validate.Phone(raw); err == nil {
		query = number
	} else if strings.Contains(raw, "@") {
		if email, err := validate.Email(raw); err == nil {
			query = email
		}
	}
	listings, err := s.app.FindClients(ctx, query)
	if err != nil {
		s.reportError(err)
		return
	}
	if len(listings) == 0 {
		fmt.Fprintln(s.out, "No clients found.")
		return
	}
	fmt.Fprintf(s.out, "%4s  %-15s %-15s %-30s %s\n", "id", "name", "surname", "email", "phones")
	for _, l := range listings {
		fmt.Fprintf(s.out, "%4d  %-15s %-15s %-30s %s\n", l.ID, l.Name, l.Surname, l.Email, l.Phones)
	}
}

func (s *Shell) printRecord(rec *domain.ClientRecord) {
	fmt.Fprintf(s.out, "%4s  %-15s %-15s %-30s %s\n", "id", "name", "surname", "email", "phones")
	fmt.Fprintf(s.out, "%4d  %-15s %-15s %-30s %s\n", rec.ID, rec.Name, rec.Surname, rec.Email, strings.Join(rec.Phones, ", "))
}

// reportError turns a domain failure into an operator-facing line. Raw
// store errors never reach here uncategorized; the repositories translate
// them first.
func (s *Shell) reportError(err error) {
	var dupEmail *domain.DuplicateEmailError
	var dupPhone *domain.DuplicatePhoneError
	switch {
	case errors.As(err, &dupEmail):
		fmt.Fprintf(s.out, "Email %s is already registered for client id %d.\n", dupEmail.Email, dupEmail.OwnerID)
	case errors.As(err, &dupPhone):
		fmt.Fprintf(s.out, "Number with id %d is already registered for client id %d.\n", dupPhone.PhoneID, dupPhone.OwnerID)
	case errors.Is(err, domain.ErrUnknownClient):
		fmt.Fprintln(s.out, "No client with this id exists in the database.")
	case errors.Is(err, domain.ErrNotFound):
		fmt.Fprintln(s.out, "No such phone or client in the database. Check your input.")
	case errors.Is(err, domain.ErrStoreUnavailable):
		fmt.Fprintln(s.out, "Error communicating with PostgreSQL:", err)
		s.logger.Error("store unavailable", "error", err)
	default:
		fmt.Fprintln(s.out, "Operation failed:", err)
	}
}
