package domain

// Client is a directory entry. Name and surname are stored capitalized;
// Email is stored in its normalized form.
type Client struct {
	ID      int64  `json:"client_id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
}

// Phone is a single number owned by a client. Number is the canonical
// international representation, unique across the whole directory.
type Phone struct {
	ID       int64  `json:"phone_id"`
	ClientID int64  `json:"client_id"`
	Number   string `json:"phone"`
}

// ClientRecord is the point-lookup shape: a client plus every number
// attached to it. Phones is never nil; a client without numbers carries
// an empty slice.
type ClientRecord struct {
	Client
	Phones []string `json:"phones"`
}

// ClientListing is one row of the search output: the client with its
// numbers aggregated into a single comma-joined string ("" when none).
type ClientListing struct {
	Client
	Phones string `json:"phones"`
}

// ClientUpdate carries a partial update. A nil field means "leave
// unchanged". A non-nil Phones slice replaces the client's entire phone
// set, including the empty slice, which detaches every number.
type ClientUpdate struct {
	Name    *string
	Surname *string
	Email   *string
	Phones  []string
}

// IsZero reports whether the update would touch nothing.
func (u ClientUpdate) IsZero() bool {
	return u.Name == nil && u.Surname == nil && u.Email == nil && u.Phones == nil
}
