package contacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// QueryKey is the cache key under which the contact list is stored.
const QueryKey = "contacts"

type (
	// ContactID is the identity assigned to a contact.
	// It decodes from a JSON number or string and encodes as a JSON string.
	// A JSON null leaves it unchanged.
	ContactID string

	Contact struct {
		ID       ContactID `json:"id"`
		Name     string    `json:"name"`
		Position string    `json:"position"`
	}

	// Draft is a contact payload before its identity is assigned.
	Draft struct {
		Name     string `json:"name"`
		Position string `json:"position"`
	}
)

// Positions are the choices offered when creating a contact.
var Positions = []string{"Frontend", "Backend", "Other"} //nolint: gochecknoglobals

var errInvalidID = errors.New("contacts: id must be a number or a string")

// UnmarshalJSON implements [json.Unmarshaler].
func (id *ContactID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ContactID(s)
		return nil
	case json.Valid(b) && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9')):
		*id = ContactID(b)
		return nil
	default:
		return errInvalidID
	}
}

// Int returns the numeric value of id, if it has one.
func (id ContactID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

func (id ContactID) String() string { return string(id) }

// HighestID returns the greatest numeric id of cs, or 0.
// Ids that are not integers are ignored.
func HighestID(cs []Contact) int64 {
	var highest int64
	for _, c := range cs {
		if n, ok := c.ID.Int(); ok && n > highest {
			highest = n
		}
	}
	return highest
}

// NextID returns the id a new contact gets when added to cs.
func NextID(cs []Contact) ContactID {
	return ContactID(strconv.FormatInt(HighestID(cs)+1, 10))
}
