package book

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

/* Criar tipos de dados específicos para a aplicação.
 * Usar o compilador a seu favor, tentar encontrar erros em tempo de compilação e não de execução.
 */

// Status is where the reader stands with a book
type Status int

const (
	Read Status = iota + 1
	Reread
	DNF
	CurrentlyReading
	ReturnedUnread
	WantToRead
)

// Statuses lists every valid status in display order
var Statuses = []Status{Read, Reread, DNF, CurrentlyReading, ReturnedUnread, WantToRead}

func (s Status) String() string {
	switch s {
	case Read:
		return "Read"
	case Reread:
		return "Re-read"
	case DNF:
		return "DNF"
	case CurrentlyReading:
		return "Currently reading"
	case ReturnedUnread:
		return "Returned Unread"
	case WantToRead:
		return "Want to read"
	}
	return "Unknown"
}

// ParseStatus converts the display name of a status back to a Status
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("invalid status %q", s)
}

// Validate checks if the status is one of the known values
func (s Status) Validate() error {
	if s < Read || s > WantToRead {
		return fmt.Errorf("invalid status: %d", s)
	}
	return nil
}

// Define how to transform a Status object into a JSON
func (s Status) MarshalJSON() ([]byte, error) {
	buffer := bytes.NewBufferString(`"`)
	buffer.WriteString(s.String())
	buffer.WriteString(`"`)
	return buffer.Bytes(), nil
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("decoding status: %w", err)
	}
	parsed, err := ParseStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value stores the display name, so the column stays readable
func (s Status) Value() (driver.Value, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s.String(), nil
}

func (s *Status) Scan(src any) error {
	str, err := scanText(src)
	if err != nil {
		return fmt.Errorf("scanning status: %w", err)
	}
	parsed, err := ParseStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func scanText(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", fmt.Errorf("unsupported type %T", src)
}
