package book

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Format is the medium the book is read in
type Format int

const (
	Print Format = iota + 1
	PDF
	Ebook
	AudioBook
)

// Formats lists every valid format in display order
var Formats = []Format{Print, PDF, Ebook, AudioBook}

func (f Format) String() string {
	switch f {
	case Print:
		return "Print"
	case PDF:
		return "PDF"
	case Ebook:
		return "Ebook"
	case AudioBook:
		return "AudioBook"
	}
	return "Unknown"
}

// ParseFormat converts the display name of a format back to a Format
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("invalid format %q", s)
}

func (f Format) Validate() error {
	if f < Print || f > AudioBook {
		return fmt.Errorf("invalid format: %d", f)
	}
	return nil
}

func (f Format) MarshalJSON() ([]byte, error) {
	buffer := bytes.NewBufferString(`"`)
	buffer.WriteString(f.String())
	buffer.WriteString(`"`)
	return buffer.Bytes(), nil
}

func (f *Format) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("decoding format: %w", err)
	}
	parsed, err := ParseFormat(str)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f Format) Value() (driver.Value, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f.String(), nil
}

func (f *Format) Scan(src any) error {
	str, err := scanText(src)
	if err != nil {
		return fmt.Errorf("scanning format: %w", err)
	}
	parsed, err := ParseFormat(str)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
