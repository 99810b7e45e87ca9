package sites

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Record is one row of the input spreadsheet.
// Row is the 0-based data row, used to name the record's artifacts.
type Record struct {
	Row         int    `json:"row"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

var (
	ErrEmptyURL         = errors.New("empty url")
	ErrEmptyDescription = errors.New("empty description")
)

// Name is the artifact name for the record: the 1-based row number.
func (r Record) Name() string {
	return strconv.Itoa(r.Row + 1)
}

// Validate checks that the record can produce a card.
func (r Record) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return ErrEmptyURL
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url %q needs a scheme and host", r.URL)
	}
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}
