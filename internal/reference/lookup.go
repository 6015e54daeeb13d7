// Package reference holds the static airport allow-list and resolves codes
// to stored destinations.
package reference

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/validation"
)

//go:embed airports.csv
var defaultAirports []byte

var requiredColumns = []string{"IATA", "Airport", "City", "Country"}

type Airport struct {
	Code    string
	Name    string
	City    string
	Country string
}

// Lookup is read-only after construction and safe to share.
type Lookup struct {
	airports map[string]Airport
}

func Default() (*Lookup, error) {
	return Load(bytes.NewReader(defaultAirports))
}

func LoadFile(path string) (*Lookup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open airport list: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a CSV with an IATA,Airport,City,Country header. Columns may
// appear in any order; extra columns are ignored.
func Load(r io.Reader) (*Lookup, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read airport list header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("airport list is missing column %q", col)
		}
	}

	airports := make(map[string]Airport)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read airport list: %w", err)
		}
		code := strings.ToUpper(strings.TrimSpace(rec[index["IATA"]]))
		if code == "" {
			continue
		}
		airports[code] = Airport{
			Code:    code,
			Name:    rec[index["Airport"]],
			City:    rec[index["City"]],
			Country: rec[index["Country"]],
		}
	}
	return &Lookup{airports: airports}, nil
}

func (l *Lookup) IsKnown(code string) bool {
	_, ok := l.airports[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

func (l *Lookup) Info(code string) (Airport, bool) {
	a, ok := l.airports[strings.ToUpper(strings.TrimSpace(code))]
	return a, ok
}

func (l *Lookup) Len() int {
	return len(l.airports)
}

// Validate normalizes code and checks it against the allow-list.
func (l *Lookup) Validate(code string) (string, error) {
	normalized, err := validation.NormalizeIATA(code)
	if err != nil {
		return "", err
	}
	if !l.IsKnown(normalized) {
		return "", fmt.Errorf("%q is not a valid IATA code: %w", normalized, domain.ErrInvalidInput)
	}
	return normalized, nil
}

// DestinationIDs finds the stored destination row for a code.
type DestinationIDs interface {
	IDByIATA(ctx context.Context, iata string) (int64, error)
}

// Resolver combines the allow-list with the destinations table: a code must
// be a real airport and have a stored row.
type Resolver struct {
	lookup       *Lookup
	destinations DestinationIDs
}

func NewResolver(lookup *Lookup, destinations DestinationIDs) *Resolver {
	return &Resolver{lookup: lookup, destinations: destinations}
}

func (r *Resolver) IsKnown(code string) bool {
	return r.lookup.IsKnown(code)
}

func (r *Resolver) Validate(code string) (string, error) {
	return r.lookup.Validate(code)
}

func (r *Resolver) ResolveToDestinationID(ctx context.Context, code string) (int64, error) {
	normalized, err := r.lookup.Validate(code)
	if err != nil {
		return 0, err
	}
	id, err := r.destinations.IDByIATA(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, fmt.Errorf("%q not found in destinations: %w", normalized, domain.ErrNotFound)
		}
		return 0, err
	}
	return id, nil
}
