package flights

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Domenick1991/flightdesk/internal/domain"
)

// ParseSelection reads a comma-separated list of filter numbers such as "1,3,4".
// A blank answer selects no filters.
func ParseSelection(raw string) ([]domain.FilterKind, error) {
	var (
		kinds   []domain.FilterKind
		invalid []string
		seen    = make(map[domain.FilterKind]bool)
		dup     bool
	)
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		n, err := strconv.Atoi(token)
		if err != nil || n < 1 || n > len(domain.FilterKinds) {
			invalid = append(invalid, token)
			continue
		}
		kind := domain.FilterKind(n)
		if seen[kind] {
			dup = true
			continue
		}
		seen[kind] = true
		kinds = append(kinds, kind)
	}

	if len(invalid) > 0 {
		return nil, fmt.Errorf("%s, use digits 1-%d separated by commas: %w",
			strings.Join(invalid, ", "), len(domain.FilterKinds), domain.ErrInvalidSelection)
	}
	if dup {
		return nil, fmt.Errorf("list each filter only once: %w", domain.ErrDuplicateSelection)
	}
	return kinds, nil
}
