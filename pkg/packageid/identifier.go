package packageid

import (
	"fmt"
	"net/url"
	"strings"
)

// Identifier is a parsed package name, with an optional scope.
// It serializes as "name" or "@scope/name".
type Identifier struct {
	Scope string
	Name  string
}

// Parse decodes a single URL path segment (which may be percent-encoded,
// e.g. "%40scope%2Fname") into an Identifier.
func Parse(segment string) (Identifier, error) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return Identifier{}, fmt.Errorf("invalid package identifier: %w", err)
	}
	if !isValidUTF8(decoded) {
		return Identifier{}, fmt.Errorf("invalid package identifier: not valid UTF-8")
	}

	parts := strings.Split(decoded, "/")
	switch len(parts) {
	case 0:
		return Identifier{}, fmt.Errorf("invalid package identifier: there must be some kind of package name")
	case 1:
		if parts[0] == "" {
			return Identifier{}, fmt.Errorf("invalid package identifier: there must be some kind of package name")
		}
		if strings.HasPrefix(parts[0], "@") {
			return Identifier{}, fmt.Errorf("invalid package identifier: expected a name component after a scope component")
		}
		return Identifier{Name: parts[0]}, nil
	case 2:
		if !strings.HasPrefix(parts[0], "@") {
			return Identifier{}, fmt.Errorf("invalid package identifier: at most 1 slash")
		}
		scope := strings.TrimPrefix(parts[0], "@")
		if scope == "" || parts[1] == "" {
			return Identifier{}, fmt.Errorf("invalid package identifier: expected a name component after a scope component")
		}
		return Identifier{Scope: scope, Name: parts[1]}, nil
	default:
		return Identifier{}, fmt.Errorf("invalid package identifier: at most 1 slash")
	}
}

// String renders the identifier back to its canonical form. It is the
// inverse of Parse on the valid domain.
func (id Identifier) String() string {
	if id.Scope == "" {
		return id.Name
	}
	return fmt.Sprintf("@%s/%s", id.Scope, id.Name)
}

func isValidUTF8(s string) bool {
	for _, r := range s {
		if r == '�' {
			return false
		}
	}
	return true
}
