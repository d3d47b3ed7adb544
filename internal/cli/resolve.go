// Reference resolution for companies and communication methods.
package cli

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/cadence/pkg/types"
)

// resolveCompany finds the company ref names. ref may be the full id, a
// unique id prefix, or a case-insensitive exact name, tried in that order.
// A unique name still resolves when its text is an ambiguous id prefix.
func resolveCompany(companies []types.Company, ref string) (types.Company, error) {
	c, err := resolve(companies, ref, func(c types.Company) (string, string) { return c.ID, c.Name })
	if err != nil {
		return types.Company{}, fmt.Errorf("company %q: %w", ref, err)
	}
	return c, nil
}

// resolveMethod finds the communication method ref names, by id, unique id
// prefix, or case-insensitive exact name.
func resolveMethod(methods []types.CommunicationMethod, ref string) (types.CommunicationMethod, error) {
	m, err := resolve(methods, ref, func(m types.CommunicationMethod) (string, string) { return m.ID, m.Name })
	if err != nil {
		return types.CommunicationMethod{}, fmt.Errorf("method %q: %w", ref, err)
	}
	return m, nil
}

func resolve[T any](items []T, ref string, key func(T) (id, name string)) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, types.ErrNotFound
	}

	for _, item := range items {
		if id, _ := key(item); id == ref {
			return item, nil
		}
	}

	match := func(pred func(id, name string) bool) (T, int) {
		var found T
		n := 0
		for _, item := range items {
			if pred(key(item)) {
				if n == 0 {
					found = item
				}
				n++
			}
		}
		return found, n
	}

	byPrefix, nPrefix := match(func(id, _ string) bool { return strings.HasPrefix(id, ref) })
	if nPrefix == 1 {
		return byPrefix, nil
	}
	byName, nName := match(func(_, name string) bool { return strings.EqualFold(name, ref) })
	switch {
	case nName == 1:
		return byName, nil
	case nPrefix > 1 || nName > 1:
		return zero, types.ErrAmbiguous
	default:
		return zero, types.ErrNotFound
	}
}
