// Package ordering projects a collection of users into a deterministically
// ordered view. It never mutates or retains its input.
package ordering

import (
	"slices"
	"strings"

	domain "user-directory/internal/domain/user"
)

// Key is a single sort criterion.
type Key struct {
	Field     Field
	Direction Direction
}

// DefaultKey is firstName ascending.
var DefaultKey = Key{Field: DefaultField, Direction: Ascending}

// Compare orders a and b by the key. Descending negates the ascending result,
// so equal values compare as 0 in both directions.
func (k Key) Compare(a, b domain.User) int {
	c := k.Field.Compare(a, b)
	if k.Direction == Descending {
		return -c
	}
	return c
}

// String renders the key as "field:direction".
func (k Key) String() string {
	return k.Field.String() + ":" + k.Direction.String()
}

// Comparator chains keys: the first key with a non-zero result decides.
func Comparator(keys ...Key) func(a, b domain.User) int {
	return func(a, b domain.User) int {
		for _, k := range keys {
			if c := k.Compare(a, b); c != 0 {
				return c
			}
		}
		return 0
	}
}

// Order returns a new slice with users sorted by field in the given direction.
// Records with equal values keep their input order in both directions.
func Order(users []domain.User, field Field, dir Direction) []domain.User {
	return OrderBy(users, Key{Field: field, Direction: dir})
}

// OrderBy returns a new slice sorted by keys in priority order.
// With no keys the copy keeps input order.
func OrderBy(users []domain.User, keys ...Key) []domain.User {
	out := make([]domain.User, len(users))
	copy(out, users)
	if len(keys) == 0 || len(out) < 2 {
		return out
	}
	slices.SortStableFunc(out, Comparator(keys...))
	return out
}

// KeysString renders keys as a comma separated list, e.g. "lastName:desc,firstName:asc".
func KeysString(keys []Key) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, ",")
}
