package ordering

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"

	domain "user-directory/internal/domain/user"
	pkgerrors "user-directory/pkg/errors"
)

// Field enumerates the sortable User fields.
type Field int

const (
	FieldID Field = iota
	FieldFirstName
	FieldLastName
	FieldEmail
	FieldPhone
	FieldStreetAddress
	FieldCity
	FieldRegion
	FieldPostalCode
	FieldCountry
)

// DefaultField is the sort field used when the caller does not pick one.
const DefaultField = FieldFirstName

// comparator compares a single field of two users.
type comparator func(a, b *domain.User) int

// text lifts a string accessor into a lexicographic comparator.
func text(get func(u *domain.User) string) comparator {
	return func(a, b *domain.User) int {
		return cmp.Compare(get(a), get(b))
	}
}

// numeric compares values that parse as numbers by value, ahead of values
// that do not. Equal numbers and non-numeric values fall back to text order.
func numeric(get func(u *domain.User) string) comparator {
	return func(a, b *domain.User) int {
		as, bs := get(a), get(b)
		an, aok := parseNumber(as)
		bn, bok := parseNumber(bs)
		switch {
		case aok && bok:
			if c := cmp.Compare(an, bn); c != 0 {
				return c
			}
		case aok:
			return -1
		case bok:
			return 1
		}
		return cmp.Compare(as, bs)
	}
}

func parseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

var fields = [...]struct {
	name    string
	compare comparator
}{
	FieldID:            {"id", func(a, b *domain.User) int { return cmp.Compare(a.ID, b.ID) }},
	FieldFirstName:     {"firstName", text(func(u *domain.User) string { return u.FirstName })},
	FieldLastName:      {"lastName", text(func(u *domain.User) string { return u.LastName })},
	FieldEmail:         {"email", text(func(u *domain.User) string { return u.Email })},
	FieldPhone:         {"phone", text(func(u *domain.User) string { return u.Phone })},
	FieldStreetAddress: {"streetAddress", text(func(u *domain.User) string { return u.StreetAddress })},
	FieldCity:          {"city", text(func(u *domain.User) string { return u.City })},
	FieldRegion:        {"region", text(func(u *domain.User) string { return u.Region })},
	FieldPostalCode:    {"postalCode", numeric(func(u *domain.User) string { return u.PostalCode })},
	FieldCountry:       {"country", text(func(u *domain.User) string { return u.Country })},
}

// Fields returns every sortable field in declaration order.
func Fields() []Field {
	out := make([]Field, len(fields))
	for i := range fields {
		out[i] = Field(i)
	}
	return out
}

// Valid reports whether f is one of the declared fields.
func (f Field) Valid() bool {
	return f >= 0 && int(f) < len(fields)
}

// String returns the wire name of the field (e.g. "firstName").
func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fields[f].name
}

// Compare orders a and b ascending by this field. Undeclared fields treat
// every pair as equal.
func (f Field) Compare(a, b domain.User) int {
	if !f.Valid() {
		return 0
	}
	return fields[f].compare(&a, &b)
}

// ParseField resolves a wire name to a Field. Matching ignores case.
func ParseField(name string) (Field, error) {
	for i, fd := range fields {
		if strings.EqualFold(fd.name, name) {
			return Field(i), nil
		}
	}
	return 0, pkgerrors.NewValidationError("sort", fmt.Sprintf("unknown sort field %q", name))
}

// Direction is the sort direction of a Key.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection accepts asc, ascending, desc and descending; the empty
// string means Ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, pkgerrors.NewValidationError("order", fmt.Sprintf("unknown sort direction %q", s))
	}
}
