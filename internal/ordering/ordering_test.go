package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "user-directory/internal/domain/user"
	pkgerrors "user-directory/pkg/errors"
)

func u(id int64, first, last string) domain.User {
	return domain.User{ID: id, Profile: domain.Profile{FirstName: first, LastName: last}}
}

func firstNames(users []domain.User) []string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.FirstName
	}
	return names
}

func ids(users []domain.User) []int64 {
	out := make([]int64, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

func TestOrder_SortsByFirstName(t *testing.T) {
	users := []domain.User{u(1, "Charlie", ""), u(2, "Alice", ""), u(3, "Bob", "")}

	asc := Order(users, FieldFirstName, Ascending)
	desc := Order(users, FieldFirstName, Descending)

	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, firstNames(asc))
	assert.Equal(t, []string{"Charlie", "Bob", "Alice"}, firstNames(desc))
}

func TestOrder_TiesKeepInputOrderInBothDirections(t *testing.T) {
	a := u(10, "Same", "A")
	b := u(20, "Same", "B")
	users := []domain.User{a, b}

	assert.Equal(t, []int64{10, 20}, ids(Order(users, FieldFirstName, Ascending)))
	assert.Equal(t, []int64{10, 20}, ids(Order(users, FieldFirstName, Descending)))
}

func TestOrder_TiesAmongDistinctValues(t *testing.T) {
	users := []domain.User{
		u(1, "Bob", ""), u(2, "Alice", ""), u(3, "Bob", ""), u(4, "Alice", ""),
	}

	assert.Equal(t, []int64{2, 4, 1, 3}, ids(Order(users, FieldFirstName, Ascending)))
	assert.Equal(t, []int64{1, 3, 2, 4}, ids(Order(users, FieldFirstName, Descending)))
}

func TestOrder_NumericID(t *testing.T) {
	users := []domain.User{u(100, "", ""), u(9, "", ""), u(25, "", "")}

	assert.Equal(t, []int64{9, 25, 100}, ids(Order(users, FieldID, Ascending)))
	assert.Equal(t, []int64{100, 25, 9}, ids(Order(users, FieldID, Descending)))
}

func TestOrder_DoesNotMutateInput(t *testing.T) {
	users := []domain.User{u(1, "Charlie", ""), u(2, "Alice", "")}
	before := append([]domain.User(nil), users...)

	out := Order(users, FieldFirstName, Ascending)
	out[0].FirstName = "changed"

	assert.Equal(t, before, users)
}

func TestOrder_EdgeCases(t *testing.T) {
	assert.Empty(t, Order(nil, FieldFirstName, Ascending))
	assert.Empty(t, Order([]domain.User{}, FieldFirstName, Descending))

	single := []domain.User{u(1, "Only", "")}
	assert.Equal(t, single, Order(single, FieldLastName, Descending))

	same := []domain.User{u(3, "X", ""), u(1, "X", ""), u(2, "X", "")}
	assert.Equal(t, same, Order(same, FieldFirstName, Descending))
}

func TestOrderBy_MultipleKeys(t *testing.T) {
	users := []domain.User{
		u(1, "Amy", "Smith"),
		u(2, "Zoe", "Jones"),
		u(3, "Bea", "Smith"),
		u(4, "Amy", "Jones"),
	}

	out := OrderBy(users,
		Key{Field: FieldLastName, Direction: Descending},
		Key{Field: FieldFirstName, Direction: Ascending},
	)

	assert.Equal(t, []int64{1, 3, 4, 2}, ids(out))
}

func TestOrder_PostalCodeIsNumeric(t *testing.T) {
	zip := func(id int64, code string) domain.User {
		return domain.User{ID: id, Profile: domain.Profile{PostalCode: code}}
	}
	users := []domain.User{zip(1, "10001"), zip(2, "9021"), zip(3, "n/a"), zip(4, "500.5"), zip(5, "09021")}

	assert.Equal(t, []int64{4, 5, 2, 1, 3}, ids(Order(users, FieldPostalCode, Ascending)))
	assert.Equal(t, []int64{3, 1, 2, 5, 4}, ids(Order(users, FieldPostalCode, Descending)))
}

func TestOrder_UndeclaredFieldKeepsInputOrder(t *testing.T) {
	users := []domain.User{u(2, "b", ""), u(1, "a", "")}

	assert.NotPanics(t, func() {
		assert.Equal(t, users, Order(users, Field(42), Ascending))
		assert.Equal(t, users, OrderBy(users, Key{Field: Field(-1), Direction: Descending}))
	})
	assert.False(t, Field(42).Valid())
}

func TestOrderBy_NoKeysKeepsInputOrder(t *testing.T) {
	users := []domain.User{u(2, "b", ""), u(1, "a", "")}

	assert.Equal(t, users, OrderBy(users))
}

func TestKey_DescendingNegatesAscending(t *testing.T) {
	pairs := [][2]domain.User{
		{u(1, "a", ""), u(2, "b", "")},
		{u(1, "b", ""), u(2, "a", "")},
		{u(1, "a", ""), u(2, "a", "")},
	}
	for _, f := range Fields() {
		for _, p := range pairs {
			asc := Key{Field: f, Direction: Ascending}.Compare(p[0], p[1])
			desc := Key{Field: f, Direction: Descending}.Compare(p[0], p[1])
			assert.Equal(t, -asc, desc, "field %s", f)
		}
	}
}

func TestParseField(t *testing.T) {
	for _, f := range Fields() {
		got, err := ParseField(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseField("LASTNAME")
	require.NoError(t, err)
	assert.Equal(t, FieldLastName, got)

	_, err = ParseField("password")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), `unknown sort field "password"`)
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{in: "", want: Ascending},
		{in: "asc", want: Ascending},
		{in: "Ascending", want: Ascending},
		{in: "desc", want: Descending},
		{in: " DESCENDING ", want: Descending},
		{in: "sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeysString(t *testing.T) {
	keys := []Key{{FieldLastName, Descending}, DefaultKey}

	assert.Equal(t, "lastName:desc,firstName:asc", KeysString(keys))
}
