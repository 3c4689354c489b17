package ordering

import (
	"fmt"
	"math/rand/v2"
	"testing"

	domain "user-directory/internal/domain/user"
)

func benchUsers(n int) []domain.User {
	rng := rand.New(rand.NewPCG(1, 2))
	users := make([]domain.User, n)
	for i := range users {
		users[i] = domain.User{
			ID: int64(i + 1),
			Profile: domain.Profile{
				FirstName: fmt.Sprintf("First%05d", rng.IntN(n)),
				LastName:  fmt.Sprintf("Last%03d", rng.IntN(50)),
				City:      fmt.Sprintf("City%02d", rng.IntN(10)),
			},
		}
	}
	return users
}

func BenchmarkOrderBy(b *testing.B) {
	keys := []Key{
		{Field: FieldCity, Direction: Ascending},
		{Field: FieldLastName, Direction: Descending},
		DefaultKey,
	}
	for _, size := range []int{100, 1000, 10000} {
		users := benchUsers(size)
		b.Run(fmt.Sprintf("users=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = OrderBy(users, keys...)
			}
		})
	}
}
