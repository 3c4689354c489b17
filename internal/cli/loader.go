package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	domain "user-directory/internal/domain/user"
	"user-directory/internal/usecase/user"
)

// seedFile is the on-disk shape of a seed file: a top-level users list.
type seedFile struct {
	Users []domain.User `json:"users" yaml:"users"`
}

// LoadUsers reads user records from a YAML or JSON seed file. The format is
// chosen by extension; .json is JSON, anything else YAML.
func LoadUsers(path string) ([]domain.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &seed)
	default:
		err = yaml.Unmarshal(data, &seed)
	}
	if err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	return seed.Users, nil
}

// toForms converts seed records into the usecase's replacement DTOs.
func toForms(users []domain.User) []user.User {
	out := make([]user.User, len(users))
	for i, u := range users {
		p := u.Profile
		out[i] = user.User{
			ID: u.ID,
			UserForm: user.UserForm{
				FirstName:     p.FirstName,
				LastName:      p.LastName,
				Email:         p.Email,
				Phone:         p.Phone,
				StreetAddress: p.StreetAddress,
				City:          p.City,
				Region:        p.Region,
				PostalCode:    p.PostalCode,
				Country:       p.Country,
			},
		}
	}
	return out
}
