package user

// Profile holds the editable fields of a user record.
// Values are expected to be validated and normalized before they reach the store.
type Profile struct {
	FirstName     string `json:"firstName" yaml:"firstName"`
	LastName      string `json:"lastName" yaml:"lastName"`
	Email         string `json:"email" yaml:"email"`
	Phone         string `json:"phone" yaml:"phone"`
	StreetAddress string `json:"streetAddress" yaml:"streetAddress"`
	City          string `json:"city" yaml:"city"`
	Region        string `json:"region" yaml:"region"`
	PostalCode    string `json:"postalCode" yaml:"postalCode"`
	Country       string `json:"country" yaml:"country"`
}

// User represents a user entity in the system.
type User struct {
	ID      int64 `json:"id" yaml:"id"` // ID is the sole identity key, immutable once assigned
	Profile `yaml:",inline"`
}

// WithID returns a User carrying the given identity and this profile.
func (p Profile) WithID(id int64) User {
	return User{ID: id, Profile: p}
}
