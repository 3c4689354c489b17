package user

import domain "user-directory/internal/domain/user"

// Notification messages returned with successful mutations.
const (
	MsgUserCreated   = "User created successfully"
	MsgUserUpdated   = "User updated successfully"
	MsgUserDeleted   = "User deleted successfully"
	MsgUserNotFound  = "User not found, nothing deleted"
	MsgUsersReplaced = "Users replaced successfully"
	MsgUsersReset    = "Users cleared"
)

// UserForm is the validated, normalized form payload for a user record.
type UserForm struct {
	FirstName     string `validate:"required,max=100"`
	LastName      string `validate:"required,max=100"`
	Email         string `validate:"required,email,max=254"`
	Phone         string `validate:"required,phone"`
	StreetAddress string `validate:"required,max=200"`
	City          string `validate:"required,max=100"`
	Region        string `validate:"required,max=100"`
	PostalCode    string `validate:"required,postalcode"`
	Country       string `validate:"required,max=100"`
}

// User represents a user DTO (Data Transfer Object) for API responses and
// bulk replacement.
type User struct {
	ID int64 `validate:"gt=0"`
	UserForm
}

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	UserForm
}

// CreateUserResponse represents the response payload after creating a user.
type CreateUserResponse struct {
	User    User
	Message string
}

// UpdateUserRequest represents the request payload for updating an existing user.
// Every form field is required: the record is replaced as a whole.
type UpdateUserRequest struct {
	ID int64 `validate:"gt=0"`
	UserForm
}

// UpdateUserResponse represents the response payload after updating a user.
type UpdateUserResponse struct {
	User    User
	Message string
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID int64
}

// DeleteUserResponse represents the response payload after deleting a user.
// Deleted is false when no user had the requested ID.
type DeleteUserResponse struct {
	ID      int64
	Deleted bool
	Message string
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}

// GetUserResponse represents the response payload for user details.
type GetUserResponse struct {
	User User
}

// SortSpec names a sort field and direction by their wire names.
type SortSpec struct {
	Field     string
	Direction string
}

// ListUsersRequest represents the request payload for listing users.
// Sort keys apply in order; an empty Sort uses the configured default.
type ListUsersRequest struct {
	Query string
	Sort  []SortSpec
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users   []User
	Total   int
	Sort    []SortSpec // effective sort keys
	Version uint64     // store version the listing was taken at
}

// ReplaceUsersRequest represents the request payload for replacing the whole collection.
// With Strict set, any repeated ID fails the whole request and the collection
// is left unchanged.
type ReplaceUsersRequest struct {
	Users  []User `validate:"dive"`
	Strict bool
}

// ReplaceUsersResponse reports how many records were stored and which IDs were
// rejected as duplicates.
type ReplaceUsersResponse struct {
	Count    int
	Rejected []int64
	Message  string
}

// ResetUsersResponse represents the response payload after clearing the collection.
type ResetUsersResponse struct {
	Message string
}

func (f UserForm) profile() domain.Profile {
	return domain.Profile{
		FirstName:     f.FirstName,
		LastName:      f.LastName,
		Email:         f.Email,
		Phone:         f.Phone,
		StreetAddress: f.StreetAddress,
		City:          f.City,
		Region:        f.Region,
		PostalCode:    f.PostalCode,
		Country:       f.Country,
	}
}

func toDTO(u domain.User) User {
	p := u.Profile
	return User{
		ID: u.ID,
		UserForm: UserForm{
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
