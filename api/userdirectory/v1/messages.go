// Package userv1 declares the userdirectory.v1 wire contract shared by the
// REST and gRPC transports: JSON message types, the UserService descriptor
// and its client.
package userv1

// UserForm carries the editable fields of a user record.
type UserForm struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	Region        string `json:"region"`
	PostalCode    string `json:"postalCode"`
	Country       string `json:"country"`
}

// User is a stored user record.
type User struct {
	ID int64 `json:"id"`
	UserForm
}

// SortKey names a sort field and direction.
type SortKey struct {
	Field string `json:"field"`
	Order string `json:"order,omitempty"`
}

type CreateUserRequest struct {
	User UserForm `json:"user"`
}

type CreateUserResponse struct {
	User    User   `json:"user"`
	Message string `json:"message"`
}

type GetUserRequest struct {
	ID int64 `json:"id"`
}

type GetUserResponse struct {
	User User `json:"user"`
}

// UpdateUserRequest replaces every field of the user with ID.
type UpdateUserRequest struct {
	ID   int64    `json:"id"`
	User UserForm `json:"user"`
}

type UpdateUserResponse struct {
	User    User   `json:"user"`
	Message string `json:"message"`
}

type DeleteUserRequest struct {
	ID int64 `json:"id"`
}

// DeleteUserResponse reports Deleted=false when no user had the ID.
type DeleteUserResponse struct {
	ID      int64  `json:"id"`
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}

type ListUsersRequest struct {
	Query string    `json:"query,omitempty"`
	Sort  []SortKey `json:"sort,omitempty"`
}

type ListUsersResponse struct {
	Users   []User    `json:"users"`
	Total   int       `json:"total"`
	Sort    []SortKey `json:"sort"`
	Version uint64    `json:"version"`
}

type ReplaceUsersRequest struct {
	Users  []User `json:"users"`
	Strict bool   `json:"strict,omitempty"`
}

// ReplaceUsersResponse lists the IDs rejected for repeating an earlier record.
type ReplaceUsersResponse struct {
	Count    int     `json:"count"`
	Rejected []int64 `json:"rejected"`
	Message  string  `json:"message"`
}

type ResetUsersRequest struct{}

type ResetUsersResponse struct {
	Message string `json:"message"`
}
