// Package convert maps between userdirectory.v1 wire messages and usecase DTOs.
package convert

import (
	userv1 "user-directory/api/userdirectory/v1"
	"user-directory/internal/usecase/user"
)

func FormFromWire(f userv1.UserForm) user.UserForm {
	return user.UserForm{
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

func FormToWire(f user.UserForm) userv1.UserForm {
	return userv1.UserForm{
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

func UserToWire(u user.User) userv1.User {
	return userv1.User{ID: u.ID, UserForm: FormToWire(u.UserForm)}
}

// UsersToWire never returns nil so that empty listings encode as [].
func UsersToWire(users []user.User) []userv1.User {
	out := make([]userv1.User, len(users))
	for i, u := range users {
		out[i] = UserToWire(u)
	}
	return out
}

func UsersFromWire(users []userv1.User) []user.User {
	out := make([]user.User, len(users))
	for i, u := range users {
		out[i] = user.User{ID: u.ID, UserForm: FormFromWire(u.UserForm)}
	}
	return out
}

func SortFromWire(keys []userv1.SortKey) []user.SortSpec {
	if len(keys) == 0 {
		return nil
	}
	out := make([]user.SortSpec, len(keys))
	for i, k := range keys {
		out[i] = user.SortSpec{Field: k.Field, Direction: k.Order}
	}
	return out
}

func SortToWire(specs []user.SortSpec) []userv1.SortKey {
	out := make([]userv1.SortKey, len(specs))
	for i, s := range specs {
		out[i] = userv1.SortKey{Field: s.Field, Order: s.Direction}
	}
	return out
}

func ListToWire(resp *user.ListUsersResponse) *userv1.ListUsersResponse {
	return &userv1.ListUsersResponse{
		Users:   UsersToWire(resp.Users),
		Total:   resp.Total,
		Sort:    SortToWire(resp.Sort),
		Version: resp.Version,
	}
}

// ReplaceToWire never returns a nil Rejected slice.
func ReplaceToWire(resp *user.ReplaceUsersResponse) *userv1.ReplaceUsersResponse {
	rejected := resp.Rejected
	if rejected == nil {
		rejected = []int64{}
	}
	return &userv1.ReplaceUsersResponse{
		Count:    resp.Count,
		Rejected: rejected,
		Message:  resp.Message,
	}
}
