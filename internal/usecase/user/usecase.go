package user

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-directory/internal/domain/user"
	"user-directory/internal/ordering"
	pkgerrors "user-directory/pkg/errors"
	"user-directory/pkg/logger"
	"user-directory/pkg/security"
)

// Store defines the entity store operations the usecase relies on.
// It is satisfied by *store.Store.
type Store interface {
	Create(p domain.Profile) domain.User                 // Append a new record with a fresh ID
	Update(u domain.User) (domain.User, error)           // Replace in place by ID
	Delete(id int64) bool                                // Remove by ID, reports whether a record was removed
	Get(id int64) (domain.User, error)                   // Lookup by ID
	Snapshot() ([]domain.User, uint64)                   // Copy of the collection and its version
	SetAll(users []domain.User) (rejected []domain.User) // Replace the whole collection
	Reset()                                              // Empty the collection
}

// Orderer projects a snapshot into an ordered view. The version identifies
// the snapshot so that implementations may reuse earlier projections.
type Orderer interface {
	Order(ctx context.Context, version uint64, users []domain.User, keys []ordering.Key) ([]domain.User, error)
}

// directOrderer sorts on every call.
type directOrderer struct{}

func (directOrderer) Order(_ context.Context, _ uint64, users []domain.User, keys []ordering.Key) ([]domain.User, error) {
	return ordering.OrderBy(users, keys...), nil
}

// Interactor implements the business logic for user management operations.
// It is the form collaborator of the store: records are normalized and
// validated here before they reach it.
type Interactor struct {
	store       Store               // Authoritative in-memory collection
	orderer     Orderer             // Produces ordered views of store snapshots
	log         *zap.Logger         // Logger for structured logging
	validate    *validator.Validate // Validator for form rules
	defaultSort ordering.Key        // Sort used when a listing names none
}

// New creates a new Interactor. A nil orderer sorts every listing directly.
func New(s Store, o Orderer, log *zap.Logger, defaultSort ordering.Key) *Interactor {
	if o == nil {
		o = directOrderer{}
	}
	return &Interactor{
		store:       s,
		orderer:     o,
		log:         log,
		validate:    newValidator(),
		defaultSort: defaultSort,
	}
}

// CreateUser normalizes and validates the form, then appends a new user.
func (uc *Interactor) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	in.UserForm = NormalizeForm(in.UserForm)
	log.Info("creating user", zap.String("first_name", in.FirstName), zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u := uc.store.Create(in.profile())
	log.Info("user created", zap.Int64("id", u.ID))

	return &CreateUserResponse{User: toDTO(u), Message: MsgUserCreated}, nil
}

// UpdateUser normalizes and validates the form, then replaces the user with
// the same ID in place.
func (uc *Interactor) UpdateUser(ctx context.Context, in UpdateUserRequest) (*UpdateUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	in.UserForm = NormalizeForm(in.UserForm)
	log.Info("updating user", zap.Int64("id", in.ID), zap.String("first_name", in.FirstName), zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := uc.store.Update(in.profile().WithID(in.ID))
	if err != nil {
		log.Warn("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return &UpdateUserResponse{User: toDTO(u), Message: MsgUserUpdated}, nil
}

// DeleteUser removes a user. Deleting an unknown ID succeeds with Deleted=false.
func (uc *Interactor) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("deleting user", zap.Int64("id", in.ID))

	if in.ID <= 0 {
		log.Warn("delete user validation failed", zap.Int64("id", in.ID), zap.String("reason", "invalid id"))
		return nil, pkgerrors.NewValidationError("ID", "invalid user id")
	}

	if !uc.store.Delete(in.ID) {
		log.Info("user not found, nothing deleted", zap.Int64("id", in.ID))
		return &DeleteUserResponse{ID: in.ID, Deleted: false, Message: MsgUserNotFound}, nil
	}

	return &DeleteUserResponse{ID: in.ID, Deleted: true, Message: MsgUserDeleted}, nil
}

// GetUser retrieves a user by ID.
func (uc *Interactor) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	if in.ID <= 0 {
		log.Warn("get user validation failed", zap.Int64("id", in.ID), zap.String("reason", "invalid id"))
		return nil, pkgerrors.NewValidationError("ID", "invalid user id")
	}

	u, err := uc.store.Get(in.ID)
	if err != nil {
		log.Debug("user not found", zap.Int64("id", in.ID))
		return nil, err
	}

	return &GetUserResponse{User: toDTO(u)}, nil
}

// ListUsers returns the users matching the query, ordered by the requested
// sort keys (or the default sort).
func (uc *Interactor) ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	query, err := security.ValidateSearchQuery(in.Query)
	if err != nil {
		log.Warn("invalid search query", zap.String("query", in.Query), zap.Error(err))
		return nil, pkgerrors.NewValidationError("query", err.Error())
	}

	keys, err := uc.sortKeys(in.Sort)
	if err != nil {
		log.Warn("invalid sort", zap.Any("sort", in.Sort), zap.Error(err))
		return nil, err
	}

	users, version := uc.store.Snapshot()
	log.Info("listing users",
		zap.String("query", query),
		zap.String("sort", ordering.KeysString(keys)),
		zap.Uint64("version", version),
		zap.Int("count", len(users)),
	)

	ordered, err := uc.orderer.Order(ctx, version, users, keys)
	if err != nil {
		log.Error("failed to order users", zap.Uint64("version", version), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to order users", err)
	}

	out := make([]User, 0, len(ordered))
	for _, u := range ordered {
		p := u.Profile
		if !security.MatchesQuery(query, p.FirstName, p.LastName, p.Email, p.Phone,
			p.StreetAddress, p.City, p.Region, p.PostalCode, p.Country) {
			continue
		}
		out = append(out, toDTO(u))
	}

	specs := make([]SortSpec, len(keys))
	for i, k := range keys {
		specs[i] = SortSpec{Field: k.Field.String(), Direction: k.Direction.String()}
	}

	return &ListUsersResponse{
		Users:   out,
		Total:   len(out),
		Sort:    specs,
		Version: version,
	}, nil
}

// ReplaceUsers validates every record and replaces the whole collection.
// Records repeating an earlier ID are rejected and reported, not stored.
func (uc *Interactor) ReplaceUsers(ctx context.Context, in ReplaceUsersRequest) (*ReplaceUsersResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("replacing users", zap.Int("count", len(in.Users)))

	normalized := make([]User, len(in.Users))
	users := make([]domain.User, len(in.Users))
	for i, u := range in.Users {
		u.UserForm = NormalizeForm(u.UserForm)
		normalized[i] = u
		users[i] = u.profile().WithID(u.ID)
	}
	in.Users = normalized

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	if in.Strict {
		if dups := duplicateIDs(users); len(dups) > 0 {
			log.Warn("strict replace refused", zap.Int64s("ids", dups))
			return nil, pkgerrors.NewAlreadyExistsError("user", fmt.Sprintf("duplicate user ids: %v", dups), dups...)
		}
	}

	rejected := uc.store.SetAll(users)
	ids := make([]int64, len(rejected))
	for i, u := range rejected {
		ids[i] = u.ID
	}
	if len(ids) > 0 {
		log.Warn("duplicate ids rejected", zap.Int64s("ids", ids))
	}

	return &ReplaceUsersResponse{
		Count:    len(users) - len(rejected),
		Rejected: ids,
		Message:  MsgUsersReplaced,
	}, nil
}

// ResetUsers empties the collection.
func (uc *Interactor) ResetUsers(ctx context.Context) (*ResetUsersResponse, error) {
	logger.WithContext(ctx, uc.log).Info("resetting users")
	uc.store.Reset()
	return &ResetUsersResponse{Message: MsgUsersReset}, nil
}

// sortKeys resolves sort specs, falling back to the default sort.
func (uc *Interactor) sortKeys(specs []SortSpec) ([]ordering.Key, error) {
	if len(specs) == 0 {
		return []ordering.Key{uc.defaultSort}, nil
	}

	keys := make([]ordering.Key, len(specs))
	for i, s := range specs {
		field, err := ordering.ParseField(s.Field)
		if err != nil {
			return nil, err
		}
		dir, err := ordering.ParseDirection(s.Direction)
		if err != nil {
			return nil, err
		}
		keys[i] = ordering.Key{Field: field, Direction: dir}
	}
	return keys, nil
}

// duplicateIDs returns every ID that repeats an earlier record, once per repeat.
func duplicateIDs(users []domain.User) []int64 {
	seen := make(map[int64]struct{}, len(users))
	var dups []int64
	for _, u := range users {
		if _, ok := seen[u.ID]; ok {
			dups = append(dups, u.ID)
			continue
		}
		seen[u.ID] = struct{}{}
	}
	return dups
}
