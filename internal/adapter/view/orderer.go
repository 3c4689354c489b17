// Package view produces ordered projections of the user collection, reusing
// projections already computed for the same store version.
package view

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-directory/internal/adapter/cache"
	domain "user-directory/internal/domain/user"
	"user-directory/internal/ordering"
)

// CachedOrderer orders snapshots with the Cache-Aside pattern. A nil cache
// disables caching and every call sorts directly.
type CachedOrderer struct {
	cache cache.ViewCache
	epoch string
	log   *zap.Logger
	group singleflight.Group
}

// NewCachedOrderer creates a new instance of CachedOrderer for the store
// identified by epoch.
func NewCachedOrderer(c cache.ViewCache, epoch string, log *zap.Logger) *CachedOrderer {
	return &CachedOrderer{cache: c, epoch: epoch, log: log}
}

// Order returns users ordered by keys. version must identify the snapshot
// users was taken from within the orderer's store; equal versions are assumed
// to carry equal contents.
func (o *CachedOrderer) Order(ctx context.Context, version uint64, users []domain.User, keys []ordering.Key) ([]domain.User, error) {
	if o.cache == nil {
		return ordering.OrderBy(users, keys...), nil
	}

	key := cache.ViewKey(o.epoch, version, keys)

	ids, err := o.cache.Get(ctx, key)
	if err != nil {
		o.log.Warn("view cache get error, ordering directly", zap.String("key", key), zap.Error(err))
	} else if ids != nil {
		if out, ok := project(users, ids); ok {
			o.log.Debug("view served from cache", zap.String("key", key))
			return out, nil
		}
		o.log.Warn("cached view does not match snapshot, ordering directly", zap.String("key", key))
	}

	// Only one caller per view sorts and fills the cache
	result, _, _ := o.group.Do(key, func() (any, error) {
		ordered := ordering.OrderBy(users, keys...)
		if err := o.cache.Set(ctx, key, idsOf(ordered)); err != nil {
			o.log.Warn("failed to cache view", zap.String("key", key), zap.Error(err))
		}
		return ordered, nil
	})

	shared := result.([]domain.User)
	out := make([]domain.User, len(shared))
	copy(out, shared)
	return out, nil
}

// project arranges users in the order given by ids. It fails when ids does
// not name exactly the records in users.
func project(users []domain.User, ids []int64) ([]domain.User, bool) {
	if len(ids) != len(users) {
		return nil, false
	}
	byID := make(map[int64]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			return nil, false
		}
		out = append(out, u)
	}
	return out, true
}

func idsOf(users []domain.User) []int64 {
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}
