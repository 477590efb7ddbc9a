package cache

import (
	"container/list"
	"time"
)

type entry[V any] struct {
	value      V
	createdAt  time.Time
	expiresAt  time.Time // zero means no expiry
	size       int64
	tags       map[string]struct{}
	hits       int64
	lastAccess time.Time
	elem       *list.Element // position in the recency index
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func tagSet(tags []string) map[string]struct{} {
	if len(tags) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return set
}
