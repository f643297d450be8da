// Package cache provides a small generic LRU used to memoize per-list
// results such as complexity scores.
//
//	c := cache.New[uint64, uint](256)
//	c.Put(id, score)
//	score, ok := c.Get(id)
//
// LRU is safe for concurrent use and must not be copied after creation.
package cache
