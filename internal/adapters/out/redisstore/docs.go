// Package redisstore keeps cross-instance coordination state in Redis: the
// per-aggregate locks taken while grouping or cancelling, and the cached surge
// snapshot used by pricing.
package redisstore
