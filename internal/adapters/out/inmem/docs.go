// Package inmem provides single-process stand-ins for the Redis-backed locker
// and surge cache. They are used when no Redis address is configured.
package inmem
