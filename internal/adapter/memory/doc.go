// Package memory provides in-process implementations of the movie store and
// the prize-interval cache, used when no database or Redis is configured and
// in tests.
package memory
