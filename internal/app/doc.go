// Package app provides the application service layer.
//
// Orchestrates the two use cases: importing a movie list into the store and
// answering the prize-interval query through the cache.
// Sits between HTTP handlers and domain repositories. Depends on domain interfaces, not concrete implementations.
package app
