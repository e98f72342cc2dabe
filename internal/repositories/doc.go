// Package repositories declares the record store contract shared by the
// users, sessions and licenses collections. A Repository maps string keys to
// opaque encoded records; typing and serialization happen in the services.
//
// Implementations:
//
//   - memory:   map-backed, for tests
//   - jsonfile: one JSON document per collection, rewritten on every mutation
//   - sqlite:   rows of a single records table in an embedded database
//
// repomanager opens the three collections for a configured backend.
package repositories
