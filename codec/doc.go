// Package codec parses, validates and serializes JSON-RPC 2.0 envelopes.
//
// Decode and Validate failures are transport level problems (HTTP 400); every
// failure after that point is encoded into a regular response envelope with
// FromError, which maps tagged handler errors onto protocol codes.
package codec
