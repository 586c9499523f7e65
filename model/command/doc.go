// Package command defines the closed set of change requests that can be
// submitted for approval, together with their self-describing wire encoding.
//
// Every variant reports a stable Name. Encode produces
//
//	{"name":"<Name>","payload":{...variant fields...}}
//
// and Decode rebuilds the variant from those bytes alone, so that
// Decode(Encode(c)) == c for every envelope c.
package command
