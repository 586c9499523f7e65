// Package identity resolves the user-facing identifiers accepted at the
// boundary (phone number, email address, raw account id) into a canonical
// account id.
//
// A Chain holds an ordered, fixed list of strategies. Each strategy has a
// pure recognizer and a directory lookup; the first strategy whose recognizer
// accepts the token and whose lookup finds an account wins. Directory
// failures are handled according to the chain's FailurePolicy.
package identity
