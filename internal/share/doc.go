// Package share turns collections into compact link tokens and back.
//
// A token is "v1." followed by the base64url (unpadded) encoding of raw DEFLATE compressed JSON. The JSON uses
// single-letter keys to keep links short. Decoding never trusts identifiers carried in a token: every playlist and
// item is given a fresh id before it reaches the caller. [ApplyImport] then folds the decoded collection into the
// current one.
package share
