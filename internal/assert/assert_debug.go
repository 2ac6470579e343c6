//go:build debug

package assert

import "fmt"

// Invariant checks an invariant condition and panics if violated in debug builds.
// Invariants are conditions that must always hold for the editor and upload
// state to be correct, including postconditions of a mutation.
// Use this for internal sanity checks, not for validating external input.
//
// Examples:
//
//	// Postcondition of a drag commit
//	assert.Invariant(bounds.Contains(committed), "committed overlay must lie inside its bounds")
//
//	// Upload slot release
//	assert.Invariant(status != domain.UploadUploading, "finished upload must leave the uploading state")
func Invariant(ok bool, msg string) {
	if !ok {
		panic(fmt.Sprintf("INVARIANT VIOLATION: %s", msg))
	}
}
