// Package store holds the client's in-memory state: the auth session and the
// community content the UI reads. Containers are plain injectable values
// built once per application session; actions call the API client, normalize
// through it, and commit to local state. Actions never propagate errors —
// every outcome is a Result.
package store

// Result is the outcome of a store action. Err carries the user-facing
// message when OK is false.
type Result struct {
	OK  bool
	Err string
}

func succeed() Result {
	return Result{OK: true}
}

func fail(message string) Result {
	return Result{OK: false, Err: message}
}
