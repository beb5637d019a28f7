//go:build !cgo || !kuzu

package gograph

// InMemoryPath opens an in-memory database when passed to OpenDatabase.
const InMemoryPath = ":memory:"

// OpenDatabase requires cgo and the kuzu build tag. Without them it
// always returns ErrDriverUnavailable; the rest of the package remains
// usable with other Conn implementations such as the replay player.
func OpenDatabase(path string, opts ...OpenOption) (*Database, error) {
	return nil, ErrDriverUnavailable
}
