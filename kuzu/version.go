//go:build cgo && kuzu

package kuzu

// #include <kuzu.h>
import "C"

// Version returns the version string of the linked engine.
func Version() string {
	cVer := C.kuzu_get_version()
	defer C.kuzu_destroy_string(cVer)
	return C.GoString(cVer)
}

// StorageVersion returns the storage format version of the linked engine.
// Databases created by an engine with a different storage version cannot
// be opened.
func StorageVersion() uint64 {
	return uint64(C.kuzu_get_storage_version())
}
