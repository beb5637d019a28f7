//go:build cgo && kuzu && kuzu_system

package kuzu

/*
#cgo pkg-config: kuzu
#include <kuzu.h>
*/
import "C"
