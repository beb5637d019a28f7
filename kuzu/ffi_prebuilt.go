//go:build cgo && kuzu && kuzu_prebuilt

package kuzu

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lkuzu -lm -ldl -lpthread
#cgo linux LDFLAGS: -lstdc++
#include <kuzu.h>
*/
import "C"
