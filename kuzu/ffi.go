//go:build cgo && kuzu && !kuzu_prebuilt && !kuzu_system

package kuzu

/*
#cgo CFLAGS: -I${SRCDIR}/include
#cgo LDFLAGS: -L${SRCDIR}/lib -lkuzu -lm -ldl -lpthread
#cgo linux LDFLAGS: -Wl,-rpath,${SRCDIR}/lib -lstdc++
#cgo darwin LDFLAGS: -Wl,-rpath,${SRCDIR}/lib
#include <kuzu.h>
*/
import "C"
