//go:build !(cgo && kuzu)

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, `kuzush was built without the embedded engine.

Rebuild with cgo and the kuzu build tag:

    CGO_ENABLED=1 go build -tags kuzu ./cmd/kuzush

Add kuzu_system to link against a system-installed libkuzu via pkg-config,
or kuzu_prebuilt to link a prebuilt library.`)
	os.Exit(1)
}
