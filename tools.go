//go:build tools

// Package tools pins build-time tool dependencies for go generate.
package tools

import (
	_ "github.com/golang/mock/mockgen"
	_ "golang.org/x/tools/cmd/stringer"
)
