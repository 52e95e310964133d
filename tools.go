//go:build tools
// +build tools

// Package tools declares tool dependencies for this module.
//
// The mockgen import keeps `go generate ./...` reproducible from a fresh
// checkout.
package relaychat

import (
	_ "go.uber.org/mock/mockgen"
)
