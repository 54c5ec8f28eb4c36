//go:build tools

package tools

// mockery generates the mocks/ packages; pinned here so `go run` uses the
// module's version.
import (
	_ "github.com/vektra/mockery/v2"
)
