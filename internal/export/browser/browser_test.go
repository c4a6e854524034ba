package browser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndClose(t *testing.T) {
	// The allocator starts Chrome lazily, so launch and teardown are safe
	// without a browser installed.
	b, err := New(context.Background(), Config{})
	require.NoError(t, err)
	b.Close()
}

func TestLocateChrome(t *testing.T) {
	// Result depends on the host; only the contract is checked.
	path := LocateChrome()
	if path != "" {
		assert.NotContains(t, path, " \n")
	}
}
