package ports_test

import (
	"testing"

	"github.com/target/appconsole/internal/adapters/memstore"
	"github.com/target/appconsole/internal/adapters/router"
	mocks "github.com/target/appconsole/internal/mocks/auth"
	"github.com/target/appconsole/internal/ports"
)

// This test only verifies that our doubles and in-memory adapters conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.API = (*mocks.MockAPI)(nil)
	var _ ports.Navigator = (*mocks.RecordingNavigator)(nil)
	var _ ports.TokenStore = (*memstore.TokenStore)(nil)
	var _ ports.Navigator = (*router.Router)(nil)
}
