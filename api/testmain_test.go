package api_test

import (
	"io"
	"log/slog"
	"testing"

	"go.uber.org/goleak"

	"github.com/garnizeh/riskmap/api"
)

func TestMain(m *testing.M) {
	api.SetLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	// verify no goroutine leaks across tests in this package
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))
}
