package gameintegrationtests

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Black-And-White-Club/golf-scorecard/integration_tests/testutils"
)

func TestMain(m *testing.M) {
	code := m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	testutils.ShutdownGlobal(ctx)
	os.Exit(code)
}
