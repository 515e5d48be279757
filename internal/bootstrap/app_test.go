package bootstrap

import (
	"testing"

	"go.uber.org/zap"
)

// Close runs on partially assembled apps when startup fails part-way, so it
// must tolerate every connection field being unset.
func TestClosePartialApp(t *testing.T) {
	apps := []*App{
		{},
		{Logger: zap.NewNop()},
	}
	for _, app := range apps {
		if err := app.Close(); err != nil {
			t.Fatalf("Close on partial app: %v", err)
		}
	}
}
