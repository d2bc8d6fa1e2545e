package logger

import (
	"fmt"
	"testing"
)

func TestLogger(t *testing.T) {
	// skip in ci checks
	if true {
		t.Skip()
	}

	Info("hello")

	Info("fetched %d points for %s", 365, "BTC")

	Warn("rate limited, waiting %s", "2s")

	Error(fmt.Errorf("ah man"))

	t.Fail()
}
