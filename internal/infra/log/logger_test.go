package log

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLoggerLevel(t *testing.T) {
	if got := NewLogger("dev").GetLevel(); got != zerolog.DebugLevel {
		t.Fatalf("dev: ожидали debug, получили %s", got)
	}
	if got := NewLogger("prod").GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("prod: ожидали info, получили %s", got)
	}
}
