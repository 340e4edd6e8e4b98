package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// nil installs a no-op logger
	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestComponent(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	logf := Component("Calorimeter")
	logf("energized %d cells", 3)

	// Swapping the logger after Component was called still takes effect.
	var late []string
	SetLogger(func(format string, v ...interface{}) {
		late = append(late, fmt.Sprintf(format, v...))
	})
	logf("reset")

	if len(lines) != 1 || lines[0] != "[Calorimeter] energized 3 cells" {
		t.Errorf("unexpected lines: %q", lines)
	}
	if len(late) != 1 || late[0] != "[Calorimeter] reset" {
		t.Errorf("unexpected late lines: %q", late)
	}
}
