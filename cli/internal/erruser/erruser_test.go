package erruser

import (
	"errors"
	"testing"
)

func TestNew_withCause(t *testing.T) {
	t.Parallel()
	cause := errors.New("exec: git: exit status 128")
	err := New("Could not list git remotes.", cause)
	if err.Error() != "Could not list git remotes." {
		t.Errorf("Error() = %q, want user message only", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable via errors.Is")
	}
}

func TestNew_withoutCause(t *testing.T) {
	t.Parallel()
	err := New("No handler pattern given.", nil)
	if err.Error() != "No handler pattern given." {
		t.Errorf("Error() = %q", err.Error())
	}
	if errors.Unwrap(err) != nil {
		t.Error("Unwrap should be nil without a cause")
	}
}

func TestErr_nilReceiver(t *testing.T) {
	t.Parallel()
	var e *Err
	if e.Error() != "" {
		t.Errorf("nil Error() = %q, want empty", e.Error())
	}
	if e.Unwrap() != nil {
		t.Error("nil Unwrap() should be nil")
	}
}
