package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if KindOf(nil) != 0 {
		t.Error("nil error must have no kind")
	}
	if KindOf(errors.New("plain")) != 0 {
		t.Error("plain errors must have no kind")
	}

	err := NotFound(CodeGuestNotFound, "guest %s does not exist", "g1")
	if !IsNotFound(err) {
		t.Error("IsNotFound failed on a NotFound error")
	}
	if err.Code != CodeGuestNotFound {
		t.Errorf("code = %s", err.Code)
	}
	if err.Error() != "guest g1 does not exist" {
		t.Errorf("message = %q", err.Error())
	}

	// classification survives wrapping
	wrapped := fmt.Errorf("handling request: %w", Conflict(CodeDateConflict, "taken"))
	if !IsConflict(wrapped) {
		t.Error("IsConflict must see through wrapping")
	}
}
