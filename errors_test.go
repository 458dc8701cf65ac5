package h5features

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsCategory(t *testing.T) {
	err := NewNotFound("item %q not found", "a")
	if !Is(err, NotFound) {
		t.Fatal("Is should report true for a matching category")
	}
	if Is(err, Duplicate) {
		t.Fatal("Is should report false for a non-matching category")
	}
	if Is(nil, NotFound) {
		t.Fatal("Is should report false for a nil error")
	}
	if Is(errors.New("plain"), NotFound) {
		t.Fatal("Is should report false for a non-*Error")
	}
}

func TestIoErrorWrapsCause(t *testing.T) {
	cause := fmt.Errorf("backend exploded")
	err := NewIoError(cause)
	if !Is(err, IoError) {
		t.Fatal("NewIoError should produce an IoError category")
	}
	if !errors.Is(err, cause) {
		t.Fatal("the wrapped cause should be reachable via errors.Is")
	}
	if NewIoError(nil) != nil {
		t.Fatal("NewIoError(nil) should return nil")
	}
}

func TestErrorMessageIncludesCategory(t *testing.T) {
	err := NewDuplicate("item %q already exists", "a")
	msg := err.Error()
	if !errors.As(error(err), new(*Error)) {
		t.Fatal("*Error must satisfy errors.As(&*Error)")
	}
	if msg == "" {
		t.Fatal("Error() should not be empty")
	}
	if !strings.Contains(msg, Duplicate.String()) {
		t.Fatalf("Error() = %q, want it to contain the category %q", msg, Duplicate.String())
	}
}
