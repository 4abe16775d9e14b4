package codecerr

import (
	"fmt"
	"testing"
)

func TestKindOfUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("%w: offset 9000 exceeds window", ErrBadData)
	if got := KindOf(wrapped); got != KindBadData {
		t.Fatalf("got %v, want KindBadData", got)
	}
}

func TestKindOfOther(t *testing.T) {
	if got := KindOf(fmt.Errorf("something else")); got != KindOther {
		t.Fatalf("got %v, want KindOther", got)
	}
}

func TestKindStrings(t *testing.T) {
	cases := map[Kind]string{
		KindBadData:           "BadData",
		KindShortInput:        "ShortInput",
		KindInsufficientSpace: "InsufficientSpace",
		KindShortOutput:       "ShortOutput",
		KindInvalidInput:      "InvalidInput",
		KindOther:             "Other",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
