package assert

import "fmt"

func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}

func NotEmptyStr(str string) {
	if str == "" {
		panic("expected string to be non-empty")
	}
}

// SameLen panics when two sequences that must stay index-correlated drift apart.
func SameLen(a, b int) {
	if a != b {
		panic(fmt.Sprintf("expected equal lengths, got %d and %d", a, b))
	}
}
