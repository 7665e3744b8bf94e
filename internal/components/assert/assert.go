package assert

import "fmt"

func describe(name []string) string {
	if len(name) == 0 {
		return "value"
	}
	return name[0]
}

// NotNil panics if value is nil, name is optional and only used in the panic message.
func NotNil(value any, name ...string) {
	if value == nil {
		panic(fmt.Sprintf("expected %s to be not nil", describe(name)))
	}
}

func NotEmptyStr(str string, name ...string) {
	if str == "" {
		panic(fmt.Sprintf("expected %s to be a non-empty string", describe(name)))
	}
}

func Positive(n int, name ...string) {
	if n <= 0 {
		panic(fmt.Sprintf("expected %s to be positive, got %d", describe(name), n))
	}
}

func AtMost(n, limit int, name ...string) {
	if n > limit {
		panic(fmt.Sprintf("expected %s to be at most %d, got %d", describe(name), limit, n))
	}
}
