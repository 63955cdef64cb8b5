package assert

import "fmt"

func NotNil(obj any, format string, args ...interface{}) {
	if obj == nil {
		panic(formatMsg(format, args...))
	}
}

func IsNil(obj any, format string, args ...interface{}) {
	if obj != nil {
		panic(formatMsg(format, args...))
	}
}

func formatMsg(format string, args ...interface{}) string {
	return fmt.Sprintf("assertion failed: "+format, args...)
}
