package wire

import "reflect"

// isNil returns true for nil interfaces as well as interfaces holding a nil
// pointer.
func isNil(m Marshaller) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
