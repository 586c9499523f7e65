package criteria

import (
	"github.com/viant/sanction/service/dao"
)

// Field returns the value of a named record field, reporting false when the
// record has no such field.
type Field func(name string) (string, bool)

// Match reports whether a record satisfies every parameter. Parameters naming
// an unknown field are ignored.
func Match(field Field, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		actual, ok := field(parameter.Name)
		if !ok {
			continue
		}
		if !matchValue(actual, parameter.Value) {
			return false
		}
	}
	return true
}

func matchValue(actual string, expected interface{}) bool {
	switch candidate := expected.(type) {
	case string:
		return actual == candidate
	case []string:
		for _, s := range candidate {
			if actual == s {
				return true
			}
		}
		return false
	}
	return true
}
