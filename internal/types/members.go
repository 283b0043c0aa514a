package types

import "github.com/type-ruby/trb/internal/ir"

// builtinMembers is the closed table of known members per built-in type.
// Values are result type names. Members of generic receivers whose result
// depends on a type argument (Array#first and friends) are special-cased in
// the checker.
var builtinMembers = map[string]map[string]string{
	"String": {
		"length":     "Integer",
		"size":       "Integer",
		"upcase":     "String",
		"downcase":   "String",
		"capitalize": "String",
		"strip":      "String",
		"reverse":    "String",
		"chars":      "Array",
		"split":      "Array",
		"to_s":       "String",
		"to_i":       "Integer",
		"to_f":       "Float",
		"to_sym":     "Symbol",
		"empty?":     "Boolean",
		"include?":   "Boolean",
		"start_with?": "Boolean",
		"end_with?":  "Boolean",
		"[]":         "String",
	},
	"Integer": {
		"to_s":      "String",
		"to_i":      "Integer",
		"to_f":      "Float",
		"abs":       "Integer",
		"succ":      "Integer",
		"pred":      "Integer",
		"zero?":     "Boolean",
		"positive?": "Boolean",
		"negative?": "Boolean",
		"even?":     "Boolean",
		"odd?":      "Boolean",
	},
	"Float": {
		"to_s":      "String",
		"to_i":      "Integer",
		"to_f":      "Float",
		"abs":       "Float",
		"round":     "Integer",
		"ceil":      "Integer",
		"floor":     "Integer",
		"zero?":     "Boolean",
		"positive?": "Boolean",
		"negative?": "Boolean",
	},
	"Symbol": {
		"to_s":   "String",
		"to_sym": "Symbol",
	},
	"Boolean": {
		"to_s": "String",
	},
	"Array": {
		"length":   "Integer",
		"size":     "Integer",
		"count":    "Integer",
		"empty?":   "Boolean",
		"include?": "Boolean",
		"to_s":     "String",
		"join":     "String",
		"reverse":  "Array",
		"sort":     "Array",
		"uniq":     "Array",
		"compact":  "Array",
		"push":     "Array",
		"concat":   "Array",
	},
	"Hash": {
		"length": "Integer",
		"size":   "Integer",
		"count":  "Integer",
		"empty?": "Boolean",
		"keys":   "Array",
		"values": "Array",
		"to_s":   "String",
		"key?":   "Boolean",
	},
	"NilClass": {
		"to_s": "String",
		"to_a": "Array",
		"to_i": "Integer",
	},
	"Regexp": {
		"to_s":   "String",
		"match?": "Boolean",
		"source": "String",
	},
}

// universalMembers exist on every type.
var universalMembers = map[string]string{
	"nil?":    "Boolean",
	"is_a?":   "Boolean",
	"frozen?": "Boolean",
	"inspect": "String",
	"to_s":    "String",
	"hash":    "Integer",
	"class":   "untyped",
	"dup":     "untyped",
}

// memberResult looks a member up against the closed table, universal
// members included. It reports the result type name and whether the member
// is known.
func memberResult(typeName, member string) (string, bool) {
	if table, ok := builtinMembers[typeName]; ok {
		if result, ok := table[member]; ok {
			return result, true
		}
	}
	if result, ok := universalMembers[member]; ok {
		return result, true
	}
	return "", false
}

// suggestionFor returns a suggested fix for a mismatch between the actual
// and expected types, drawn from a fixed table of common coercions.
func suggestionFor(actual, expected ir.Type) string {
	a, aok := actual.(*ir.SimpleType)
	e, eok := expected.(*ir.SimpleType)
	if !aok || !eok {
		if _, ok := expected.(*ir.NullableType); ok {
			return ""
		}
		if isNilType(actual) {
			return "guard against nil before this use"
		}
		return ""
	}
	switch {
	case (a.Name == "Integer" || a.Name == "Float" || a.Name == "Numeric") && e.Name == "String":
		return "call .to_s to convert the number to a string"
	case a.Name == "String" && e.Name == "Integer":
		return "call .to_i to parse the string as an integer"
	case a.Name == "String" && e.Name == "Float":
		return "call .to_f to parse the string as a float"
	case a.Name == "Integer" && e.Name == "Float":
		return "call .to_f to widen the integer"
	case a.Name == "Float" && e.Name == "Integer":
		return "call .to_i (or .round) to truncate the float"
	case a.Name == "Symbol" && e.Name == "String":
		return "call .to_s to convert the symbol"
	case a.Name == "nil" || a.Name == "NilClass":
		return "guard against nil before this use"
	}
	return ""
}

func isNilType(t ir.Type) bool {
	s, ok := t.(*ir.SimpleType)
	return ok && (s.Name == "nil" || s.Name == "NilClass")
}
