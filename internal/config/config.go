// Package config holds static, single-source-of-truth descriptor
// tables; no other package of the module imports it at present.
// Grounded on funxy's internal/config
// (BuiltinTypes/Builtins documentation tables): pure Go data, no
// environment or flag parsing of its own.
package config

// FunctionDescriptor documents one standard-library function's
// contract, independent of its Go implementation in
// internal/registry. Nothing reads these descriptors at runtime: the
// registry declares its own arity and argument types.
type FunctionDescriptor struct {
	Name        string
	MinArgs     int
	MaxArgs     int // -1 means unbounded
	Description string
}

// StandardFunctions documents the function library internal/registry
// NewStandard wires up (SPEC_FULL §2.3).
var StandardFunctions = []FunctionDescriptor{
	{Name: "length", MinArgs: 1, MaxArgs: 1, Description: "element count of a string, array or object"},
	{Name: "type", MinArgs: 1, MaxArgs: 1, Description: "the JSON type name of a value"},
	{Name: "not_null", MinArgs: 1, MaxArgs: -1, Description: "the first non-null argument"},
	{Name: "to_string", MinArgs: 1, MaxArgs: 1, Description: "a value rendered as a JSON string"},
	{Name: "to_number", MinArgs: 1, MaxArgs: 1, Description: "a value coerced to a number, or null"},
	{Name: "to_array", MinArgs: 1, MaxArgs: 1, Description: "a value wrapped in an array unless already one"},
	{Name: "keys", MinArgs: 1, MaxArgs: 1, Description: "an object's field names"},
	{Name: "values", MinArgs: 1, MaxArgs: 1, Description: "an object's field values"},
	{Name: "merge", MinArgs: 0, MaxArgs: -1, Description: "a shallow merge of objects, later keys win"},
	{Name: "reverse", MinArgs: 1, MaxArgs: 1, Description: "a reversed array or string"},
	{Name: "sort", MinArgs: 1, MaxArgs: 1, Description: "an ascending sort of an array of comparable values"},
	{Name: "join", MinArgs: 2, MaxArgs: 2, Description: "an array of strings joined by a separator"},
	{Name: "starts_with", MinArgs: 2, MaxArgs: 2, Description: "whether a string has the given prefix"},
	{Name: "ends_with", MinArgs: 2, MaxArgs: 2, Description: "whether a string has the given suffix"},
	{Name: "contains", MinArgs: 2, MaxArgs: 2, Description: "whether a string or array contains a value"},
	{Name: "abs", MinArgs: 1, MaxArgs: 1, Description: "absolute value of a number"},
	{Name: "floor", MinArgs: 1, MaxArgs: 1, Description: "a number rounded towards negative infinity"},
	{Name: "ceil", MinArgs: 1, MaxArgs: 1, Description: "a number rounded towards positive infinity"},
	{Name: "sum", MinArgs: 1, MaxArgs: 1, Description: "sum of an array of numbers"},
	{Name: "avg", MinArgs: 1, MaxArgs: 1, Description: "arithmetic mean of an array of numbers"},
	{Name: "max", MinArgs: 1, MaxArgs: 1, Description: "largest element of an array of comparable values"},
	{Name: "min", MinArgs: 1, MaxArgs: 1, Description: "smallest element of an array of comparable values"},
	{Name: "map", MinArgs: 2, MaxArgs: 2, Description: "an expression reference applied to every element of an array"},
	{Name: "sort_by", MinArgs: 2, MaxArgs: 2, Description: "an array sorted by the key an expression reference computes per element"},
	{Name: "max_by", MinArgs: 2, MaxArgs: 2, Description: "the array element whose expression-reference key is largest"},
	{Name: "min_by", MinArgs: 2, MaxArgs: 2, Description: "the array element whose expression-reference key is smallest"},
}

// ExtendedFunctions documents the functions internal/registry
// NewExtended adds on top of StandardFunctions (SPEC_FULL §3.1).
var ExtendedFunctions = []FunctionDescriptor{
	{Name: "uuid", MinArgs: 2, MaxArgs: 2, Description: "deterministic v5 UUID from a namespace (dns, url, oid, x500) and a name"},
}

// SourceFileExtensions lists file extensions for saved-expression
// files. `cmd/jmespath` does not read it: the CLI has no mode that
// walks a directory of saved expressions.
var SourceFileExtensions = []string{".jmespath", ".jp"}
