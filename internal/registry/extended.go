package registry

import (
	"github.com/google/uuid"

	"github.com/flavioheleno/go-jmespath/internal/value"
)

// NewExtended returns the standard library (NewStandard) plus the
// opt-in `uuid(namespace, name)` function (SPEC_FULL §3), grounded on
// mcgru-funxy's builtins_uuid.go uuidV5: a deterministic, content-
// addressed identifier is a natural fit for a query language used to
// derive stable keys from query results.
func NewExtended() *Registry {
	r := NewStandard()
	fn := &Function{
		Name: "uuid", MinArgs: 2, MaxArgs: 2,
		ArgTypes: []ArgType{{Kinds: []value.Kind{value.String}}, {Kinds: []value.Kind{value.String}}},
		Apply: func(a []value.Value) (value.Value, error) {
			ns, err := namespaceFor(a[0].String())
			if err != nil {
				return value.Value{}, err
			}
			return value.NewString(uuid.NewSHA1(ns, []byte(a[1].String())).String()), nil
		},
	}
	r.funcs[fn.Name] = fn
	return r
}

func namespaceFor(name string) (uuid.UUID, error) {
	switch name {
	case "dns":
		return uuid.NameSpaceDNS, nil
	case "url":
		return uuid.NameSpaceURL, nil
	case "oid":
		return uuid.NameSpaceOID, nil
	case "x500":
		return uuid.NameSpaceX500, nil
	default:
		return uuid.UUID{}, &RuntimeError{Func: "uuid", ArgIndex: 0, Expected: "dns, url, oid or x500", Actual: name}
	}
}
