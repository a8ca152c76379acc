package stdlib

import (
	"fmt"

	"vela/pkg/registry"
	"vela/pkg/value"
)

// installBuiltins registers the bare-name global functions every
// script gets without an import: print, len, type_of — the teacher's
// env.store["print"]/env.store["len"] globals generalized to DynVal.
func installBuiltins(reg *registry.Registry) {
	reg.DefineNative("print", func(args []value.DynVal) (value.DynVal, error) {
		parts := make([]interface{}, len(args))
		for i, a := range args {
			parts[i] = a.Inspect()
		}
		fmt.Println(parts...)
		return value.NewUnit(), nil
	})

	reg.DefineNative("len", func(args []value.DynVal) (value.DynVal, error) {
		if len(args) != 1 {
			return nil, argError("len expects 1 argument")
		}
		switch v := value.Unwrap(args[0]).(type) {
		case *value.ArrayVal:
			return value.NewInt(int64(len(v.Elements))), nil
		case *value.StringVal:
			return value.NewInt(int64(len([]rune(v.V)))), nil
		case *value.BlobVal:
			return value.NewInt(int64(len(v.Bytes))), nil
		case *value.MapVal:
			return value.NewInt(int64(v.Len())), nil
		default:
			return nil, argError("len is not defined for " + value.TypeName(args[0]))
		}
	})

	reg.DefineNative("type_of", func(args []value.DynVal) (value.DynVal, error) {
		if len(args) != 1 {
			return nil, argError("type_of expects 1 argument")
		}
		return value.NewString(value.TypeName(args[0])), nil
	})
}

// Install wires every standard module (auth, ws, mail, json) and the
// bare-name builtins into a registry. cmd/vela calls this once before
// running a script.
func Install(reg *registry.Registry) {
	installBuiltins(reg)
	installAuth(reg)
	installWS(reg)
	installMail(reg)
	installJSON(reg)
}
