package stdlib

import (
	"vela/pkg/registry"
	"vela/pkg/value"
)

// installJSON registers the `json` module over the already-built
// value.Marshal/Unmarshal pair (pkg/value/json.go), the one module
// with no third-party equivalent anywhere in the retrieved pack —
// encoding/json is the stdlib justified in the ledger.
func installJSON(reg *registry.Registry) {
	mod := registry.NewModule()

	mod.Functions["encode"] = func(args []value.DynVal) (value.DynVal, error) {
		if len(args) != 1 {
			return nil, argError("json::encode expects 1 argument")
		}
		data, err := value.Marshal(args[0])
		if err != nil {
			return nil, err
		}
		return value.NewString(string(data)), nil
	}

	mod.Functions["decode"] = func(args []value.DynVal) (value.DynVal, error) {
		if len(args) != 1 {
			return nil, argError("json::decode expects 1 argument")
		}
		s, mismatch := value.AsString(args[0])
		if mismatch != "" {
			return nil, argError("json::decode argument must be String, got " + mismatch)
		}
		v, err := value.Unmarshal([]byte(s))
		if err != nil {
			return nil, err
		}
		return v, nil
	}

	reg.DefineModule("json", mod)
}
