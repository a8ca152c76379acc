package value

import (
	"encoding/json"
	"fmt"
)

// ToJSON converts a DynVal into the persisted/wire representation
// documented in spec.md §6: primitives as themselves, Array as a JSON
// array, Map as a string-keyed object, FnPtr as its bare name,
// host-variants and timestamps as a type-name-tagged string, and
// Decimal as a float64 when that round-trips losslessly, else as its
// decimal string form. encoding/json is the right tool here: no
// third-party JSON library appears anywhere in the example pack this
// engine was grounded on.
func ToJSON(v DynVal) (interface{}, error) {
	switch u := Unwrap(v).(type) {
	case *UnitVal:
		return nil, nil
	case *BoolVal:
		return u.V, nil
	case *IntVal:
		return u.V, nil
	case *FloatVal:
		return u.V, nil
	case *CharVal:
		return string(u.V), nil
	case *StringVal:
		return u.V, nil
	case *DecimalVal:
		f := u.Float64()
		if NewDecimalFromFloat(f).Cmp(u) == 0 {
			return f, nil
		}
		return u.Inspect(), nil
	case *ArrayVal:
		out := make([]interface{}, len(u.Elements))
		for i, e := range u.Elements {
			converted, err := ToJSON(e)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case *BlobVal:
		out := make([]interface{}, len(u.Bytes))
		for i, b := range u.Bytes {
			out[i] = int64(b)
		}
		return out, nil
	case *MapVal:
		out := make(map[string]interface{}, u.Len())
		for _, e := range u.Entries() {
			converted, err := ToJSON(e.Value)
			if err != nil {
				return nil, err
			}
			out[e.Key] = converted
		}
		return out, nil
	case *FnPtrVal:
		return u.Name, nil
	case *TimestampVal:
		return fmt.Sprintf("timestamp:%s", u.Inspect()), nil
	case *VariantVal:
		return fmt.Sprintf("variant:%s", u.TypeName), nil
	default:
		return nil, fmt.Errorf("value: no JSON mapping for %s", TypeName(v))
	}
}

// Marshal renders a DynVal as a JSON document.
func Marshal(v DynVal) ([]byte, error) {
	native, err := ToJSON(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(native)
}

// FromJSON converts a decoded JSON native value (as produced by
// encoding/json.Unmarshal into interface{}) into a DynVal.
func FromJSON(native interface{}) DynVal {
	switch v := native.(type) {
	case nil:
		return NewUnit()
	case bool:
		return NewBool(v)
	case float64:
		if v == float64(int64(v)) {
			return NewInt(int64(v))
		}
		return NewFloat(v)
	case string:
		return NewString(v)
	case []interface{}:
		elems := make([]DynVal, len(v))
		for i, e := range v {
			elems[i] = FromJSON(e)
		}
		return NewArray(elems)
	case map[string]interface{}:
		m := NewMap()
		for k, val := range v {
			m.Set(k, FromJSON(val))
		}
		return m
	default:
		return NewString(fmt.Sprintf("%v", v))
	}
}

// Unmarshal parses a JSON document into a DynVal.
func Unmarshal(data []byte) (DynVal, error) {
	var native interface{}
	if err := json.Unmarshal(data, &native); err != nil {
		return nil, err
	}
	return FromJSON(native), nil
}
