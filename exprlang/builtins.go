package exprlang

import "reflect"

// builtinNames is the whitelist of identifiers resolvable without an
// import and without being a walrus/lambda-parameter binding. Mirrors
// spec's builtin list, with two deliberate respellings: `rng` replaces
// `range` (a Go keyword) and `true`/`false`/`nil` replace
// `True`/`False`/`None` (Go's own predeclared spelling).
var builtinNames = map[string]bool{
	"len": true, "min": true, "max": true, "sum": true, "abs": true,
	"rng": true, "list": true, "dict": true, "set": true, "tuple": true,
	"map": true, "filter": true, "reduce": true,
	"int": true, "float": true, "str": true, "bool": true,
	"true": true, "false": true, "nil": true,
}

func lookupBuiltin(interp *interpreter, name string) (any, bool) {
	switch name {
	case "true":
		return true, true
	case "false":
		return false, true
	case "nil":
		return nil, true
	case "len":
		return builtinLen, true
	case "min":
		return builtinMin, true
	case "max":
		return builtinMax, true
	case "sum":
		return builtinSum, true
	case "abs":
		return builtinAbs, true
	case "rng":
		return builtinRange, true
	case "list":
		return func(vs ...any) []any { return append([]any{}, vs...) }, true
	case "dict":
		return builtinDict, true
	case "set":
		return builtinSet, true
	case "tuple":
		return func(vs ...any) []any { return append([]any{}, vs...) }, true
	case "int":
		return builtinInt, true
	case "float":
		return builtinFloat, true
	case "str":
		return builtinStr, true
	case "bool":
		return builtinBool, true
	case "map":
		return func(fn *Closure, xs []any) ([]any, error) { return callableMap(interp, fn, xs) }, true
	case "filter":
		return func(fn *Closure, xs []any) ([]any, error) { return callableFilter(interp, fn, xs) }, true
	case "reduce":
		return func(fn *Closure, xs []any, init any) (any, error) { return callableReduce(interp, fn, xs, init) }, true
	}
	return nil, false
}

func callableMap(interp *interpreter, fn *Closure, xs []any) ([]any, error) {
	out := make([]any, 0, len(xs))
	for _, x := range xs {
		v, err := fn.Call(interp, []any{x})
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func callableFilter(interp *interpreter, fn *Closure, xs []any) ([]any, error) {
	out := make([]any, 0, len(xs))
	for _, x := range xs {
		v, err := fn.Call(interp, []any{x})
		if err != nil {
			return nil, err
		}
		if truthy(v) {
			out = append(out, x)
		}
	}
	return out, nil
}

func callableReduce(interp *interpreter, fn *Closure, xs []any, init any) (any, error) {
	acc := init
	for _, x := range xs {
		v, err := fn.Call(interp, []any{acc, x})
		if err != nil {
			return nil, err
		}
		acc = v
	}
	return acc, nil
}

func builtinLen(v any) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len()
	default:
		return 0
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

func builtinMin(vs ...any) any {
	var best any
	var bestF float64
	for i, v := range vs {
		f, ok := toFloat(v)
		if !ok {
			continue
		}
		if i == 0 || f < bestF {
			best, bestF = v, f
		}
	}
	return best
}

func builtinMax(vs ...any) any {
	var best any
	var bestF float64
	for i, v := range vs {
		f, ok := toFloat(v)
		if !ok {
			continue
		}
		if i == 0 || f > bestF {
			best, bestF = v, f
		}
	}
	return best
}

func builtinSum(xs []any) float64 {
	var total float64
	for _, x := range xs {
		if f, ok := toFloat(x); ok {
			total += f
		}
	}
	return total
}

func builtinAbs(v any) any {
	f, ok := toFloat(v)
	if !ok {
		return v
	}
	if f < 0 {
		return -f
	}
	return f
}

func builtinRange(args ...int) []any {
	var start, stop, step int
	switch len(args) {
	case 1:
		start, stop, step = 0, args[0], 1
	case 2:
		start, stop, step = args[0], args[1], 1
	default:
		start, stop, step = args[0], args[1], args[2]
	}
	out := []any{}
	if step == 0 {
		return out
	}
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, i)
		}
	}
	return out
}

func builtinDict(kvs ...any) map[string]any {
	out := map[string]any{}
	for i := 0; i+1 < len(kvs); i += 2 {
		k, _ := kvs[i].(string)
		out[k] = kvs[i+1]
	}
	return out
}

func builtinSet(vs ...any) map[any]struct{} {
	out := map[any]struct{}{}
	for _, v := range vs {
		out[v] = struct{}{}
	}
	return out
}

func builtinInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case string:
		var i int
		for _, c := range n {
			if c < '0' || c > '9' {
				return 0
			}
			i = i*10 + int(c-'0')
		}
		return i
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func builtinFloat(v any) float64 {
	f, _ := toFloat(v)
	return f
}

func builtinStr(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return toDisplayString(v)
}

func builtinBool(v any) bool {
	return truthy(v)
}

func truthy(v any) bool {
	switch n := v.(type) {
	case nil:
		return false
	case bool:
		return n
	case string:
		return n != ""
	case int:
		return n != 0
	case float64:
		return n != 0
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Map, reflect.Array:
			return rv.Len() != 0
		}
		return true
	}
}
