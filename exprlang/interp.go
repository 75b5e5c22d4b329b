package exprlang

import (
	"fmt"
	"go/ast"
	"go/token"
	"reflect"

	"github.com/reporttpl/reporttpl/exprlang/preludes"
	"github.com/reporttpl/reporttpl/rterr"
)

// evaluableBody is the parsed statement sequence of an expression: one
// or more statements, the last of which must be an expression
// statement (validated during analysis, not here).
type evaluableBody struct {
	stmts []ast.Stmt
}

// interpreter tree-walks a parsed expression body. One interpreter is
// created per LazyExpr.Evaluate call; it is not safe for concurrent
// reuse across calls since closures capture *Env, not *interpreter.
type interpreter struct {
	imports map[string]preludes.Namespace // local alias -> resolved namespace
}

// returnSignal unwinds evalBody when a FuncLit's `return` statement
// fires, the same way Go itself treats return as control flow rather
// than a value-producing expression.
type returnSignal struct{ value any }

// evalBody executes stmts in scope, returning the value of the final
// expression statement (or of a return statement if one fires first).
func (in *interpreter) evalBody(b *evaluableBody, scope *Env) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rs, ok := r.(returnSignal); ok {
				result, err = rs.value, nil
				return
			}
			panic(r)
		}
	}()

	var last any
	for i, stmt := range b.stmts {
		switch s := stmt.(type) {
		case *ast.AssignStmt:
			if s.Tok != token.DEFINE {
				return nil, &rterr.DisallowedConstruct{Construct: "assignment"}
			}
			vals := make([]any, len(s.Rhs))
			for j, rhs := range s.Rhs {
				v, err := in.eval(rhs, scope)
				if err != nil {
					return nil, err
				}
				vals[j] = v
			}
			for j, lhs := range s.Lhs {
				id, ok := lhs.(*ast.Ident)
				if !ok {
					return nil, &rterr.DisallowedConstruct{Construct: "non-identifier assignment target"}
				}
				if id.Name != "_" {
					scope.Set(id.Name, vals[j])
				}
			}
			if i == len(b.stmts)-1 {
				if len(vals) > 0 {
					last = vals[len(vals)-1]
				}
			}
		case *ast.ExprStmt:
			v, err := in.eval(s.X, scope)
			if err != nil {
				return nil, err
			}
			last = v
		case *ast.ReturnStmt:
			var v any
			if len(s.Results) > 0 {
				v, err = in.eval(s.Results[0], scope)
				if err != nil {
					return nil, err
				}
			}
			panic(returnSignal{value: v})
		default:
			return nil, &rterr.DisallowedConstruct{Construct: fmt.Sprintf("%T", stmt)}
		}
	}
	return last, nil
}

func (in *interpreter) eval(expr ast.Expr, scope *Env) (any, error) {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return in.eval(e.X, scope)
	case *ast.Ident:
		return in.evalIdent(e, scope)
	case *ast.BasicLit:
		return evalBasicLit(e)
	case *ast.UnaryExpr:
		return in.evalUnary(e, scope)
	case *ast.BinaryExpr:
		return in.evalBinary(e, scope)
	case *ast.CallExpr:
		return in.evalCall(e, scope)
	case *ast.SelectorExpr:
		return in.evalSelector(e, scope)
	case *ast.IndexExpr:
		return in.evalIndex(e, scope)
	case *ast.FuncLit:
		return in.evalFuncLit(e, scope), nil
	case *ast.CompositeLit:
		return in.evalComposite(e, scope)
	default:
		return nil, &rterr.DisallowedConstruct{Construct: fmt.Sprintf("%T", expr)}
	}
}

func (in *interpreter) evalIdent(id *ast.Ident, scope *Env) (any, error) {
	if v, ok := scope.Get(id.Name); ok {
		return v, nil
	}
	if v, ok := lookupBuiltin(in, id.Name); ok {
		return v, nil
	}
	return nil, fmt.Errorf("undefined identifier %q", id.Name)
}

func evalBasicLit(lit *ast.BasicLit) (any, error) {
	switch lit.Kind {
	case token.INT:
		var i int
		_, err := fmt.Sscanf(lit.Value, "%d", &i)
		return i, err
	case token.FLOAT:
		var f float64
		_, err := fmt.Sscanf(lit.Value, "%g", &f)
		return f, err
	case token.STRING:
		s, err := unquoteGoString(lit.Value)
		return s, err
	case token.CHAR:
		r := []rune(lit.Value)
		if len(r) >= 3 {
			return r[1], nil
		}
		return rune(0), nil
	default:
		return nil, fmt.Errorf("unsupported literal kind %v", lit.Kind)
	}
}

func unquoteGoString(raw string) (string, error) {
	if len(raw) >= 2 && raw[0] == '`' {
		return raw[1 : len(raw)-1], nil
	}
	var out []rune
	s := []rune(raw)
	if len(s) < 2 {
		return "", nil
	}
	s = s[1 : len(s)-1]
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			default:
				out = append(out, s[i])
			}
			continue
		}
		out = append(out, s[i])
	}
	return string(out), nil
}

func (in *interpreter) evalUnary(e *ast.UnaryExpr, scope *Env) (any, error) {
	v, err := in.eval(e.X, scope)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case token.SUB:
		f, _ := toFloat(v)
		return -f, nil
	case token.NOT:
		return !truthy(v), nil
	default:
		return nil, fmt.Errorf("unsupported unary operator %v", e.Op)
	}
}

func (in *interpreter) evalBinary(e *ast.BinaryExpr, scope *Env) (any, error) {
	if e.Op == token.LAND || e.Op == token.LOR {
		l, err := in.eval(e.X, scope)
		if err != nil {
			return nil, err
		}
		if e.Op == token.LAND && !truthy(l) {
			return false, nil
		}
		if e.Op == token.LOR && truthy(l) {
			return true, nil
		}
		r, err := in.eval(e.Y, scope)
		if err != nil {
			return nil, err
		}
		return truthy(r), nil
	}

	l, err := in.eval(e.X, scope)
	if err != nil {
		return nil, err
	}
	r, err := in.eval(e.Y, scope)
	if err != nil {
		return nil, err
	}
	return applyBinaryOp(e.Op, l, r)
}

func applyBinaryOp(op token.Token, l, r any) (any, error) {
	ls, lIsStr := l.(string)
	rs, rIsStr := r.(string)
	if lIsStr && rIsStr {
		switch op {
		case token.ADD:
			return ls + rs, nil
		case token.EQL:
			return ls == rs, nil
		case token.NEQ:
			return ls != rs, nil
		case token.LSS:
			return ls < rs, nil
		case token.GTR:
			return ls > rs, nil
		case token.LEQ:
			return ls <= rs, nil
		case token.GEQ:
			return ls >= rs, nil
		}
	}
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if lok && rok {
		switch op {
		case token.ADD:
			return numResult(l, r, lf+rf), nil
		case token.SUB:
			return numResult(l, r, lf-rf), nil
		case token.MUL:
			return numResult(l, r, lf*rf), nil
		case token.QUO:
			return lf / rf, nil
		case token.REM:
			return int(lf) % int(rf), nil
		case token.EQL:
			return lf == rf, nil
		case token.NEQ:
			return lf != rf, nil
		case token.LSS:
			return lf < rf, nil
		case token.GTR:
			return lf > rf, nil
		case token.LEQ:
			return lf <= rf, nil
		case token.GEQ:
			return lf >= rf, nil
		}
	}
	switch op {
	case token.EQL:
		return reflect.DeepEqual(l, r), nil
	case token.NEQ:
		return !reflect.DeepEqual(l, r), nil
	}
	return nil, fmt.Errorf("unsupported operator %v between %T and %T", op, l, r)
}

// numResult keeps the result an int when both operands were ints, the
// way Go's own arithmetic preserves operand type.
func numResult(l, r any, f float64) any {
	_, lInt := l.(int)
	_, rInt := r.(int)
	if lInt && rInt {
		return int(f)
	}
	return f
}

func (in *interpreter) evalCall(e *ast.CallExpr, scope *Env) (any, error) {
	args := make([]any, len(e.Args))
	for i, a := range e.Args {
		v, err := in.eval(a, scope)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fnVal, err := in.eval(e.Fun, scope)
	if err != nil {
		return nil, err
	}
	return in.call(fnVal, args)
}

func (in *interpreter) call(fnVal any, args []any) (any, error) {
	if cl, ok := fnVal.(*Closure); ok {
		return cl.Call(in, args)
	}

	rv := reflect.ValueOf(fnVal)
	if rv.Kind() != reflect.Func {
		return nil, &rterr.InvalidFormatter{Got: fmt.Sprintf("%T", fnVal)}
	}
	in2 := []reflect.Value{}
	rt := rv.Type()
	variadic := rt.IsVariadic()
	for i, a := range args {
		var want reflect.Type
		if variadic && i >= rt.NumIn()-1 {
			want = rt.In(rt.NumIn() - 1).Elem()
		} else if i < rt.NumIn() {
			want = rt.In(i)
		} else {
			want = reflect.TypeOf(a)
		}
		in2 = append(in2, coerceArg(a, want))
	}
	out := rv.Call(in2)
	return unpackResults(out)
}

func coerceArg(a any, want reflect.Type) reflect.Value {
	if a == nil {
		return reflect.Zero(want)
	}
	av := reflect.ValueOf(a)
	if want != nil && av.Type().ConvertibleTo(want) && av.Type() != want {
		switch want.Kind() {
		case reflect.Float64, reflect.Float32, reflect.Int, reflect.Int64, reflect.String:
			return av.Convert(want)
		}
	}
	return av
}

func unpackResults(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		last := out[len(out)-1].Interface()
		if errv, ok := last.(error); ok {
			if errv != nil {
				return nil, errv
			}
			if len(out) == 2 {
				return out[0].Interface(), nil
			}
		}
		vals := make([]any, len(out))
		for i, v := range out {
			vals[i] = v.Interface()
		}
		return vals, nil
	}
}

func (in *interpreter) evalSelector(e *ast.SelectorExpr, scope *Env) (any, error) {
	if id, ok := e.X.(*ast.Ident); ok {
		if ns, ok := in.imports[id.Name]; ok {
			member, ok := ns[e.Sel.Name]
			if !ok {
				return nil, fmt.Errorf("namespace %q has no member %q", id.Name, e.Sel.Name)
			}
			return member, nil
		}
	}
	recv, err := in.eval(e.X, scope)
	if err != nil {
		return nil, err
	}
	return fieldOrMapLookup(recv, e.Sel.Name)
}

func fieldOrMapLookup(recv any, name string) (any, error) {
	rv := reflect.ValueOf(recv)
	if rv.Kind() == reflect.Map {
		v := rv.MapIndex(reflect.ValueOf(name))
		if !v.IsValid() {
			return nil, nil
		}
		return v.Interface(), nil
	}
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		f := rv.FieldByName(name)
		if f.IsValid() {
			return f.Interface(), nil
		}
	}
	return nil, fmt.Errorf("cannot select %q on %T", name, recv)
}

func (in *interpreter) evalIndex(e *ast.IndexExpr, scope *Env) (any, error) {
	recv, err := in.eval(e.X, scope)
	if err != nil {
		return nil, err
	}
	idx, err := in.eval(e.Index, scope)
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(recv)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		i := builtinInt(idx)
		if i < 0 || i >= rv.Len() {
			return nil, fmt.Errorf("index %d out of range", i)
		}
		return rv.Index(i).Interface(), nil
	case reflect.Map:
		v := rv.MapIndex(reflect.ValueOf(idx))
		if !v.IsValid() {
			return nil, nil
		}
		return v.Interface(), nil
	default:
		return nil, fmt.Errorf("cannot index %T", recv)
	}
}

func (in *interpreter) evalFuncLit(e *ast.FuncLit, scope *Env) *Closure {
	params := make([]string, 0, len(e.Type.Params.List))
	for _, field := range e.Type.Params.List {
		if len(field.Names) == 0 {
			params = append(params, "_")
			continue
		}
		for _, n := range field.Names {
			params = append(params, n.Name)
		}
	}
	return &Closure{
		Params: params,
		Body:   &evaluableBody{stmts: e.Body.List},
		Env:    scope,
	}
}

func (in *interpreter) evalComposite(e *ast.CompositeLit, scope *Env) (any, error) {
	switch e.Type.(type) {
	case *ast.ArrayType:
		out := make([]any, 0, len(e.Elts))
		for _, elt := range e.Elts {
			v, err := in.eval(elt, scope)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *ast.MapType:
		out := map[string]any{}
		for _, elt := range e.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				return nil, fmt.Errorf("malformed map literal entry")
			}
			kv2, err := in.eval(kv.Key, scope)
			if err != nil {
				return nil, err
			}
			k, _ := kv2.(string)
			v, err := in.eval(kv.Value, scope)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported composite literal type")
	}
}

func toDisplayString(v any) string {
	return fmt.Sprintf("%v", v)
}
