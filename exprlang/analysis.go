package exprlang

import (
	"go/ast"
	"go/token"

	"github.com/reporttpl/reporttpl/rterr"
)

// analysisResult is the outcome of walking a parsed expression body for
// safety and free-variable analysis, grounded directly on
// original_source's UnboundVariableFinder (app/template/variable/visitor.py):
// assignment/class/function-definition are rejected, walrus targets and
// lambda parameters are tracked as locally bound, and whatever Name
// nodes remain in load context and are neither assigned nor imported
// nor builtin are the expression's unbound dependencies.
type analysisResult struct {
	unbound      map[string]bool
	assigned     map[string]bool
	imports      map[string]bool
	walrusTarget string // name of the last `:=` target; "" if none
	hasCall      bool   // true if any *ast.CallExpr node appears anywhere in the body
}

func analyzeBody(stmts []ast.Stmt) (*analysisResult, error) {
	res := &analysisResult{
		unbound:  map[string]bool{},
		assigned: map[string]bool{},
		imports:  map[string]bool{},
	}
	for i, stmt := range stmts {
		isLast := i == len(stmts)-1
		if err := analyzeStmt(stmt, res, isLast); err != nil {
			return nil, err
		}
	}
	if len(stmts) == 0 {
		return nil, &rterr.EmptyExpression{}
	}
	if _, ok := stmts[len(stmts)-1].(*ast.ExprStmt); !ok {
		return nil, &rterr.NotAnExpression{}
	}
	return res, nil
}

func analyzeStmt(stmt ast.Stmt, res *analysisResult, isLast bool) error {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		if s.Tok != token.DEFINE {
			return &rterr.DisallowedConstruct{Construct: "assignment (use := not =)"}
		}
		for _, rhs := range s.Rhs {
			analyzeExpr(rhs, res)
		}
		for _, lhs := range s.Lhs {
			if id, ok := lhs.(*ast.Ident); ok && id.Name != "_" {
				res.assigned[id.Name] = true
				res.walrusTarget = id.Name
			}
		}
		return nil
	case *ast.ExprStmt:
		analyzeExpr(s.X, res)
		return nil
	case *ast.DeclStmt:
		gd, ok := s.Decl.(*ast.GenDecl)
		if ok && gd.Tok == token.TYPE {
			return &rterr.DisallowedConstruct{Construct: "type declaration"}
		}
		if ok && gd.Tok == token.IMPORT {
			return &rterr.DisallowedConstruct{Construct: "import must appear in the prelude, not the body"}
		}
		return &rterr.DisallowedConstruct{Construct: "declaration statement"}
	default:
		return &rterr.DisallowedConstruct{Construct: "non-expression statement"}
	}
}

func analyzeExpr(expr ast.Expr, res *analysisResult) {
	switch e := expr.(type) {
	case *ast.Ident:
		if e.Name == "_" {
			return
		}
		if !res.assigned[e.Name] && !res.imports[e.Name] && !builtinNames[e.Name] {
			res.unbound[e.Name] = true
		}
	case *ast.BasicLit:
		// no references
	case *ast.ParenExpr:
		analyzeExpr(e.X, res)
	case *ast.UnaryExpr:
		analyzeExpr(e.X, res)
	case *ast.BinaryExpr:
		analyzeExpr(e.X, res)
		analyzeExpr(e.Y, res)
	case *ast.CallExpr:
		res.hasCall = true
		analyzeExpr(e.Fun, res)
		for _, a := range e.Args {
			analyzeExpr(a, res)
		}
	case *ast.SelectorExpr:
		// e.X may be an import alias; still walk it. An alias base
		// counted as unbound here is removed from res.unbound by
		// NewWithImports once the prelude's aliases are resolved,
		// after body analysis.
		analyzeExpr(e.X, res)
	case *ast.IndexExpr:
		analyzeExpr(e.X, res)
		analyzeExpr(e.Index, res)
	case *ast.CompositeLit:
		for _, elt := range e.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				analyzeExpr(kv.Key, res)
				analyzeExpr(kv.Value, res)
				continue
			}
			analyzeExpr(elt, res)
		}
	case *ast.FuncLit:
		analyzeFuncLit(e, res)
	default:
		// Unknown expression shapes are left to the interpreter to
		// reject at evaluation time with a DisallowedConstruct.
	}
}

// analyzeFuncLit treats lambda parameters as locally bound for the
// duration of the body, the same way visit_Lambda seeds _assigned with
// arg names before visiting the lambda body; parameters are restored
// afterward so a name shadowed inside one lambda does not leak out and
// mask a genuine unbound reference elsewhere in the expression.
func analyzeFuncLit(fn *ast.FuncLit, res *analysisResult) {
	var names []string
	for _, field := range fn.Type.Params.List {
		for _, n := range field.Names {
			names = append(names, n.Name)
		}
	}
	added := map[string]bool{}
	for _, n := range names {
		if !res.assigned[n] {
			res.assigned[n] = true
			added[n] = true
		}
	}
	for _, stmt := range fn.Body.List {
		switch s := stmt.(type) {
		case *ast.ReturnStmt:
			for _, r := range s.Results {
				analyzeExpr(r, res)
			}
		case *ast.AssignStmt, *ast.ExprStmt:
			_ = analyzeStmt(s, res, false)
		}
	}
	for n := range added {
		delete(res.assigned, n)
	}
}

// validateImports enforces that the prelude consists only of bare
// import declarations, the direct analogue of ImportValidator, which
// only permits ast.Module and ast.alias nodes alongside Import /
// ImportFrom.
func validateImports(decls []ast.Decl) (map[string]string, error) {
	aliases := map[string]string{}
	for _, decl := range decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.IMPORT {
			return nil, &rterr.InvalidImport{Detail: "prelude must contain only import declarations"}
		}
		for _, spec := range gd.Specs {
			imp, ok := spec.(*ast.ImportSpec)
			if !ok {
				return nil, &rterr.InvalidImport{Detail: "malformed import spec"}
			}
			path := imp.Path.Value
			path = path[1 : len(path)-1] // strip quotes
			alias := path
			if imp.Name != nil {
				alias = imp.Name.Name
			}
			aliases[alias] = path
		}
	}
	return aliases, nil
}
