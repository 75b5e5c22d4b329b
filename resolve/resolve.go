// Package resolve implements the DependencyResolver: collecting a
// template's declared variables, topologically sorting them by their
// unbound-identifier dependencies, and evaluating them in that order
// into a shared environment. Grounded on original_source's resolver
// (app/template/dependency/resolver.py), which built the same ordering
// with networkx.DiGraph; no graph library appears anywhere in the
// example corpus, so the topological sort here is a direct,
// stdlib-only Kahn's-algorithm implementation (justified in
// DESIGN.md).
package resolve

import (
	"context"
	"sort"

	"github.com/reporttpl/reporttpl/datasource"
	"github.com/reporttpl/reporttpl/rterr"
	"github.com/reporttpl/reporttpl/variable"
)

// Resolver accumulates variables and resolves/evaluates them in
// dependency order.
type Resolver struct {
	vars  map[string]variable.Variable
	order []string // insertion order, for deterministic iteration before sorting
}

// New creates an empty Resolver.
func New() *Resolver {
	return &Resolver{vars: map[string]variable.Variable{}}
}

// Add registers v, returning DuplicateName if a variable with the same
// name was already added.
func (r *Resolver) Add(v variable.Variable) error {
	if _, exists := r.vars[v.Name()]; exists {
		return &rterr.DuplicateName{Name: v.Name()}
	}
	r.vars[v.Name()] = v
	r.order = append(r.order, v.Name())
	return nil
}

// AddMany registers each variable via Add, stopping at the first
// error.
func (r *Resolver) AddMany(vs []variable.Variable) error {
	for _, v := range vs {
		if err := r.Add(v); err != nil {
			return err
		}
	}
	return nil
}

// sortTopological orders variable names so that every dependency
// precedes its dependents, detecting unbound references (a dependency
// naming a variable that was never added) and cycles along the way.
func (r *Resolver) sortTopological() ([]string, error) {
	indegree := map[string]int{}
	dependents := map[string][]string{}
	var unbound []string

	for _, name := range r.order {
		indegree[name] = 0
	}
	for _, name := range r.order {
		for _, dep := range r.vars[name].Unbound() {
			if _, ok := r.vars[dep]; !ok {
				unbound = append(unbound, dep)
				continue
			}
			dependents[dep] = append(dependents[dep], name)
			indegree[name]++
		}
	}
	if len(unbound) > 0 {
		sort.Strings(unbound)
		return nil, &rterr.UnboundAcrossTemplate{Names: dedupe(unbound)}
	}

	var queue []string
	for _, name := range r.order {
		if indegree[name] == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var out []string
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		out = append(out, n)

		var freed []string
		for _, dep := range dependents[n] {
			indegree[dep]--
			if indegree[dep] == 0 {
				freed = append(freed, dep)
			}
		}
		sort.Strings(freed)
		queue = append(queue, freed...)
	}

	if len(out) != len(r.order) {
		remaining := map[string]bool{}
		for _, name := range r.order {
			remaining[name] = true
		}
		for _, name := range out {
			delete(remaining, name)
		}
		cycle := make([]string, 0, len(remaining))
		for name := range remaining {
			cycle = append(cycle, name)
		}
		sort.Strings(cycle)
		return nil, &rterr.CyclicDependency{Cycle: cycle}
	}

	return out, nil
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Evaluate resolves the topological order and then evaluates each
// variable into a shared environment in turn, mirroring
// original_source's resolver.eval loop: var.load(env), env[name]=val.
// It returns the evaluated variables in evaluation order and the final
// environment.
func (r *Resolver) Evaluate(ctx context.Context, sources map[string]datasource.Source) ([]variable.EvaluatedVariable, map[string]any, error) {
	order, err := r.sortTopological()
	if err != nil {
		return nil, nil, err
	}

	env := map[string]any{}
	evaluated := make([]variable.EvaluatedVariable, 0, len(order))
	for _, name := range order {
		v := r.vars[name]
		val, err := v.Load(ctx, env, sources)
		if err != nil {
			return nil, nil, &rterr.RuntimeError{Variable: name, Cause: err}
		}
		env[name] = val
		evaluated = append(evaluated, variable.EvaluatedVariable{Name: name, Value: val, Formatter: v.Formatter()})
	}
	return evaluated, env, nil
}
