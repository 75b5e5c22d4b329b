// Package preludes holds the whitelist of importable namespaces for
// expressions evaluated by exprlang. A namespace is only resolvable if
// it has been registered here; this is the concrete form of the
// "whitelisted prelude of imports" the expression sandbox requires,
// mirroring how Caddy's module registry (modules.go) only dispatches
// to modules that called RegisterModule at init time.
package preludes

import (
	"fmt"
	"sort"
)

// Namespace is a resolved prelude import: a flat table of exported
// callables and values reachable as NamespaceName.Member inside an
// expression body.
type Namespace map[string]any

var registry = map[string]Namespace{}

// Register adds a namespace under name, panicking on duplicate
// registration the same way caddy.RegisterModule does.
func Register(name string, ns Namespace) {
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("preludes: namespace %q already registered", name))
	}
	registry[name] = ns
}

// Lookup returns the namespace registered under name, or false if the
// import is not whitelisted.
func Lookup(name string) (Namespace, bool) {
	ns, ok := registry[name]
	return ns, ok
}

// Names returns the sorted set of importable namespace names, mainly
// for diagnostics and tests.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
