package preludes

import "github.com/Masterminds/sprig/v3"

// init registers the subset of sprig's text-template helper functions
// as the "sprig" namespace. sprig.TxtFuncMap returns
// template.FuncMap (map[string]interface{}), which is exactly the
// Namespace shape, so member functions are adopted as-is rather than
// re-implemented.
func init() {
	ns := Namespace{}
	for name, fn := range sprig.TxtFuncMap() {
		ns[name] = fn
	}
	Register("sprig", ns)
}
