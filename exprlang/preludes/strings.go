package preludes

import "strings"

func init() {
	Register("strings", Namespace{
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
		"trim":       strings.TrimSpace,
		"split":      strings.Split,
		"join":       strings.Join,
		"replace":    strings.ReplaceAll,
		"contains":   strings.Contains,
		"has_prefix":  strings.HasPrefix,
		"has_suffix":  strings.HasSuffix,
		"title":      strings.Title,
		"repeat":     strings.Repeat,
		"fields":     strings.Fields,
		"count":      strings.Count,
		"index":      strings.Index,
	})
}
