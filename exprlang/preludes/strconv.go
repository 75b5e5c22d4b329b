package preludes

import "strconv"

func init() {
	Register("strconv", Namespace{
		"itoa":       strconv.Itoa,
		"atoi":       func(s string) (int, error) { return strconv.Atoi(s) },
		"parse_float": func(s string) (float64, error) { return strconv.ParseFloat(s, 64) },
		"format_float": func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) },
		"quote":      strconv.Quote,
	})
}
