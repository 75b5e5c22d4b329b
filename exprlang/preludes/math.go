package preludes

import "math"

func init() {
	Register("math", Namespace{
		"pi":    math.Pi,
		"e":     math.E,
		"sqrt":  math.Sqrt,
		"pow":   math.Pow,
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"round": math.Round,
		"abs":   math.Abs,
		"log":   math.Log,
		"log10": math.Log10,
		"max":   math.Max,
		"min":   math.Min,
		"mod":   math.Mod,
	})
}
