package component

import "strconv"

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// parseFloat assigns the parsed value of variables[key] to dst. Missing
// keys and unparseable values leave dst untouched, so partial input
// keeps component defaults.
func parseFloat(variables map[string]string, key string, dst *float64) {
	raw, ok := variables[key]
	if !ok || raw == "" {
		return
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return
	}
	*dst = v
}
