package lookup

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity returns the matching-blocks ratio 2*M/T of a and b compared
// character by character. Either side empty yields 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	matcher := difflib.NewMatcherWithJunk(strings.Split(a, ""), strings.Split(b, ""), false, nil)
	return matcher.Ratio()
}
