package model

import "golang.org/x/text/cases"

// Fold returns the case-folded form of a name, used as the comparison key
// for every case-insensitive match.  A fresh Caser is built per call
// because Casers are not safe for concurrent use.
func Fold(s string) string {
    return cases.Fold().String(s)
}
