// Package wcag is the static catalogue of WCAG 2.1 success criteria with
// their Spanish titles, conformance levels and principles.
package wcag

import (
	"sort"
	"strconv"
	"strings"
)

type Level string

const (
	LevelA   Level = "A"
	LevelAA  Level = "AA"
	LevelAAA Level = "AAA"
)

// Levels in display order.
var Levels = []Level{LevelA, LevelAA, LevelAAA}

type Principle string

const (
	PrinciplePerceptible  Principle = "Perceptible"
	PrincipleOperable     Principle = "Operable"
	PrincipleComprensible Principle = "Comprensible"
	PrincipleRobusto      Principle = "Robusto"
	PrincipleUnknown      Principle = "—"
)

// Principles in display order.
var Principles = []Principle{PrinciplePerceptible, PrincipleOperable, PrincipleComprensible, PrincipleRobusto}

type Criterion struct {
	Code      string
	Title     string
	Level     Level
	Principle Principle
}

// GenericExplanation is shown for criteria without a dedicated explanation.
const GenericExplanation = "Criterio WCAG relacionado con accesibilidad."

// Fallback is what unknown codes resolve to.
var Fallback = Criterion{Title: "Criterio", Level: LevelA, Principle: PrincipleUnknown}

// Lookup returns the catalogue entry for code and whether it exists.
func Lookup(code string) (Criterion, bool) {
	c, ok := catalog[code]
	return c, ok
}

// Describe never fails: unknown codes get Fallback with the code filled in.
func Describe(code string) Criterion {
	if c, ok := catalog[code]; ok {
		return c
	}
	c := Fallback
	c.Code = code
	return c
}

// Explain returns the "qué evalúa" text for code.
func Explain(code string) string {
	if s, ok := explanations[code]; ok {
		return s
	}
	return GenericExplanation
}

// Codes returns every catalogued code in criterion order.
func Codes() []string {
	out := make([]string, 0, len(catalog))
	for code := range catalog {
		out = append(out, code)
	}
	SortCodes(out)
	return out
}

// CompareCodes orders dotted criterion codes segment by segment, numerically
// where both segments are numbers, so "1.4.10" sorts after "1.4.9".
func CompareCodes(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		if aerr == nil && berr == nil {
			if an < bn {
				return -1
			}
			return 1
		}
		return strings.Compare(as[i], bs[i])
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

func SortCodes(codes []string) {
	sort.SliceStable(codes, func(i, j int) bool { return CompareCodes(codes[i], codes[j]) < 0 })
}
