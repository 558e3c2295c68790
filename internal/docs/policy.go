package docs

import (
	"fmt"
	"math"
	"strings"
)

// BoostTable selects the package-boost multipliers.
type BoostTable string

const (
	// BoostRich demotes AWT, SQL and CORBA and prefers java.lang.
	BoostRich BoostTable = "rich"
	// BoostSimple scores java.* and javax.* at 1.0, everything else 0.8.
	BoostSimple BoostTable = "simple"
)

// Policy is the output-schema policy the engine is constructed with.
type Policy struct {
	Name              string
	Boost             BoostTable
	ClassBudget       int
	MemberBudget      int
	Weights           bool // emit weight and suggest facets
	EmbedConstructors bool
}

var (
	FullPolicy = Policy{
		Name:              "full",
		Boost:             BoostRich,
		ClassBudget:       500,
		MemberBudget:      250,
		Weights:           true,
		EmbedConstructors: true,
	}
	CompactPolicy = Policy{
		Name:         "compact",
		Boost:        BoostSimple,
		ClassBudget:  500,
		MemberBudget: 250,
	}
)

// PolicyByName returns a preset policy.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(name) {
	case "", FullPolicy.Name:
		return FullPolicy, nil
	case CompactPolicy.Name:
		return CompactPolicy, nil
	}
	return Policy{}, fmt.Errorf("unknown policy %q (want full or compact)", name)
}

// Fingerprint identifies everything in the policy that affects output.
func (p Policy) Fingerprint() string {
	return fmt.Sprintf("%s/%s/%d/%d/%t/%t", p.Name, p.Boost, p.ClassBudget, p.MemberBudget, p.Weights, p.EmbedConstructors)
}

// KindWeight is the per-kind relevance factor.
func KindWeight(k Kind) int {
	switch k {
	case KindClass, KindInterface, KindEnum:
		return 100
	case KindAnnotation:
		return 70
	case KindMethod:
		return 50
	case KindConstructor:
		return 1
	}
	return 1
}

type boostRule struct {
	match func(pkg string) bool
	boost float64
}

func underPackage(prefix string) func(string) bool {
	return func(pkg string) bool {
		return pkg == prefix || strings.HasPrefix(pkg, prefix+".")
	}
}

// More specific prefixes come before their parents.
var richRules = []boostRule{
	{underPackage("java.awt"), 0.7},
	{underPackage("java.sql"), 0.9},
	{underPackage("java.lang"), 1.0},
	{underPackage("java"), 0.95},
	{underPackage("javax"), 0.9},
	{func(pkg string) bool { return strings.Contains(pkg, "CORBA") }, 0.2},
}

var simpleRules = []boostRule{
	{underPackage("java"), 1.0},
	{underPackage("javax"), 1.0},
}

// PackageBoost returns the namespace multiplier for pkg.
func PackageBoost(table BoostTable, pkg string) float64 {
	rules, fallback := richRules, 0.6
	if table == BoostSimple {
		rules, fallback = simpleRules, 0.8
	}
	for _, r := range rules {
		if r.match(pkg) {
			return r.boost
		}
	}
	return fallback
}

// floorPositive floors x and clamps it to at least 1. The epsilon absorbs
// float error in products like 0.7*10*100.
func floorPositive(x float64) int {
	n := int(math.Floor(x + 1e-9))
	if n < 1 {
		return 1
	}
	return n
}

// Weight is max(1, floor(boost * 10 * kindWeight)).
func (p Policy) Weight(pkg string, k Kind) int {
	return floorPositive(PackageBoost(p.Boost, pkg) * 10 * float64(KindWeight(k)))
}

// SuggestWeight is the unscaled weight: max(1, floor(boost * kindWeight)).
func (p Policy) SuggestWeight(pkg string, k Kind) int {
	return floorPositive(PackageBoost(p.Boost, pkg) * float64(KindWeight(k)))
}

// relevance returns the weight and suggest facet for a record, or zero
// values when the policy does not emit them.
func (p Policy) relevance(pkg string, k Kind, inputs []string, output string) (int, *SuggestFacet) {
	if !p.Weights {
		return 0, nil
	}
	return p.Weight(pkg, k), &SuggestFacet{
		Input:  inputs,
		Output: output,
		Weight: p.SuggestWeight(pkg, k),
	}
}
