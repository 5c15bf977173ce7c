package template

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Token values for these properties avoid "_" and "." so the work
// pattern has a single unambiguous split point.
func identGen() gopter.Gen {
	return gen.RegexMatch("[a-z][a-z0-9]{0,7}")
}

func TestFormatParseRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	tmpl, err := New("work", "{entity}/work/{task}_v{ver}.{extn}", Options{})
	if err != nil {
		t.Fatal(err)
	}

	properties := gopter.NewProperties(parameters)

	properties.Property("parse inverts format", prop.ForAll(
		func(entity, task, ver, extn string) bool {
			data := map[string]string{
				"entity": entity, "task": task, "ver": ver, "extn": extn,
			}
			path, err := tmpl.Format(data)
			if err != nil {
				return false
			}
			parsed, err := tmpl.Parse(path)
			if err != nil {
				return false
			}
			for k, v := range data {
				if parsed[k] != v {
					return false
				}
			}
			return len(parsed) == len(data)
		},
		identGen(), identGen(), gen.RegexMatch("[0-9]{3}"), gen.RegexMatch("[a-z]{1,4}"),
	))

	properties.TestingRun(t)
}

func TestApplyDataIdempotentProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	tmpl, err := New("work", "{entity}/work/{task}_v{ver}.{extn}", Options{})
	if err != nil {
		t.Fatal(err)
	}

	properties := gopter.NewProperties(parameters)

	properties.Property("applying the same data twice changes nothing", prop.ForAll(
		func(entity, extn string) bool {
			values := map[string]string{"entity": entity, "extn": extn}
			once := tmpl.ApplyData(values)
			twice := once.ApplyData(values)
			return once.Pattern() == twice.Pattern() &&
				len(once.EmbeddedData()) == len(twice.EmbeddedData())
		},
		identGen(), identGen(),
	))

	properties.Property("applied values come back from parse", prop.ForAll(
		func(entity, task, ver, extn string) bool {
			applied := tmpl.ApplyData(map[string]string{"entity": entity})
			path, err := tmpl.Format(map[string]string{
				"entity": entity, "task": task, "ver": ver, "extn": extn,
			})
			if err != nil {
				return false
			}
			parsed, err := applied.Parse(path)
			return err == nil && parsed["entity"] == entity
		},
		identGen(), identGen(), gen.RegexMatch("[0-9]{3}"), identGen(),
	))

	properties.TestingRun(t)
}

func TestExpandVariationsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("n optional blocks expand to 2^n ordered variations", prop.ForAll(
		func(n int) bool {
			pattern := "{base}"
			for i := 0; i < n; i++ {
				pattern += fmt.Sprintf("[_{opt%d}]", i)
			}

			variations, err := ExpandVariations(pattern)
			if err != nil {
				return false
			}
			if len(variations) != 1<<n {
				return false
			}
			// Simplest first, fullest last, and every run identical
			if variations[0] != "{base}" {
				return false
			}
			last := variations[len(variations)-1]
			for i := 0; i < n; i++ {
				if !strings.Contains(last, fmt.Sprintf("{opt%d}", i)) {
					return false
				}
			}
			again, err := ExpandVariations(pattern)
			if err != nil || len(again) != len(variations) {
				return false
			}
			for i := range variations {
				if variations[i] != again[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 6),
	))

	properties.TestingRun(t)
}

func TestSortOrderProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	qualifierGen := gen.OneConstOf("", "maya_", "shot_", "maya_shot_")

	properties.Property("sort is monotone in the comparison key", prop.ForAll(
		func(quals []string) bool {
			var templates []*Template
			for i, qual := range quals {
				pattern := "{entity}/" + strings.Repeat("x", i) + "/{task}"
				tmpl, err := New(qual+"work", pattern, Options{})
				if err != nil {
					return false
				}
				templates = append(templates, tmpl)
			}
			Sort(templates)
			for i := 1; i < len(templates); i++ {
				if templates[i-1].CompareKey() > templates[i].CompareKey() {
					return false
				}
			}
			// Host-qualified entries all precede unqualified ones
			sawBare := false
			for _, tmpl := range templates {
				if tmpl.Host() == "" {
					sawBare = true
				} else if sawBare {
					return false
				}
			}
			return true
		},
		gen.SliceOf(qualifierGen),
	))

	properties.TestingRun(t)
}
