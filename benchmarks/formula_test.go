package benchmarks

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/randalmurphal/formulagen/pkg/formula"
)

// buildTemplate returns a template with n placeholders separated by literal text.
func buildTemplate(n int) (string, map[string]string) {
	var sb strings.Builder
	defs := make(map[string]string, n)
	sb.WriteString("=")
	for i := 0; i < n; i++ {
		name := "v" + strconv.Itoa(i)
		if i > 0 {
			sb.WriteString("+")
		}
		sb.WriteString("${" + name + "}*2")
		defs[name] = "A" + strconv.Itoa(i+1)
	}
	return sb.String(), defs
}

func mustParse(template string) *formula.Parsed {
	p, err := formula.Parse(template)
	if err != nil {
		panic(err)
	}
	return p
}

// BenchmarkParse_10 parses a template with 10 placeholders.
func BenchmarkParse_10(b *testing.B) {
	tmpl, _ := buildTemplate(10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = formula.Parse(tmpl)
	}
}

// BenchmarkParse_100 parses a template with 100 placeholders.
func BenchmarkParse_100(b *testing.B) {
	tmpl, _ := buildTemplate(100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = formula.Parse(tmpl)
	}
}

// BenchmarkParse_NoPlaceholders parses plain text.
func BenchmarkParse_NoPlaceholders(b *testing.B) {
	tmpl := strings.Repeat("=SUM(A1:A9)", 50)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = formula.Parse(tmpl)
	}
}

// BenchmarkSubstitute_10 substitutes into a pre-parsed template.
func BenchmarkSubstitute_10(b *testing.B) {
	tmpl, defs := buildTemplate(10)
	p := mustParse(tmpl)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = p.Substitute(defs)
	}
}

// BenchmarkSubstitute_100 substitutes into a pre-parsed template.
func BenchmarkSubstitute_100(b *testing.B) {
	tmpl, defs := buildTemplate(100)
	p := mustParse(tmpl)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = p.Substitute(defs)
	}
}

// BenchmarkFormula_Chain runs the full parse, define, replace chain.
func BenchmarkFormula_Chain(b *testing.B) {
	tmpl, defs := buildTemplate(10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = formula.New(tmpl).Parse().DefineAll(defs).Replace().Result()
	}
}

// BenchmarkGenerateAll_100Rows renders one template for 100 rows.
func BenchmarkGenerateAll_100Rows(b *testing.B) {
	rows := make([]map[string]string, 100)
	for i := range rows {
		rows[i] = map[string]string{"r": strconv.Itoa(i + 2)}
	}
	eng := formula.NewEngine()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = eng.GenerateAll(ctx, "=A${r}*B${r}+C${r}", rows)
	}
}

// BenchmarkSubstitute_Parallel substitutes concurrently from one Parsed.
func BenchmarkSubstitute_Parallel(b *testing.B) {
	tmpl, defs := buildTemplate(10)
	p := mustParse(tmpl)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = p.Substitute(defs)
		}
	})
}
