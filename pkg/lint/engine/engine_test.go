package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"touchlint-hq/touchlint/pkg/config"
	"touchlint-hq/touchlint/pkg/lint/rules"
	"touchlint-hq/touchlint/pkg/telemetry/metrics"
	"touchlint-hq/touchlint/pkg/telemetry/tracing"
)

const (
	accessibleSrc = "const a = <TouchableOpacity accessible={true} accessibilityLabel=\"Tap\" accessibilityRole=\"button\" />;\n"
	bareSrc       = "const a = <TouchableOpacity />;\n"
	brokenSrc     = "const a = <View><Text></View>;\n"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return root
}

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := New(rules.DefaultRegistry(), opts, nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestNew_UnknownRule(t *testing.T) {
	_, err := New(rules.DefaultRegistry(), Options{Rules: []string{"accessible-touchables"}}, nil, nil)
	if err == nil {
		t.Fatal("expected error for unknown rule")
	}
}

func TestEngine_LintSource(t *testing.T) {
	tests := []struct {
		name       string
		rules      []string
		src        string
		wantRules  []string
		suppressed int
		wantErr    bool
	}{
		{
			name:      "all rules on bare touchable",
			src:       bareSrc,
			wantRules: []string{rules.AccessibleTouchableName, rules.A11yTouchablesName},
		},
		{
			name:      "selected rule only",
			rules:     []string{rules.A11yTouchablesName},
			src:       bareSrc,
			wantRules: []string{rules.A11yTouchablesName},
		},
		{
			name: "accessible touchable",
			src:  accessibleSrc,
		},
		{
			name:       "directive suppresses one rule",
			src:        "// touchlint:disable-next-line accessible-touchable\n" + bareSrc,
			wantRules:  []string{rules.A11yTouchablesName},
			suppressed: 1,
		},
		{
			name:    "syntax error",
			src:     brokenSrc,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, Options{Rules: tt.rules, Strict: true})
			res := e.LintSource("app.tsx", []byte(tt.src))

			if (res.Err != nil) != tt.wantErr {
				t.Fatalf("Err = %v, wantErr %v", res.Err, tt.wantErr)
			}
			var got []string
			for _, v := range res.Violations {
				got = append(got, v.Rule)
			}
			if len(got) != len(tt.wantRules) {
				t.Fatalf("violations = %v, want rules %v", got, tt.wantRules)
			}
			for i := range got {
				if got[i] != tt.wantRules[i] {
					t.Errorf("violation %d rule = %q, want %q", i, got[i], tt.wantRules[i])
				}
			}
			if res.Suppressed != tt.suppressed {
				t.Errorf("Suppressed = %d, want %d", res.Suppressed, tt.suppressed)
			}
		})
	}
}

func TestEngine_IgnoreDirectives(t *testing.T) {
	e := newEngine(t, Options{IgnoreDirectives: true})
	res := e.LintSource("app.tsx", []byte("// touchlint:disable\n"+bareSrc))

	if len(res.Violations) != 2 || res.Suppressed != 0 {
		t.Errorf("got %d violations, %d suppressed; want 2 and 0", len(res.Violations), res.Suppressed)
	}
}

func TestEngine_Run(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"b.tsx":         bareSrc,
		"a.tsx":         accessibleSrc,
		"nested/c.jsx":  bareSrc + bareSrc,
		"nested/bad.js": brokenSrc,
	})
	paths, err := Discover([]string{root + "/..."}, DiscoverOptions{Extensions: []string{".tsx", ".jsx", ".js"}})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	e := newEngine(t, Options{Workers: 3, Strict: true})
	report, err := e.Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(report.Files) != 4 {
		t.Fatalf("len(Files) = %d, want 4", len(report.Files))
	}
	for i := 1; i < len(report.Files); i++ {
		if report.Files[i-1].Path > report.Files[i].Path {
			t.Errorf("files not sorted: %s before %s", report.Files[i-1].Path, report.Files[i].Path)
		}
	}
	if got := report.ViolationCount(); got != 6 {
		t.Errorf("ViolationCount() = %d, want 6", got)
	}
	if got := report.ErrorCount(); got != 1 {
		t.Errorf("ErrorCount() = %d, want 1", got)
	}
	counts := report.CountByRule()
	if counts[rules.AccessibleTouchableName] != 3 || counts[rules.A11yTouchablesName] != 3 {
		t.Errorf("CountByRule() = %v", counts)
	}
	if report.RunID.String() == "" || report.Clean() {
		t.Error("expected a run id and an unclean report")
	}
	if len(report.Rules) != 2 {
		t.Errorf("Rules = %v, want both built-in rules", report.Rules)
	}
}

func TestEngine_RunDeterministic(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		files[name+".tsx"] = bareSrc
	}
	root := writeFiles(t, files)
	paths, err := Discover([]string{root}, DiscoverOptions{Extensions: []string{".tsx"}})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	var first []string
	for run := 0; run < 5; run++ {
		report, err := newEngine(t, Options{Workers: 4}).Run(context.Background(), paths)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		var got []string
		for _, v := range report.Violations() {
			got = append(got, v.String())
		}
		if first == nil {
			first = got
			continue
		}
		if len(got) != len(first) {
			t.Fatalf("run %d produced %d violations, want %d", run, len(got), len(first))
		}
		for i := range got {
			if got[i] != first[i] {
				t.Fatalf("run %d differs at %d: %q vs %q", run, i, got[i], first[i])
			}
		}
	}
}

func TestEngine_RunFailFast(t *testing.T) {
	root := writeFiles(t, map[string]string{"bad.tsx": brokenSrc})
	e := newEngine(t, Options{Workers: 1, Strict: true, FailFast: true})

	report, err := e.Run(context.Background(), []string{filepath.Join(root, "bad.tsx")})
	if err == nil {
		t.Fatal("expected fail-fast error")
	}
	if report == nil || report.ErrorCount() != 1 {
		t.Errorf("expected partial report with the failing file, got %+v", report)
	}
}

func TestEngine_RunCancelled(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.tsx": bareSrc})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newEngine(t, Options{}).Run(ctx, []string{filepath.Join(root, "a.tsx")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestEngine_MissingFile(t *testing.T) {
	res := newEngine(t, Options{}).LintFile(context.Background(), filepath.Join(t.TempDir(), "missing.tsx"))
	if res.Err == nil {
		t.Fatal("expected error for missing file")
	}
	if res.Status() != metrics.StatusError {
		t.Errorf("Status() = %q, want %q", res.Status(), metrics.StatusError)
	}
}

func TestEngine_Metrics(t *testing.T) {
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true, Namespace: "test"}, nil)
	e, err := New(rules.DefaultRegistry(), Options{}, nil, collector)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	root := writeFiles(t, map[string]string{
		"a.tsx": "// touchlint:disable-next-line tsx-a11y-touchables\n" + bareSrc,
	})
	if _, err := e.Run(context.Background(), []string{filepath.Join(root, "a.tsx")}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	count, err := testutil.GatherAndCount(collector.Registry(), "test_lint_violations_total", "test_lint_suppressed_total")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if count != 2 {
		t.Errorf("expected one violations and one suppressed series, got %d", count)
	}
}

func TestReport_Summary(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.tsx":   bareSrc,
		"bad.tsx": brokenSrc,
	})
	paths, err := Discover([]string{root}, DiscoverOptions{Extensions: []string{".tsx"}})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	report, err := newEngine(t, Options{Strict: true}).Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	s := report.Summary()
	if s.RunID != report.RunID.String() || s.Trigger != TriggerCLI {
		t.Errorf("Summary() header = %+v", s)
	}
	if s.FilesChecked != 2 || s.FilesFailed != 1 || s.Violations != 2 {
		t.Errorf("Summary() counts = %d/%d/%d, want 2/1/2", s.FilesChecked, s.FilesFailed, s.Violations)
	}
	if len(s.Findings) != 2 || s.Findings[0].Line != 1 || s.Findings[0].File != filepath.Join(root, "a.tsx") {
		t.Errorf("Summary() findings = %+v", s.Findings)
	}
	if len(s.Errors) != 1 || s.Errors[0].File != filepath.Join(root, "bad.tsx") {
		t.Errorf("Summary() errors = %+v", s.Errors)
	}
}

func TestEngine_RunProgress(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.tsx": bareSrc, "b.tsx": bareSrc, "c.tsx": accessibleSrc})
	paths, err := Discover([]string{root}, DiscoverOptions{Extensions: []string{".tsx"}})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	var (
		mu    sync.Mutex
		seen  []int
		total int
	)
	e := newEngine(t, Options{Workers: 2, Progress: func(done, n int) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, done)
		total = n
	}})
	if _, err := e.Run(context.Background(), paths); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	sort.Ints(seen)
	if total != 3 || len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Errorf("progress calls = %v (total %d), want 1..3 of 3", seen, total)
	}
}

func TestEngine_RunTracing(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.tsx": bareSrc, "b.tsx": accessibleSrc})
	paths, err := Discover([]string{root}, DiscoverOptions{Extensions: []string{".tsx"}})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer provider.Shutdown(context.Background())

	e := newEngine(t, Options{Workers: 2, Tracer: provider.Tracer(tracing.InstrumentationName)})
	report, err := e.Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 3 {
		t.Fatalf("got %d spans, want 1 run and 2 files", len(spans))
	}

	run := spans[len(spans)-1]
	if run.Name != tracing.SpanRun {
		t.Fatalf("last span = %q, want %q", run.Name, tracing.SpanRun)
	}

	events := 0
	for _, span := range spans[:2] {
		if span.Name != tracing.SpanFile {
			t.Errorf("span name = %q, want %q", span.Name, tracing.SpanFile)
		}
		if span.Parent.SpanID() != run.SpanContext.SpanID() {
			t.Errorf("file span %q is not a child of the run span", span.Name)
		}
		events += len(span.Events)
	}
	if events != report.ViolationCount() {
		t.Errorf("got %d violation events, want %d", events, report.ViolationCount())
	}
}
