package directive

import (
	"testing"

	"touchlint-hq/touchlint/pkg/jsx/parser"
	"touchlint-hq/touchlint/pkg/lint/rules"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		want      *Directive
		wantErr   bool
		wantRules []string
	}{
		{name: "plain comment", text: " just a comment"},
		{name: "prefix without colon", text: " touchlint disable"},
		{
			name: "disable next line all",
			text: " touchlint:disable-next-line",
			want: &Directive{Action: ActionDisableNextLine},
		},
		{
			name:      "disable line with rules",
			text:      " touchlint:disable-line accessible-touchable, tsx-a11y-touchables ",
			want:      &Directive{Action: ActionDisableLine},
			wantRules: []string{"accessible-touchable", "tsx-a11y-touchables"},
		},
		{
			name:      "legacy colon form",
			text:      "tslint:disable:tsx-a11y-touchables",
			want:      &Directive{Action: ActionDisable},
			wantRules: []string{"tsx-a11y-touchables"},
		},
		{
			name: "doc block style",
			text: "* touchlint:enable ",
			want: &Directive{Action: ActionEnable},
		},
		{name: "unknown action", text: "touchlint:silence", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.want == nil {
				if got != nil {
					t.Errorf("Parse() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Parse() = nil")
			}
			if got.Action != tt.want.Action {
				t.Errorf("Action = %q, want %q", got.Action, tt.want.Action)
			}
			if len(got.Rules) != len(tt.wantRules) {
				t.Fatalf("Rules = %v, want %v", got.Rules, tt.wantRules)
			}
			for i := range tt.wantRules {
				if got.Rules[i] != tt.wantRules[i] {
					t.Errorf("Rules[%d] = %q, want %q", i, got.Rules[i], tt.wantRules[i])
				}
			}
		})
	}
}

func lint(t *testing.T, src string) []rules.Violation {
	t.Helper()
	file, err := parser.NewParser().ParseBytes([]byte(src), "d.tsx")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	set, err := Collect(file)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	return set.Filter(rules.ApplyAll(rules.DefaultRegistry().All(), file))
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string // rule names of remaining violations
	}{
		{
			name: "no directives",
			src:  "const a = <TouchableOpacity />;\n",
			want: []string{rules.AccessibleTouchableName, rules.A11yTouchablesName},
		},
		{
			name: "disable next line for all rules",
			src:  "// touchlint:disable-next-line\nconst a = <TouchableOpacity />;\nconst b = <TouchableOpacity />;\n",
			want: []string{rules.AccessibleTouchableName, rules.A11yTouchablesName},
		},
		{
			name: "disable next line for one rule",
			src:  "// touchlint:disable-next-line accessible-touchable\nconst a = <TouchableOpacity />;\n",
			want: []string{rules.A11yTouchablesName},
		},
		{
			name: "disable line",
			src:  "const a = <TouchableOpacity />; // tslint:disable-line\n",
			want: nil,
		},
		{
			name: "disable and enable range",
			src: "/* touchlint:disable tsx-a11y-touchables */\n" +
				"const a = <TouchableOpacity />;\n" +
				"/* touchlint:enable tsx-a11y-touchables */\n" +
				"const b = <TouchableOpacity />;\n",
			want: []string{rules.AccessibleTouchableName, rules.AccessibleTouchableName, rules.A11yTouchablesName},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lint(t, tt.src)
			if len(got) != len(tt.want) {
				t.Fatalf("Filter() = %v, want rules %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i].Rule != tt.want[i] {
					t.Errorf("violation %d rule = %q, want %q", i, got[i].Rule, tt.want[i])
				}
			}
		})
	}
}

func TestCollect_Malformed(t *testing.T) {
	src := "// touchlint:mute\nconst a = <TouchableOpacity />;\n"
	file, err := parser.NewParser().ParseBytes([]byte(src), "m.tsx")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}

	set, err := Collect(file)
	if err == nil {
		t.Error("Collect() error = nil, want malformed directive error")
	}
	if set == nil || set.Len() != 0 {
		t.Fatalf("Collect() set = %+v, want empty usable set", set)
	}
	if got := set.Filter(rules.ApplyAll(rules.DefaultRegistry().All(), file)); len(got) != 2 {
		t.Errorf("Filter() kept %d violations, want 2", len(got))
	}
}
