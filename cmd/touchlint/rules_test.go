package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"touchlint-hq/touchlint/pkg/lint/rules"
)

func TestListRules(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
		check   func(t *testing.T, out string)
	}{
		{
			name:   "text",
			format: "text",
			check: func(t *testing.T, out string) {
				for _, want := range []string{"RULE", rules.AccessibleTouchableName, rules.A11yTouchablesName} {
					if !strings.Contains(out, want) {
						t.Errorf("output missing %q:\n%s", want, out)
					}
				}
			},
		},
		{
			name:   "json",
			format: "json",
			check: func(t *testing.T, out string) {
				var meta []rules.Metadata
				if err := json.Unmarshal([]byte(out), &meta); err != nil {
					t.Fatalf("output is not valid JSON: %v", err)
				}
				if len(meta) != 2 {
					t.Errorf("got %d rules, want 2", len(meta))
				}
			},
		},
		{
			name:    "unsupported",
			format:  "yaml",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rulesFlags.format = tt.format
			var out bytes.Buffer
			rulesCmd.SetOut(&out)

			err := listRules(rulesCmd, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("listRules() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, out.String())
			}
		})
	}
}
