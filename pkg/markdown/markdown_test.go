package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	r := New()

	tests := []struct {
		name    string
		source  string
		want    []string
		notWant []string
	}{
		{
			name:   "heading and emphasis",
			source: "# Private payments\n\nBeam is **confidential**.",
			want:   []string{`<h1 id="private-payments">Private payments</h1>`, "<strong>confidential</strong>"},
		},
		{
			name:   "table extension",
			source: "| a | b |\n|---|---|\n| 1 | 2 |",
			want:   []string{"<table>", "<td>1</td>"},
		},
		{
			name:    "script stripped",
			source:  "hello <script>alert(1)</script>",
			want:    []string{"hello"},
			notWant: []string{"<script"},
		},
		{
			name:    "javascript link stripped",
			source:  "[click](javascript:alert(1))",
			notWant: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Render(tt.source)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("Render() = %q, missing %q", got, want)
				}
			}
			for _, bad := range tt.notWant {
				if strings.Contains(got, bad) {
					t.Errorf("Render() = %q, should not contain %q", got, bad)
				}
			}
		})
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := New().Render("  \n"); got != "" {
		t.Fatalf("Render(blank) = %q, want empty", got)
	}
}
