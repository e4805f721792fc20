package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGoldmark_RenderChapter(t *testing.T) {
	t.Parallel()

	plain := NewGoldmark()
	smart := NewGoldmark(WithSmartPunctuation(true))

	tests := []struct {
		name         string
		renderer     *Goldmark
		input        string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "heading gets an id",
			renderer:     plain,
			input:        "# Getting Started\n",
			wantContains: []string{`<h1 id="getting-started">Getting Started</h1>`},
		},
		{
			name:         "heading attributes",
			renderer:     plain,
			input:        "## Setup {#install .wide}\n",
			wantContains: []string{`id="install"`, `class="wide"`},
		},
		{
			name:         "output is a fragment",
			renderer:     plain,
			input:        "text\n",
			wantContains: []string{"<p>text</p>"},
			wantExcludes: []string{"<html", "<body", "<!DOCTYPE"},
		},
		{
			name:         "table extension",
			renderer:     plain,
			input:        "| a | b |\n|---|---|\n| 1 | 2 |\n",
			wantContains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:         "task list",
			renderer:     plain,
			input:        "- [x] done\n- [ ] todo\n",
			wantContains: []string{`type="checkbox"`},
		},
		{
			name:         "fenced code uses highlight classes",
			renderer:     plain,
			input:        "```go\nfunc main() {}\n```\n",
			wantContains: []string{`class="chroma"`},
			wantExcludes: []string{"style=\"color"},
		},
		{
			name:         "footnote",
			renderer:     plain,
			input:        "Claim[^1].\n\n[^1]: Source.\n",
			wantContains: []string{"footnote"},
		},
		{
			name:         "raw html passes through",
			renderer:     plain,
			input:        "<div class=\"warning\">careful</div>\n",
			wantContains: []string{`<div class="warning">careful</div>`},
		},
		{
			name:         "quotes stay straight by default",
			renderer:     plain,
			input:        "\"quoted\" -- text\n",
			wantContains: []string{"&quot;quoted&quot; -- text"},
		},
		{
			name:         "smart punctuation",
			renderer:     smart,
			input:        "\"quoted\" -- text...\n",
			wantContains: []string{"&ldquo;quoted&rdquo;", "&ndash;", "&hellip;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.renderer.RenderChapter(context.Background(), []byte(tt.input))
			if err != nil {
				t.Fatalf("RenderChapter() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\n%s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("output contains %q\n%s", exclude, got)
				}
			}
		})
	}
}

func TestGoldmark_RenderChapter_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmark().RenderChapter(ctx, []byte("# Title"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RenderChapter() error = %v, want context.Canceled", err)
	}
}
