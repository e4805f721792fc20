package hints

// Notes:
// - ForBrowserConnect and ForConverterNotFound tests cannot use t.Parallel() because
//   they use t.Setenv() and modify the package-level IsInContainer variable.

import (
	"strings"
	"testing"
)

func TestForBrowserConnect_InCI(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	t.Setenv("CI", "true")
	t.Setenv("ROD_NO_SANDBOX", "")
	t.Setenv("ROD_BROWSER_BIN", "")

	hint := ForBrowserConnect()

	if !strings.Contains(hint, "hint:") {
		t.Error("expected hint prefix")
	}
	if !strings.Contains(hint, "ROD_NO_SANDBOX") {
		t.Error("expected ROD_NO_SANDBOX suggestion in CI")
	}
	if !strings.Contains(hint, "ROD_BROWSER_BIN") {
		t.Error("expected ROD_BROWSER_BIN suggestion")
	}
}

func TestForBrowserConnect_SandboxAndBinarySet(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	t.Setenv("CI", "")
	t.Setenv("ROD_NO_SANDBOX", "1")
	t.Setenv("ROD_BROWSER_BIN", "/usr/bin/chromium")

	if hint := ForBrowserConnect(); hint != "" {
		t.Errorf("expected no hint, got %q", hint)
	}
}

func TestForConverterNotFound(t *testing.T) {
	t.Run("suggests env override when unset", func(t *testing.T) {
		t.Setenv("MDBOOK_PANDOC", "")

		hint := ForConverterNotFound("pandoc")
		if !strings.Contains(hint, "install pandoc") {
			t.Errorf("hint %q should mention installing pandoc", hint)
		}
		if !strings.Contains(hint, "MDBOOK_PANDOC") {
			t.Errorf("hint %q should mention MDBOOK_PANDOC", hint)
		}
	})

	t.Run("omits env override when set", func(t *testing.T) {
		t.Setenv("MDBOOK_PANDOC", "/opt/pandoc")

		hint := ForConverterNotFound("/opt/pandoc")
		if strings.Contains(hint, "MDBOOK_PANDOC") {
			t.Errorf("hint %q should not mention MDBOOK_PANDOC", hint)
		}
	})

	t.Run("empty command defaults to pandoc", func(t *testing.T) {
		t.Setenv("MDBOOK_PANDOC", "")

		if hint := ForConverterNotFound(""); !strings.Contains(hint, "install pandoc") {
			t.Errorf("hint %q should default to pandoc", hint)
		}
	})
}

func TestStaticHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hint     string
		contains string
	}{
		{name: "pdf engine", hint: ForPDFEngine("xelatex"), contains: "xelatex"},
		{name: "timeout", hint: ForTimeout(), contains: "--timeout"},
		{name: "config with root", hint: ForConfigNotFound("/books/guide/"), contains: "/books/guide/book.yaml"},
		{name: "config without root", hint: ForConfigNotFound(""), contains: "--config"},
		{name: "unsafe destination", hint: ForUnsafeDestination(), contains: "--dest-dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !strings.HasPrefix(tt.hint, "\n  hint: ") {
				t.Errorf("hint %q missing prefix", tt.hint)
			}
			if !strings.Contains(tt.hint, tt.contains) {
				t.Errorf("hint %q does not contain %q", tt.hint, tt.contains)
			}
		})
	}
}

func TestForPDFEngine_Empty(t *testing.T) {
	t.Parallel()

	if got := ForPDFEngine(""); got != "" {
		t.Errorf("ForPDFEngine(\"\") = %q, want empty", got)
	}
}
