package theme

import (
	"bytes"
	"errors"
	"testing"
)

func TestEmbeddedLoader_LoadFile(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name     string
		file     string
		contains string
		wantErr  error
	}{
		{name: "book stylesheet", file: CSSFile, contains: ".sidebar"},
		{name: "favicon is a PNG", file: FaviconFile, contains: "\x89PNG"},
		{name: "page template", file: PageTemplateFile, contains: "{{ .Content }}"},
		{name: "highlight generated by chroma", file: HighlightFile, contains: ".chroma"},
		{name: "tomorrow night generated by chroma", file: TomorrowNightFile, contains: ".chroma"},
		{name: "ayu generated by chroma", file: AyuHighlightFile, contains: ".chroma"},
		{name: "unknown file", file: "print.css", wantErr: ErrInvalidAssetName},
		{name: "empty name", file: "", wantErr: ErrInvalidAssetName},
		{name: "traversal", file: "../../etc/passwd", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadFile(tt.file)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadFile(%q) error = %v, want %v", tt.file, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFile(%q) error = %v", tt.file, err)
			}
			if !bytes.Contains(got, []byte(tt.contains)) {
				t.Errorf("LoadFile(%q) does not contain %q", tt.file, tt.contains)
			}
		})
	}
}

func TestEmbeddedLoader_HighlightStylesDiffer(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()
	light, err := loader.LoadFile(HighlightFile)
	if err != nil {
		t.Fatal(err)
	}
	dark, err := loader.LoadFile(TomorrowNightFile)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(light, dark) {
		t.Error("expected distinct stylesheets for distinct chroma styles")
	}
}
