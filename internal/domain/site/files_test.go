package site

import (
	"strings"
	"testing"
)

func TestExtractHTML(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			"html fence",
			"Here is your page:\n```html\n<!DOCTYPE html><html></html>\n```\nEnjoy!",
			"<!DOCTYPE html><html></html>",
		},
		{
			"bare fence",
			"```\n<html><body>hi</body></html>\n```",
			"<html><body>hi</body></html>",
		},
		{
			"html fence wins over bare fence",
			"```\nnot this\n```\n```html\n<html>this</html>\n```",
			"<html>this</html>",
		},
		{
			"no fence passes through",
			"<!DOCTYPE html><html><body>raw</body></html>",
			"<!DOCTYPE html><html><body>raw</body></html>",
		},
		{
			"unterminated fence takes the rest",
			"```html\n<html><body>tail",
			"<html><body>tail",
		},
		{
			"surrounding whitespace trimmed",
			"```html\n\n  <html></html>\n\n```",
			"<html></html>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractHTML(tt.content)
			if got != tt.want {
				t.Errorf("ExtractHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildFileSet(t *testing.T) {
	checks := []string{"has a form", "renders markdown"}
	files := Build("```html\n<html></html>\n```", "the prompt", "Build a converter. Make it fast.", checks)

	wantKeys := []string{FileIndex, FileStyles, FileScript, FileReadme, FileLicense}
	if len(files) != len(wantKeys) {
		t.Fatalf("expected %d files, got %d", len(wantKeys), len(files))
	}
	for _, key := range wantKeys {
		if files[key] == "" {
			t.Errorf("file %s is missing or empty", key)
		}
	}

	if files[FileIndex] != "<html></html>" {
		t.Errorf("index content = %q", files[FileIndex])
	}
	if !strings.Contains(files[FileLicense], "MIT License") {
		t.Error("license is not MIT")
	}
}

func TestReadme(t *testing.T) {
	brief := "Build a markdown converter. It should be fast."
	readme := Readme(brief, []string{"converts headings", "handles lists"})

	if !strings.HasPrefix(readme, "# Build a markdown converter\n") {
		t.Errorf("title not derived from first sentence: %q", readme[:40])
	}
	if !strings.Contains(readme, brief) {
		t.Error("brief not embedded verbatim")
	}
	if !strings.Contains(readme, "- converts headings\n") || !strings.Contains(readme, "- handles lists\n") {
		t.Error("checks not rendered as bullets")
	}
}

func TestScriptEchoesPrompt(t *testing.T) {
	long := strings.Repeat("x", 150)
	script := Script(long)

	if !strings.Contains(script, strings.Repeat("x", 100)+"...") {
		t.Error("prompt snippet not truncated to 100 characters")
	}
	if strings.Contains(script, strings.Repeat("x", 101)) {
		t.Error("prompt snippet exceeds 100 characters")
	}

	quoted := Script("it's got 'quotes'")
	if strings.Contains(quoted, "'it's") {
		t.Error("single quotes not escaped for the JS literal")
	}
}
