// Package site defines the generated static-site file set and its
// deterministic templates.
package site

import "strings"

// FileSet maps filenames to text content. A built set always contains
// exactly the keys index.html, styles.css, script.js, README.md and LICENSE.
type FileSet map[string]string

// Filenames every built FileSet carries.
const (
	FileIndex   = "index.html"
	FileStyles  = "styles.css"
	FileScript  = "script.js"
	FileReadme  = "README.md"
	FileLicense = "LICENSE"
)

// ExtractHTML pulls the page markup out of raw provider output.
// The first ```html fence wins; otherwise the first bare fence is assumed
// to be HTML; otherwise the whole output is used as-is. An empty fence
// body is passed through unchecked.
func ExtractHTML(content string) string {
	if body, ok := fenceBody(content, "```html"); ok {
		return body
	}
	if body, ok := fenceBody(content, "```"); ok {
		return body
	}
	return content
}

func fenceBody(content, open string) (string, bool) {
	start := strings.Index(content, open)
	if start < 0 {
		return "", false
	}
	rest := content[start+len(open):]
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}

// Build assembles the complete file set from accepted provider output.
// The HTML comes from the provider; everything else is templated.
func Build(content, prompt, brief string, checks []string) FileSet {
	return FileSet{
		FileIndex:   ExtractHTML(content),
		FileStyles:  Stylesheet,
		FileScript:  Script(prompt),
		FileReadme:  Readme(brief, checks),
		FileLicense: License,
	}
}
