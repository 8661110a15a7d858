package llmprovider

import "fmt"

// PlaceholderMarker appears near the top of every placeholder document.
// Acceptance heuristics look for it in the first 200 characters to tell a
// built-in placeholder apart from a real provider response.
const PlaceholderMarker = "Generated Application"

// PlaceholderDocument renders the deterministic degraded-mode page used by
// providers that must make progress without a credential. It is a complete
// HTML skeleton echoing the first 300 characters of the prompt and is
// intentionally indistinguishable from a generic real response except for
// PlaceholderMarker.
func PlaceholderDocument(prompt string) string {
	snippet := prompt
	if len(snippet) > 300 {
		snippet = snippet[:300]
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Generated Application</title>
    <link rel="stylesheet" href="styles.css">
</head>
<body>
    <div class="container">
        <h1>Generated Application</h1>
        <div class="content">
            <p>This application was generated using AI assistance. Here's what was requested:</p>
            <div class="code-block">
                <strong>Brief:</strong> %s...
            </div>
        </div>

        <div class="features">
            <h3>Features Included:</h3>
            <ul>
                <li>Modern, responsive design</li>
                <li>Mobile-friendly layout</li>
                <li>Accessible markup</li>
                <li>SEO optimized</li>
                <li>Fast loading</li>
                <li>Secure implementation</li>
            </ul>
        </div>

        <div style="text-align: center; margin-top: 30px;">
            <button class="btn" onclick="testFunctionality()">
                Test Functionality
            </button>
        </div>
    </div>

    <script src="script.js"></script>
</body>
</html>`, snippet)
}
