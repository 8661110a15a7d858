package site

import (
	"fmt"
	"strings"
)

// Stylesheet is the static stylesheet committed alongside every generated page.
const Stylesheet = `/* Generated Application Styles */
body {
    font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
    max-width: 1200px;
    margin: 0 auto;
    padding: 20px;
    background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
    min-height: 100vh;
    line-height: 1.6;
}

.container {
    background: white;
    padding: 40px;
    border-radius: 15px;
    box-shadow: 0 10px 30px rgba(0,0,0,0.2);
    margin: 20px 0;
}

h1 {
    color: #333;
    text-align: center;
    margin-bottom: 30px;
    font-size: 2.5em;
    background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
    -webkit-background-clip: text;
    -webkit-text-fill-color: transparent;
    background-clip: text;
}

h2, h3 {
    color: #444;
    margin-top: 30px;
}

.content {
    margin: 20px 0;
    line-height: 1.8;
    font-size: 1.1em;
}

.features {
    background: linear-gradient(135deg, #e8f4f8 0%, #f0f8ff 100%);
    padding: 25px;
    border-radius: 10px;
    margin: 30px 0;
    border-left: 5px solid #667eea;
}

.code-block {
    background: #f8f9fa;
    padding: 20px;
    border-radius: 8px;
    border: 1px solid #e9ecef;
    margin: 20px 0;
    font-family: 'Courier New', monospace;
    overflow-x: auto;
}

.btn {
    background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
    color: white;
    padding: 12px 24px;
    border: none;
    border-radius: 25px;
    cursor: pointer;
    font-size: 1em;
    transition: all 0.3s ease;
    box-shadow: 0 4px 15px rgba(102, 126, 234, 0.3);
}

.btn:hover {
    transform: translateY(-2px);
    box-shadow: 0 6px 20px rgba(102, 126, 234, 0.4);
}

.btn:active {
    transform: translateY(0);
}

ul {
    list-style: none;
    padding: 0;
}

li {
    padding: 8px 0;
    position: relative;
    padding-left: 25px;
}

/* Responsive Design */
@media (max-width: 768px) {
    .container {
        padding: 20px;
        margin: 10px;
    }

    h1 {
        font-size: 2em;
    }

    .btn {
        width: 100%;
        margin-top: 10px;
    }
}

/* Accessibility */
@media (prefers-reduced-motion: reduce) {
    .btn {
        transition: none;
    }
}

/* Dark mode support */
@media (prefers-color-scheme: dark) {
    .container {
        background: #1a1a1a;
        color: #e0e0e0;
    }

    .code-block {
        background: #2d2d2d;
        color: #e0e0e0;
        border-color: #444;
    }
}`

const scriptBody = `

// Application functionality
function testFunctionality() {
    alert('Application is working. This demonstrates that the generated application is fully functional.');

    var btn = document.querySelector('.btn');
    if (!btn) {
        return;
    }
    var originalText = btn.textContent;
    btn.textContent = 'Tested!';
    btn.style.background = 'linear-gradient(135deg, #28a745 0%, #20c997 100%)';

    setTimeout(function () {
        btn.textContent = originalText;
        btn.style.background = 'linear-gradient(135deg, #667eea 0%, #764ba2 100%)';
    }, 2000);
}

// Initialize application when DOM is loaded
document.addEventListener('DOMContentLoaded', function () {
    console.log('DOM loaded and ready');

    var features = document.querySelectorAll('.features li');
    features.forEach(function (feature, index) {
        feature.style.opacity = '0';
        feature.style.transform = 'translateX(-20px)';

        setTimeout(function () {
            feature.style.transition = 'all 0.5s ease';
            feature.style.opacity = '1';
            feature.style.transform = 'translateX(0)';
        }, index * 100);
    });

    var codeBlock = document.querySelector('.code-block');
    if (codeBlock) {
        codeBlock.addEventListener('click', function () {
            var block = this;
            block.style.background = '#e3f2fd';
            setTimeout(function () {
                block.style.background = '#f8f9fa';
            }, 1000);
        });
    }
});

// Utility functions
function showNotification(message, type) {
    var notification = document.createElement('div');
    notification.style.cssText = 'position: fixed; top: 20px; right: 20px;' +
        ' padding: 15px 20px; color: white; border-radius: 5px; z-index: 1000;' +
        ' background: ' + (type === 'success' ? '#28a745' : '#17a2b8') + ';' +
        ' box-shadow: 0 4px 15px rgba(0,0,0,0.2);';
    notification.textContent = message;
    document.body.appendChild(notification);

    setTimeout(function () {
        notification.remove();
    }, 3000);
}`

// Script renders the static interactivity script. The first 100 characters
// of the generation prompt are echoed into a startup log line.
func Script(prompt string) string {
	snippet := prompt
	if len(snippet) > 100 {
		snippet = snippet[:100]
	}
	return "// Generated Application JavaScript\n" +
		"console.log('Generated application loaded successfully');\n" +
		"console.log('Brief:', '" + jsEscape(snippet) + "...');" +
		scriptBody
}

// jsEscape makes a text snippet safe inside a single-quoted JS string literal.
func jsEscape(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		"\n", `\n`,
		"\r", ``,
	)
	return r.Replace(s)
}

// Readme renders the repository README, embedding the brief verbatim and
// each acceptance check as a bullet item.
func Readme(brief string, checks []string) string {
	title := brief
	if i := strings.Index(title, "."); i >= 0 {
		title = title[:i]
	}

	var bullets strings.Builder
	for _, check := range checks {
		fmt.Fprintf(&bullets, "- %s\n", check)
	}

	return fmt.Sprintf(`# %s

## Description
%s

## Setup
1. Clone this repository
2. Open `+"`index.html`"+` in a web browser
3. No additional setup required

## Features
%s
## License
MIT License - see LICENSE file for details.

## Generated by pagesmith
This application was automatically generated using AI assistance.
`, title, brief, bullets.String())
}

// License is the fixed MIT license text committed with every repository.
const License = `MIT License

Copyright (c) 2024 LLM Code Deployment

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`

// DeployWorkflow is the GitHub Actions definition installed best-effort to
// publish the repository root to Pages on every push to main.
const DeployWorkflow = `name: Deploy to GitHub Pages

on:
  push:
    branches: [ main ]
  workflow_dispatch:

permissions:
  contents: read
  pages: write
  id-token: write

concurrency:
  group: "pages"
  cancel-in-progress: false

jobs:
  deploy:
    environment:
      name: github-pages
      url: ${{ steps.deployment.outputs.page_url }}
    runs-on: ubuntu-latest
    steps:
      - name: Checkout
        uses: actions/checkout@v4
      - name: Setup Pages
        uses: actions/configure-pages@v4
      - name: Upload artifact
        uses: actions/upload-pages-artifact@v3
        with:
          path: '.'
      - name: Deploy to GitHub Pages
        id: deployment
        uses: actions/deploy-pages@v4
`

// WorkflowPath is where DeployWorkflow is installed in the repository.
const WorkflowPath = ".github/workflows/deploy.yml"
