package executor

import (
	"sort"
	"strings"
)

// supportedLanguages maps the client-facing language name (lowercased) to the
// runtime name the execution service knows it by.
var supportedLanguages = map[string]string{
	"python":     "python",
	"javascript": "javascript",
	"typescript": "typescript",
	"java":       "java",
	"c":          "c",
	"c++":        "c++",
	"c#":         "csharp",
	"go":         "go",
	"rust":       "rust",
	"ruby":       "ruby",
	"php":        "php",
	"kotlin":     "kotlin",
	"swift":      "swift",
	"bash":       "bash",
}

// RuntimeName resolves a client-facing language name (case-insensitive) to the
// execution service runtime name.
func RuntimeName(language string) (string, bool) {
	name, ok := supportedLanguages[strings.ToLower(strings.TrimSpace(language))]
	return name, ok
}

// Languages returns the sorted list of supported client-facing language names.
func Languages() []string {
	names := make([]string, 0, len(supportedLanguages))
	for name := range supportedLanguages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
