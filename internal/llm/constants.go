package llm

import (
	"path/filepath"
	"strings"
)

// fenceLanguages maps file extensions to Markdown code fence languages.
var fenceLanguages = map[string]string{
	".go":    "go",
	".js":    "javascript",
	".jsx":   "jsx",
	".ts":    "typescript",
	".tsx":   "tsx",
	".py":    "python",
	".java":  "java",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".rs":    "rust",
	".rb":    "ruby",
	".php":   "php",
	".cs":    "csharp",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
	".html":  "html",
	".css":   "css",
	".sql":   "sql",
	".sh":    "bash",
}

// fenceLanguage returns the code fence hint for path, or "" when unknown.
func fenceLanguage(path string) string {
	return fenceLanguages[strings.ToLower(filepath.Ext(path))]
}
