// Package config provides configuration management for the textgrab scanner.
package config

// Default configuration values for textgrab.
const (
	// DefaultMaxFileSize is the default cap on how much content is read
	// from a single file.
	DefaultMaxFileSize = "8KiB"

	// DefaultWorkers is the default number of scan workers.
	DefaultWorkers = 4

	// DefaultChunkSize is the chunk size in bytes for streaming reads.
	DefaultChunkSize = 4096

	// DefaultCacheSize is the in-memory verdict cache capacity.
	DefaultCacheSize = 1000

	// DefaultFormat is the output format used when none is specified.
	DefaultFormat = "txt"

	// DefaultCompression is the codec applied to written reports.
	DefaultCompression = "gzip"

	// DefaultCompressionLevel balances speed and ratio.
	DefaultCompressionLevel = 6
)

// DefaultSizeLimits maps extensions to per-type read caps that override
// the global maximum. Formats that tend to be useful in bulk get more room.
var DefaultSizeLimits = map[string]string{
	".log":  "16KiB",
	".txt":  "32KiB",
	".md":   "64KiB",
	".json": "128KiB",
}

// DefaultExcludedExtensions rejects files that are binary by construction,
// so no content sniffing is wasted on them.
var DefaultExcludedExtensions = []string{
	// Compiled / binary
	".pyc", ".pyo", ".pyd", ".so", ".dll", ".dylib", ".exe",
	// Archives
	".zip", ".tar", ".gz", ".bz2", ".xz", ".7z", ".rar",
	// Images
	".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".svg",
	// Audio / video
	".mp3", ".wav", ".flac", ".mp4", ".avi", ".mkv", ".mov",
	// Binary documents
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	// Databases
	".db", ".sqlite", ".sqlite3",
}

// DefaultExcludedDirectories prunes dependency trees, VCS metadata and
// build artifacts.
var DefaultExcludedDirectories = []string{
	".git", ".svn", ".hg", ".bzr",
	"node_modules", "venv", "env", "__pycache__", "target",
	".vscode", ".idea", ".eclipse", "bin", "obj",
	"build", "dist", ".gradle", ".maven",
	".DS_Store", "Thumbs.db", "$RECYCLE.BIN",
}

// DefaultExcludedFiles rejects well-known noise files by exact name.
var DefaultExcludedFiles = []string{
	".DS_Store", "Thumbs.db", ".gitignore", ".gitkeep",
	"desktop.ini", ".directory",
}

// DefaultTextExtensions is the known-text set used by the classifier
// fast path. Files matching it are accepted without content sniffing.
var DefaultTextExtensions = []string{
	// Programming languages
	".py", ".pyw", ".js", ".jsx", ".ts", ".tsx", ".html", ".htm",
	".css", ".scss", ".sass", ".less", ".json", ".xml", ".yaml", ".yml",
	".c", ".h", ".cpp", ".hpp", ".cc", ".cxx", ".java", ".kt", ".scala",
	".rb", ".php", ".go", ".rs", ".swift", ".dart", ".r", ".m", ".mm",
	".pl", ".pm", ".sh", ".bash", ".zsh", ".fish", ".ps1", ".bat", ".cmd",
	".sql", ".lua", ".tcl", ".vb", ".vbs", ".asm", ".s",

	// Configuration
	".ini", ".cfg", ".conf", ".config", ".toml", ".properties",
	".env", ".profile", ".bashrc", ".zshrc", ".vimrc",

	// Documentation
	".md", ".rst", ".txt", ".text", ".rtf", ".tex", ".latex",
	".adoc", ".asciidoc", ".org",

	// Data
	".csv", ".tsv", ".log", ".out", ".err",

	// Web templates
	".vue", ".svelte", ".ejs", ".hbs", ".mustache", ".twig",

	// Markup
	".xhtml", ".xsl", ".xslt", ".dtd", ".rss", ".atom",

	// Build and automation
	".awk", ".sed", ".makefile", ".mk", ".cmake", ".dockerfile",

	// Other text formats
	".diff", ".patch", ".gitignore", ".gitattributes",
	".editorconfig", ".prettierrc", ".eslintrc",
}
