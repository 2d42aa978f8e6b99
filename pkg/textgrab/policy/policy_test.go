package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() *Policy {
	return &Policy{
		MaxFileSize: 8192,
		SizeLimits: map[string]int64{
			".log": 16384,
			".md":  65536,
		},
		ExcludedExtensions:  NewExtensionSet([]string{".exe", ".png", ".zip"}),
		ExcludedDirectories: NewSet([]string{"node_modules", ".git", "__pycache__"}),
		ExcludedFiles:       NewSet([]string{".DS_Store", "Thumbs.db"}),
		TextExtensions:      NewExtensionSet([]string{".txt", ".go", ".md"}),
	}
}

func TestShouldProcessFile(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		hidden bool
		want   bool
	}{
		{name: "plain text file", path: "/src/main.go", want: true},
		{name: "hidden file rejected", path: "/src/.env", want: false},
		{name: "hidden file allowed when enabled", path: "/src/.env", hidden: true, want: true},
		{name: "excluded name", path: "/src/Thumbs.db", want: false},
		{name: "excluded extension", path: "/src/app.exe", want: false},
		{name: "excluded extension uppercase", path: "/src/APP.EXE", want: false},
		{name: "no extension", path: "/src/Makefile", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPolicy()
			p.IncludeHiddenFiles = tt.hidden
			assert.Equal(t, tt.want, p.ShouldProcessFile(tt.path))
		})
	}
}

func TestShouldProcessFilePrecedence(t *testing.T) {
	// Excluded names win even when hidden files are enabled.
	p := testPolicy()
	p.IncludeHiddenFiles = true
	p.ExcludedFiles[".gitignore"] = struct{}{}
	assert.False(t, p.ShouldProcessFile("/repo/.gitignore"))
}

func TestShouldEnterDirectory(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		hidden bool
		want   bool
	}{
		{name: "plain dir", path: "/src/internal", want: true},
		{name: "hidden dir pruned", path: "/src/.cache", want: false},
		{name: "hidden dir allowed when enabled", path: "/src/.cache", hidden: true, want: true},
		{name: "excluded dir", path: "/src/node_modules", want: false},
		{name: "excluded dir is case sensitive", path: "/src/Node_Modules", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPolicy()
			p.IncludeHiddenDirs = tt.hidden
			assert.Equal(t, tt.want, p.ShouldEnterDirectory(tt.path))
		})
	}
}

func TestSizeLimitFor(t *testing.T) {
	p := testPolicy()

	assert.Equal(t, int64(16384), p.SizeLimitFor("/var/log/app.log"))
	assert.Equal(t, int64(65536), p.SizeLimitFor("/doc/README.MD"))
	assert.Equal(t, int64(8192), p.SizeLimitFor("/src/main.go"))
}

func TestIsKnownTextExtension(t *testing.T) {
	p := testPolicy()

	assert.True(t, p.IsKnownTextExtension("/src/main.go"))
	assert.True(t, p.IsKnownTextExtension("/src/NOTES.TXT"))
	assert.False(t, p.IsKnownTextExtension("/src/photo.raw"))
}

func TestSnapshotIsolation(t *testing.T) {
	p := testPolicy()
	snap := p.Snapshot()

	// Mutations on the original must not leak into the snapshot.
	p.ExcludedDirectories["vendor"] = struct{}{}
	p.SizeLimits[".log"] = 1
	p.IncludeHiddenFiles = true

	assert.False(t, snap.IncludeHiddenFiles)
	assert.True(t, snap.ShouldEnterDirectory("/x/vendor"))
	assert.Equal(t, int64(16384), snap.SizeLimitFor("/x/a.log"))
}

func TestNewExtensionSet(t *testing.T) {
	set := NewExtensionSet([]string{"txt", ".GO", " md ", ""})

	require.Len(t, set, 3)
	assert.Contains(t, set, ".txt")
	assert.Contains(t, set, ".go")
	assert.Contains(t, set, ".md")
}
