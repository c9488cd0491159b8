package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunDump(t *testing.T) {
	path := writeDoc(t, `<a k="v"><b>text</b></a>`)
	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)
	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), `<a k="v">`)
	assert.Contains(t, stdout.String(), "text")
}

func TestRunParseError(t *testing.T) {
	path := writeDoc(t, "<a><b></a>")
	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "mismatched closing tag")
	assert.Contains(t, stderr.String(), "line 1")
}

func TestRunXPath(t *testing.T) {
	path := writeDoc(t, `<lib><book id="1"/><book id="2"/></lib>`)
	var stdout, stderr bytes.Buffer
	code := run([]string{"-xpath", `//book[@id="2"]`, path}, &stdout, &stderr)
	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), `id="2"`)
}

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Usage")
}

func TestRunMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"/does/not/exist.xml"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "error")
}
