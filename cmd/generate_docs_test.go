package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDocsCmd_MissingPath(t *testing.T) {
	redirectLog(t)

	missing := filepath.Join(t.TempDir(), "absent")

	_, errOut, err := executeRoot(t, "generate-docs", missing, "--plain")
	require.NoError(t, err)

	assert.Contains(t, errOut, "does not exist")
	assert.NoDirExists(t, filepath.Join(missing, "docs"))
}

func TestGenerateDocsCmd_EndToEnd(t *testing.T) {
	redirectLog(t)

	root := writePythonProject(t)
	server := newCompletionServer(t, "```markdown\nDescribes the module.\n```")

	_, _, err := executeRoot(t,
		"generate-docs", root,
		"--endpoint", server.URL,
		"--plain",
	)
	require.NoError(t, err)

	content, readErr := os.ReadFile(filepath.Join(root, "docs", "project_documentation.md"))
	require.NoError(t, readErr)

	doc := string(content)
	assert.Contains(t, doc, "### a.py")
	assert.Contains(t, doc, "### b.py")
	assert.Contains(t, doc, "Describes the module.")
	assert.NotContains(t, doc, "```markdown")
}
