package resume

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFile_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Skills: SQL, Python"), 0600))

	text, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Skills: SQL, Python", text)
}

func TestExtractFile_UnknownExtensionTreatedAsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.md")
	require.NoError(t, os.WriteFile(path, []byte("# Resume"), 0600))

	text, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Resume", text)
}

func TestExtractFile_Missing(t *testing.T) {
	_, err := ExtractFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestExtractPDF_Garbage(t *testing.T) {
	_, err := ExtractPDF([]byte("not a pdf"))
	assert.Error(t, err)
}

func TestExtractDOCX_Garbage(t *testing.T) {
	_, err := ExtractDOCX([]byte("not a docx"))
	assert.Error(t, err)
}
