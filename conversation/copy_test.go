package conversation_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stocksense/procurebot/conversation"
)

func TestLoadCopyEmptyPathReturnsDefaults(t *testing.T) {
	copyCatalog, err := conversation.LoadCopy("")
	require.NoError(t, err)
	require.Equal(t, conversation.DefaultCopy(), copyCatalog)
}

func TestLoadCopyOverridesEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "copy.yaml")
	override := "welcome: \"Здравствуйте!\"\nupload_ok: \"Готово.\"\n"
	require.NoError(t, os.WriteFile(path, []byte(override), 0o644))

	copyCatalog, err := conversation.LoadCopy(path)
	require.NoError(t, err)

	require.Equal(t, "Здравствуйте!", copyCatalog.Welcome)
	require.Equal(t, "Готово.", copyCatalog.UploadOK)
	// Entries the file does not name keep their defaults.
	require.Equal(t, conversation.DefaultCopy().MenuPrompt, copyCatalog.MenuPrompt)
}

func TestLoadCopyMissingFile(t *testing.T) {
	_, err := conversation.LoadCopy(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadCopyMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "copy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("welcome: [unclosed"), 0o644))

	_, err := conversation.LoadCopy(path)
	require.Error(t, err)
}
