package testutil

import (
	"os"
	"testing"
)

// TempDir returns a scratch directory for a test.
// With -testutil.keeptempdirs the directory survives the test run so the
// on-disk layout can be inspected by hand.
func TempDir(t *testing.T) string {
	t.Helper()
	if *FlagKeepTempDirs {
		dir, err := os.MkdirTemp("", "datashelf-test-*")
		if err != nil {
			t.Fatalf("creating temp dir: %s", err)
		}
		t.Logf("keeping temp dir: %s", dir)
		return dir
	}
	return t.TempDir()
}
