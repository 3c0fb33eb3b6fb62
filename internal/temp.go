package internal

import (
	"fmt"
	cp "github.com/otiai10/copy"
	"os"
	"path/filepath"
)

func CreateTempFolder(profileName string) (string, error) {
	return os.MkdirTemp(os.TempDir(), "incbundle-"+profileName+"-")
}

// Publish copies everything staged in stageDir into outDir, replacing files with the same name.
func Publish(stageDir, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("error creating output folder '%s': %w", outDir, err)
	}
	return cp.Copy(stageDir, outDir, cp.Options{
		OnDirExists: func(src, dest string) cp.DirExistsAction {
			return cp.Merge
		},
		PermissionControl: cp.AddPermission(0o644),
	})
}

// StagePath is where an output file is written inside the staging folder.
func StagePath(stageDir, filename string) string {
	return filepath.Join(stageDir, filename)
}
