package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Artifact is a file body destined for path.
type Artifact struct {
	Path string
	Data []byte
}

type staged struct {
	Artifact
	tmpPath string
}

// ReplaceAll writes every artifact to a temporary sibling first and only then
// renames them into place, calling done after each rename. If any artifact
// fails to stage, no existing file is touched.
func ReplaceAll(artifacts []Artifact, done func(path string)) error {
	pending := make([]staged, 0, len(artifacts))
	cleanup := func() {
		for _, s := range pending {
			_ = os.Remove(s.tmpPath)
		}
	}

	for _, a := range artifacts {
		tmpPath, err := stage(a)
		if err != nil {
			cleanup()
			return err
		}
		pending = append(pending, staged{Artifact: a, tmpPath: tmpPath})
	}

	for i, s := range pending {
		if err := os.Rename(s.tmpPath, s.Path); err != nil {
			cleanup()
			return fmt.Errorf("replace %s: %w", s.Path, err)
		}
		pending[i].tmpPath = ""
		if done != nil {
			done(s.Path)
		}
	}
	return nil
}

func stage(a Artifact) (string, error) {
	if dir := filepath.Dir(a.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("ensure output directory: %w", err)
		}
	}
	tmpPath := fmt.Sprintf("%s.%d.tmp", a.Path, time.Now().UnixNano())
	if err := os.WriteFile(tmpPath, a.Data, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write temp %s: %w", a.Path, err)
	}
	return tmpPath, nil
}
