// Package store writes generated projects to disk. Each run produces one
// dated directory under the output root; the directory is staged in a temp
// location and renamed into place so a failed run never leaves a partial
// artifact behind.
package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dailyforge/internal/blueprint"
	"dailyforge/internal/errors"
)

// DirPrefix is the artifact directory name prefix.
const DirPrefix = "project-"

// maxCollisionAttempts bounds the suffix search. Hitting it means hundreds of
// runs on one day, which is operator error, not a collision.
const maxCollisionAttempts = 1000

// Artifact is the on-disk output of one run. Created once; never mutated or
// deleted by dailyforge.
type Artifact struct {
	// Dir is the absolute or root-relative path of the artifact directory.
	Dir string `json:"dir"`

	// DirName is the final directory name, e.g. "project-2026-08-25" or
	// "project-2026-08-25-2" after a collision.
	DirName string `json:"dir_name"`

	// Files lists the file names written, in stable order.
	Files []string `json:"files"`
}

// DirName returns the artifact directory name for a date with an optional
// collision sequence number (n <= 1 means no suffix).
func DirName(date time.Time, n int) string {
	name := DirPrefix + date.Format("2006-01-02")
	if n > 1 {
		name = fmt.Sprintf("%s-%d", name, n)
	}
	return name
}

// Write stages the blueprint's files in a temp directory under root and
// renames it to the first free dated name. Collisions resolve to the next
// numeric suffix deterministically: project-<date>, project-<date>-2, -3, …
func Write(root string, date time.Time, bp *blueprint.Blueprint) (*Artifact, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.NewArtifactIO(fmt.Errorf("failed to create output root: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate staging name: %w", err))
	}
	staging := filepath.Join(root, ".staging-"+hex.EncodeToString(randBytes))
	if err := os.Mkdir(staging, 0755); err != nil {
		return nil, errors.NewArtifactIO(fmt.Errorf("failed to create staging directory: %w", err))
	}

	// Remove the staging directory on any failure path
	success := false
	defer func() {
		if !success {
			os.RemoveAll(staging)
		}
	}()

	files := bp.Files()
	names := []string{blueprint.FileScript, blueprint.FileRequirements, blueprint.FileReadme}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(staging, name), []byte(files[name]), 0644); err != nil {
			return nil, errors.NewArtifactIO(fmt.Errorf("failed to write %s: %w", name, err))
		}
	}

	for n := 1; n <= maxCollisionAttempts; n++ {
		dirName := DirName(date, n)
		target := filepath.Join(root, dirName)
		if _, err := os.Stat(target); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return nil, errors.NewArtifactIO(err)
		}

		if err := os.Rename(staging, target); err != nil {
			if os.IsExist(err) {
				// Lost the race for this name; try the next suffix
				continue
			}
			return nil, errors.NewArtifactIO(fmt.Errorf("failed to finalize artifact: %w", err))
		}

		success = true
		return &Artifact{
			Dir:     target,
			DirName: dirName,
			Files:   names,
		}, nil
	}

	return nil, errors.NewArtifactIO(fmt.Errorf("no free artifact name after %d attempts", maxCollisionAttempts))
}

// ReadFiles reads the artifact files back from a run directory.
// Returns NOT_FOUND if the directory no longer exists.
func ReadFiles(dir string) (map[string]string, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(dir)
		}
		return nil, errors.NewArtifactIO(err)
	}

	files := make(map[string]string, 3)
	for _, name := range []string{blueprint.FileScript, blueprint.FileRequirements, blueprint.FileReadme} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.NewArtifactIO(err)
		}
		files[name] = string(data)
	}
	return files, nil
}
