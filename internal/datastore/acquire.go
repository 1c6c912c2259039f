package datastore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
)

// EnsureDataset runs the acquisition command in the data directory when no
// partition exists yet. The command is an external collaborator (the Kaggle
// CLI by default); its output goes to the process stdout/stderr.
func (s *Store) EnsureDataset(ctx context.Context, command []string) error {
	if s.HasPartitions() {
		log.Printf("Dataset already present in %s", s.cfg.Dir)
		return nil
	}
	if len(command) == 0 {
		return fmt.Errorf("%w in %s and no download command configured", ErrNoDataFound, s.cfg.Dir)
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir %s: %w", s.cfg.Dir, err)
	}

	log.Printf("No partitions found in %s - running %v", s.cfg.Dir, command)
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = s.cfg.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("dataset download failed: %w", err)
	}

	if !s.HasPartitions() {
		return errors.New("dataset download finished but no partitions were created")
	}
	log.Printf("Dataset downloaded to %s", s.cfg.Dir)
	return nil
}
