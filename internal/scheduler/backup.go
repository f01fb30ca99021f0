package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"anoa.com/academicrecords/pkg/flatfile"
)

const backupLayout = "20060102-150405"

// BackupJob snapshots every table of a store into a timestamped directory
// under dir and keeps at most retain snapshots.
type BackupJob struct {
	store    *flatfile.Store
	dir      string
	schedule string
	retain   int
	now      func() time.Time
}

func NewBackupJob(store *flatfile.Store, dir, schedule string, retain int) *BackupJob {
	return &BackupJob{
		store:    store,
		dir:      dir,
		schedule: schedule,
		retain:   retain,
		now:      time.Now,
	}
}

func (j *BackupJob) Name() string     { return "backup" }
func (j *BackupJob) Schedule() string { return j.schedule }

func (j *BackupJob) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dst := filepath.Join(j.dir, j.now().Format(backupLayout))
	files, err := j.store.Snapshot(dst)
	if err != nil {
		return fmt.Errorf("snapshot to %s: %w", dst, err)
	}
	log.Printf("[backup] Copied %d file(s) to %s", len(files), dst)

	if j.retain > 0 {
		if err := j.prune(); err != nil {
			log.Printf("[backup] Failed to prune old snapshots: %v", err)
		}
	}
	return nil
}

// prune removes the oldest snapshots beyond the retention count. Snapshot
// names sort chronologically.
func (j *BackupJob) prune() error {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		return err
	}
	var snapshots []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := time.Parse(backupLayout, e.Name()); err == nil {
			snapshots = append(snapshots, e.Name())
		}
	}
	sort.Strings(snapshots)

	for len(snapshots) > j.retain {
		if err := os.RemoveAll(filepath.Join(j.dir, snapshots[0])); err != nil {
			return err
		}
		snapshots = snapshots[1:]
	}
	return nil
}
