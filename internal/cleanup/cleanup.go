// Package cleanup sweeps the image folders for files no property or
// review references anymore. Best-effort deletes elsewhere in the API
// can leave orphans behind; this is the recovery path.
package cleanup

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"property-portal/internal/database"
	"property-portal/internal/storage"
)

// Service removes orphaned image files on a schedule.
type Service struct {
	db        *database.DB
	store     *storage.Store
	cron      *cron.Cron
	isRunning bool
}

func NewService(db *database.DB, store *storage.Store) *Service {
	return &Service{
		db:    db,
		store: store,
		cron:  cron.New(),
	}
}

// SweepResult holds the outcome of one orphan sweep.
type SweepResult struct {
	Scanned    int       `json:"scanned"`
	Deleted    int       `json:"deleted"`
	Skipped    int       `json:"skipped"`
	DryRun     bool      `json:"dry_run"`
	ExecutedAt time.Time `json:"executed_at"`
	Orphans    []string  `json:"orphans,omitempty"`
}

// Sweep walks both image folders and deletes files that are not
// referenced by any record and are older than the retention window.
// Recent files are skipped so an in-flight upload is never removed.
func (s *Service) Sweep(retention time.Duration, dryRun bool) (*SweepResult, error) {
	result := &SweepResult{
		DryRun:     dryRun,
		ExecutedAt: time.Now(),
	}

	referenced, err := s.db.ReferencedImages()
	if err != nil {
		return nil, fmt.Errorf("failed to collect referenced images: %w", err)
	}

	cutoff := time.Now().Add(-retention)

	for _, dir := range []string{storage.PropertyImagesDir, storage.ReviewImagesDir} {
		entries, err := os.ReadDir(s.store.Dir(dir))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			result.Scanned++

			if _, ok := referenced[entry.Name()]; ok {
				result.Skipped++
				continue
			}

			info, err := entry.Info()
			if err != nil || info.ModTime().After(cutoff) {
				result.Skipped++
				continue
			}

			if dryRun {
				log.Printf("[cleanup] dry-run: would delete %s/%s", dir, entry.Name())
			} else {
				s.store.Delete(dir, entry.Name())
			}
			result.Orphans = append(result.Orphans, entry.Name())
			result.Deleted++
		}
	}

	log.Printf("[cleanup] sweep complete: scanned=%d deleted=%d skipped=%d dry_run=%v",
		result.Scanned, result.Deleted, result.Skipped, dryRun)

	return result, nil
}

// Start schedules a daily sweep at the configured HH:MM.
func (s *Service) Start(dailyRunTime string, retention time.Duration) error {
	cronSpec := parseDailyRunTime(dailyRunTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("[cleanup] starting scheduled orphan sweep")
		if _, err := s.Sweep(retention, false); err != nil {
			log.Printf("[cleanup] scheduled sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("[cleanup] scheduled daily sweep at %s (cron: %s)", dailyRunTime, cronSpec)
	return nil
}

// Stop stops the schedule.
func (s *Service) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("[cleanup] stopped")
	}
}

// parseDailyRunTime converts "HH:MM" into a daily cron spec,
// defaulting to 03:00 when the value is malformed.
func parseDailyRunTime(runTime string) string {
	parts := strings.Split(runTime, ":")
	if len(parts) != 2 {
		return "0 3 * * *"
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "0 3 * * *"
	}
	return fmt.Sprintf("%d %d * * *", minute, hour)
}
