// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Job is a unit of background work. An empty Schedule registers the job for
// on-demand runs only.
type Job interface {
	Name() string
	Schedule() string
	Run(ctx context.Context) error
}

type Scheduler struct {
	cron *cron.Cron
	jobs []Job
}

func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		jobs: make([]Job, 0),
	}
}

// Register adds job and schedules it when it has a schedule.
func (s *Scheduler) Register(job Job) error {
	s.jobs = append(s.jobs, job)

	schedule := job.Schedule()
	if schedule == "" {
		log.Printf("[%s] Registered as on-demand job", job.Name())
		return nil
	}

	_, err := s.cron.AddFunc(schedule, func() {
		log.Printf("[%s] Starting scheduled run", job.Name())
		if err := job.Run(context.Background()); err != nil {
			log.Printf("[%s] Run failed: %v", job.Name(), err)
			return
		}
		log.Printf("[%s] Run completed", job.Name())
	})
	if err != nil {
		return fmt.Errorf("schedule %s with %q: %w", job.Name(), schedule, err)
	}
	log.Printf("[%s] Scheduled with cron: %s", job.Name(), schedule)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("Scheduler started with %d job(s)", len(s.jobs))
}

// Stop halts the schedule and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("Scheduler stopped")
}

// RunByName runs a registered job immediately.
func (s *Scheduler) RunByName(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name() == name {
			log.Printf("[%s] Running on demand", name)
			return job.Run(ctx)
		}
	}
	return fmt.Errorf("job %q not registered", name)
}

func (s *Scheduler) Jobs() []string {
	names := make([]string, len(s.jobs))
	for i, job := range s.jobs {
		names[i] = job.Name()
	}
	return names
}
