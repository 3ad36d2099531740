package scheduler

import (
	"context"
	"log"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/nubuzz/nubuzz/internal/pkg/env"
	"github.com/nubuzz/nubuzz/internal/pkg/ingest"
)

// Scheduler runs periodic ingest passes. It is opt-in: without a
// FETCH_NEWS_CRON expression, re-ingestion stays externally triggered.
type Scheduler struct {
	cron *cron.Cron
}

// Start schedules ingest per FETCH_NEWS_CRON and returns nil when the
// variable is unset. FETCH_NEWS_CATEGORIES may hold a comma-separated list
// of categories to cycle through; empty means uncategorized top headlines.
func Start(svc *ingest.Service) *Scheduler {
	spec := env.GetEnv("FETCH_NEWS_CRON", "")
	if spec == "" {
		return nil
	}

	categories := splitCategories(env.GetEnv("FETCH_NEWS_CATEGORIES", ""))

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		for _, category := range categories {
			if _, err := svc.Run(context.Background(), category); err != nil {
				log.Printf("scheduled ingest (category %q) failed: %v", category, err)
			}
		}
	})
	if err != nil {
		log.Printf("invalid FETCH_NEWS_CRON %q: %v", spec, err)
		return nil
	}

	c.Start()
	log.Printf("scheduled news ingest: %s", spec)
	return &Scheduler{cron: c}
}

// Stop halts the schedule and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	<-s.cron.Stop().Done()
}

func splitCategories(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{""}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}
