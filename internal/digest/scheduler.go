package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/super-blog/internal/config"
	"github.com/Dan9191/super-blog/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// PostSource is the subset of the backend client the digest reads from
type PostSource interface {
	GetAllPosts(ctx context.Context) []models.Post
}

// Mailer delivers a digest
type Mailer interface {
	SendDigest(to []string, posts []models.Post, now time.Time) error
}

// Scheduler runs the digest job on a cron schedule
type Scheduler struct {
	cron       *cron.Cron
	posts      PostSource
	mailer     Mailer
	recipients []string
	log        *logrus.Logger
	now        func() time.Time
}

// NewScheduler registers the digest job. It returns nil when no schedule is configured.
func NewScheduler(cfg *config.Config, posts PostSource, mailer Mailer, log *logrus.Logger) (*Scheduler, error) {
	if cfg.DigestSchedule == "" {
		return nil, nil
	}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cron.PrintfLogger(log)),
			cron.WithChain(cron.Recover(cron.PrintfLogger(log))),
		),
		posts:      posts,
		mailer:     mailer,
		recipients: cfg.DigestRecipients,
		log:        log,
		now:        time.Now,
	}

	if _, err := s.cron.AddFunc(cfg.DigestSchedule, s.runJob); err != nil {
		return nil, fmt.Errorf("invalid DIGEST_SCHEDULE %q: %w", cfg.DigestSchedule, err)
	}
	return s, nil
}

// Start begins running the job in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("Digest scheduled for %d recipients", len(s.recipients))
}

// Stop halts the schedule and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runJob() {
	if err := s.Run(context.Background()); err != nil {
		s.log.Errorf("Digest run failed: %v", err)
	}
}

// Run fetches the posts and mails them; an empty list sends nothing
func (s *Scheduler) Run(ctx context.Context) error {
	posts := s.posts.GetAllPosts(ctx)
	if len(posts) == 0 {
		s.log.Infof("Digest skipped: no posts")
		return nil
	}
	return s.mailer.SendDigest(s.recipients, posts, s.now())
}
