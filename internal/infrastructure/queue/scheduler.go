package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"recycle-rewards-backend/internal/config"
	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/utils"
	"recycle-rewards-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisOpt asynq.RedisConnOpt, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

// RegisterJobs registers every periodic task. Cron specs come from JobConfig.
func (s *Scheduler) RegisterJobs() error {
	for _, entry := range s.entries() {
		if err := s.register(entry); err != nil {
			return err
		}
	}
	return nil
}

type periodicJob struct {
	name    string
	cron    string
	task    string
	payload interface{}
	opts    []asynq.Option
}

func (s *Scheduler) entries() []periodicJob {
	return []periodicJob{
		{
			// full scan of users.points against the ledger
			name:    "LedgerReconcile",
			cron:    s.jobConfig.ReconcileCron,
			task:    shared.TypeLedgerReconcile,
			payload: shared.ReconcilePayload{RequestedBy: "scheduler"},
			opts: []asynq.Option{
				asynq.Queue(shared.QueueDefault),
				asynq.MaxRetry(3),
				asynq.Timeout(5 * time.Minute),
			},
		},
		{
			name:    "CleanupOldNotifications",
			cron:    s.jobConfig.CleanupCron,
			task:    shared.TypeCleanupOldNotifications,
			payload: shared.CleanupPayload{Days: s.jobConfig.CleanupRetentionDays},
			opts: []asynq.Option{
				asynq.Queue(shared.QueueLow),
				asynq.MaxRetry(2),
				asynq.Timeout(10 * time.Minute),
			},
		},
	}
}

func (s *Scheduler) register(j periodicJob) error {
	task, err := utils.MarshalTask(j.task, j.payload)
	if err != nil {
		return err
	}

	if _, err := s.scheduler.Register(j.cron, task, j.opts...); err != nil {
		logger.Error("Failed to register "+j.name+" job", err)
		return err
	}

	logger.Info("Registered periodic job", map[string]interface{}{
		"job":  j.name,
		"cron": j.cron,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
