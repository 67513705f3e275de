package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub001/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "gymflow:emails"
	failedQueueKey = "gymflow:emails:failed"
	maxTries       = 3
	retryDelay     = 5 * time.Second
	popTimeout     = 2 * time.Second
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type SMTPConfig struct {
	From     string
	FromName string
	Host     string
	Port     string
	User     string
	Pass     string
}

// Service queues outgoing mail in a Redis list and delivers it from a
// background worker started with Start.
type Service struct {
	redis *redis.Client
	smtp  SMTPConfig
	send  func(cfg SMTPConfig, job EmailJob) error
}

func New(redisAddr string, cfg SMTPConfig) *Service {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: redisAddr}), cfg)
}

func NewWithClient(rdb *redis.Client, cfg SMTPConfig) *Service {
	return &Service{
		redis: rdb,
		smtp:  cfg,
		send:  sendSMTP,
	}
}

func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	job := EmailJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		metrics.RecordEmail("enqueue_failed")
		return fmt.Errorf("queue email: %w", err)
	}

	metrics.RecordEmail("queued")
	logger.Debug("email queued", "subject", subject)
	return nil
}

// Start consumes the queue until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, popTimeout, queueKey).Result()
	if err != nil {
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("bad email job: %v", err)
		return
	}

	s.deliver(ctx, job)
	metrics.EmailQueueLength.Set(float64(s.QueueLength(ctx)))
}

func (s *Service) deliver(ctx context.Context, job EmailJob) {
	job.Tries++
	err := s.send(s.smtp, job)
	if err == nil {
		metrics.RecordEmail("sent")
		logger.Info("email sent", "subject", job.Subject, "attempt", job.Tries)
		return
	}

	logger.WithError(err).Warn("email delivery failed", "attempt", job.Tries)

	if job.Tries >= maxTries {
		metrics.RecordEmail("failed")
		s.saveFailed(ctx, job, err)
		return
	}

	select {
	case <-ctx.Done():
	case <-time.After(retryDelay):
	}

	// Requeue on a fresh context so a shutdown mid-retry does not lose the job.
	data, _ := json.Marshal(job)
	if err := s.redis.LPush(context.Background(), queueKey, string(data)).Err(); err != nil {
		logger.WithError(err).Error("email requeue failed")
	}
}

func (s *Service) saveFailed(ctx context.Context, job EmailJob, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	if err := s.redis.LPush(ctx, failedQueueKey, string(data)).Err(); err != nil {
		logger.WithError(err).Error("could not store failed email")
		return
	}
	logger.Error("email moved to failed queue", "subject", job.Subject)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func sendSMTP(cfg SMTPConfig, job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", cfg.FromName, cfg.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if cfg.User != "" && cfg.Pass != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}

	addr := cfg.Host + ":" + cfg.Port
	return smtp.SendMail(addr, auth, cfg.From, []string{job.To}, []byte(message))
}
