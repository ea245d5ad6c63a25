package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LBRJanssen/aondetaorole-sub000/internal/logger"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/metrics"
)

const (
	queueKey  = "notifications"
	failedKey = "notifications:failed"
)

type Job struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

func (s *Service) Queue(ctx context.Context, jobType, to, name, subject, body string) error {
	job := Job{
		Type:    jobType,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Tries:   0,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal notification job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue notification to %s: %v", to, err)
		metrics.RecordNotification(jobType, "queue_error")
		return err
	}

	logger.Infof("Notification queued: %s to %s", subject, to)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification service started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return
	}

	job.Tries++
	logger.Infof("Sending notification to %s (attempt %d)", job.To, job.Tries)
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send notification to %s: %v", job.To, err)

		if job.Tries < 3 {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, string(data))
			logger.Infof("Retrying notification to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			logger.Errorf("Notification to %s failed after 3 attempts", job.To)
			metrics.RecordNotification(job.Type, "failed")
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordNotification(job.Type, "sent")
	logger.Infof("Notification sent successfully to %s", job.To)
}

func (s *Service) sendNow(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job Job, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedKey, string(data))
	logger.Errorf("Notification moved to failed queue: %s", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) QueueTicketReceipt(ctx context.Context, email, orderID string, totalCents int64) error {
	subject := "Ingresso confirmado"
	body := fmt.Sprintf(`Oi,

Seu ingresso está garantido!

Pedido: %s
Total: R$ %d,%02d

Bora pro rolê!

- Equipe Aonde Tá O Rolê`, orderID, totalCents/100, totalCents%100)

	return s.Queue(ctx, "ticket_receipt", email, "", subject, body)
}

func (s *Service) QueueBoostReceipt(ctx context.Context, email, boostType string, totalCents int64) error {
	subject := "Boost ativado"
	body := fmt.Sprintf(`Oi,

Seu boost de %s foi ativado.

Total: R$ %d,%02d

- Equipe Aonde Tá O Rolê`, boostType, totalCents/100, totalCents%100)

	return s.Queue(ctx, "boost_receipt", email, "", subject, body)
}

func (s *Service) QueueWithdrawalDecision(ctx context.Context, email string, amountCents int64, approved bool) error {
	var subject, outcome string
	if approved {
		subject = "Saque aprovado"
		outcome = "foi aprovado e está a caminho"
	} else {
		subject = "Saque recusado"
		outcome = "foi recusado e o valor voltou para sua carteira"
	}

	body := fmt.Sprintf(`Oi,

Seu saque de R$ %d,%02d %s.

- Equipe Aonde Tá O Rolê`, amountCents/100, amountCents%100, outcome)

	return s.Queue(ctx, "withdrawal_decision", email, "", subject, body)
}
