package notifications

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MimoJanra/SitePulse/internal/metrics"
	"github.com/MimoJanra/SitePulse/internal/models"
)

type EmailSender interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
}

type WebhookPoster interface {
	Post(ctx context.Context, webhookURL, text string) error
}

type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// DefaultDispatchTimeout caps how long Dispatch waits for one incident's alerts.
const DefaultDispatchTimeout = 30 * time.Second

// Options wires channel senders into a Dispatcher. A nil sender disables
// its channel.
type Options struct {
	Email  EmailSender
	Slack  WebhookPoster
	SMS    SMSSender
	AppURL string
	// Timeout bounds one Dispatch call, retries included.
	Timeout time.Duration
	Logger  *logrus.Logger
	Metrics *metrics.Metrics
}

type Dispatcher struct {
	email   EmailSender
	slack   WebhookPoster
	sms     SMSSender
	appURL  string
	timeout time.Duration
	logger  *logrus.Logger
	metrics *metrics.Metrics
}

func NewDispatcher(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}
	return &Dispatcher{
		email:   opts.Email,
		slack:   opts.Slack,
		sms:     opts.SMS,
		appURL:  opts.AppURL,
		timeout: timeout,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// Dispatch alerts every contact about a newly opened incident. Each
// destination is sent independently; failures are logged and never
// returned. Dispatch waits for all sends, but never longer than the
// dispatcher timeout; sends still running then are cancelled.
func (d *Dispatcher) Dispatch(ctx context.Context, inc models.Incident, site models.Site, triggeringError *string, contacts []models.Contact) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	alert := newAlert(d.appURL, inc, site, triggeringError)
	recipients := PartitionContacts(contacts)
	log := d.logger.WithFields(logrus.Fields{
		"incident_id": inc.ID,
		"site_id":     site.ID,
	})

	for _, c := range recipients.Unknown {
		log.WithField("contact_id", c.ID).Warnf("Ignoring contact with unsupported type %q", c.Type)
	}

	var wg sync.WaitGroup
	deliver := func(channel, destination string, send func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := d.safeSend(send)
			d.metrics.ObserveDelivery(channel, err)
			entry := log.WithFields(logrus.Fields{"channel": channel, "destination": destination})
			if err != nil {
				entry.WithError(err).Error("Failed to deliver incident alert")
				return
			}
			entry.Info("Incident alert delivered")
		}()
	}

	if len(recipients.Emails) > 0 {
		if d.email == nil {
			log.Warn("Email contacts configured but no email sender; skipping email alerts")
		} else {
			subject := formatEmailSubject(alert)
			body := formatEmailBody(alert)
			to := recipients.Emails
			deliver("email", fmt.Sprintf("%d recipients", len(to)), func() error {
				return d.email.Send(ctx, to, subject, body)
			})
		}
	}

	if len(recipients.SlackWebhooks) > 0 {
		if d.slack == nil {
			log.Warn("Slack contacts configured but no Slack sender; skipping Slack alerts")
		} else {
			text := formatSlackMessage(alert)
			for _, webhook := range recipients.SlackWebhooks {
				webhook := webhook
				deliver("slack", redactWebhook(webhook), func() error {
					return d.slack.Post(ctx, webhook, text)
				})
			}
		}
	}

	if len(recipients.Phones) > 0 {
		if d.sms == nil {
			log.Warn("SMS contacts configured but no SMS sender; skipping SMS alerts")
		} else {
			text := formatSMSMessage(alert)
			for _, phone := range recipients.Phones {
				phone := phone
				deliver("sms", redactPhone(phone), func() error {
					return d.sms.Send(ctx, phone, text)
				})
			}
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.WithError(ctx.Err()).Warn("Alert delivery deadline reached, abandoning pending sends")
	}
}

func (d *Dispatcher) safeSend(send func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during delivery: %v", r)
		}
	}()
	return send()
}

func redactWebhook(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "invalid-webhook"
	}
	return u.Host
}

func redactPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return "***" + phone[len(phone)-4:]
}
