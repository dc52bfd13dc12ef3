package alerting

import (
	"sync"
	"time"

	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

type Reason string

const (
	ReasonChanged   Reason = "status_changed"
	ReasonReminder  Reason = "reminder"
	ReasonRecovered Reason = "recovered"
	ReasonCooldown  Reason = "cooldown"
	ReasonHealthy   Reason = "healthy"
)

type Config struct {
	// Cooldown is the minimum time between two alerts for an unchanged
	// WARNING or FAIL on the same server.
	Cooldown time.Duration
}

// Decision tells the publisher whether a check raises an alert.
type Decision struct {
	Alert    bool
	Severity models.EventSeverity
	Reason   Reason
}

type record struct {
	status    models.Status
	alertedAt time.Time
}

// Policy tracks the last alerted status per server.
type Policy struct {
	config Config
	last   map[string]record
	now    func() time.Time
	mu     sync.Mutex
}

func NewPolicy(cfg Config) *Policy {
	if cfg.Cooldown == 0 {
		cfg.Cooldown = 5 * time.Minute
	}
	return &Policy{
		config: cfg,
		last:   make(map[string]record),
		now:    time.Now,
	}
}

func (p *Policy) Decide(check *models.StatusCheck) Decision {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	prev, seen := p.last[check.Server]

	if check.Status == models.StatusOK {
		if !seen || prev.status == models.StatusOK {
			return Decision{Reason: ReasonHealthy}
		}
		p.last[check.Server] = record{status: models.StatusOK, alertedAt: now}
		logger.WithServer(check.Server).Infof("Recovered from %s", prev.status)
		return Decision{Alert: true, Severity: models.SeverityInfo, Reason: ReasonRecovered}
	}

	severity := check.Status.Severity()

	if !seen || prev.status != check.Status {
		p.last[check.Server] = record{status: check.Status, alertedAt: now}
		return Decision{Alert: true, Severity: severity, Reason: ReasonChanged}
	}

	if remaining := p.config.Cooldown - now.Sub(prev.alertedAt); remaining > 0 {
		logger.WithServer(check.Server).Debugf("Alert suppressed, cooldown %s remaining", remaining.Round(time.Second))
		return Decision{Severity: severity, Reason: ReasonCooldown}
	}

	p.last[check.Server] = record{status: check.Status, alertedAt: now}
	return Decision{Alert: true, Severity: severity, Reason: ReasonReminder}
}

func (p *Policy) Reset(server string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.last, server)
}
