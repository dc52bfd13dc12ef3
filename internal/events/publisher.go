package events

import (
	"fmt"

	"github.com/OldStager01/latency-dashboard/internal/alerting"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

type Publisher struct {
	bus     *EventBus
	policy  *alerting.Policy
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

// WithAlertPolicy gates status alerts through policy. Without one every
// WARNING and FAIL evaluation raises an alert.
func (p *Publisher) WithAlertPolicy(policy *alerting.Policy) *Publisher {
	if p == nil {
		return nil
	}
	return &Publisher{bus: p.bus, policy: policy, traceID: p.traceID}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	if p == nil {
		return nil
	}
	return &Publisher{
		bus:     p.bus,
		policy:  p.policy,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p == nil || p.bus == nil {
		return
	}
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) DatasetLoaded(info models.DatasetInfo) {
	msg := fmt.Sprintf("Dataset loaded: %d rows, %d servers", info.Rows, len(info.Servers))
	event := models.NewEvent(models.EventTypeDatasetLoaded, "", msg).
		WithData(info)
	p.publish(event)
}

func (p *Publisher) ReloadFailed(source string, err error) {
	event := models.NewEvent(models.EventTypeDatasetReloadFailed, "", "Dataset reload failed: "+source).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"source": source,
			"error":  err.Error(),
		})
	p.publish(event)
}

// StatusEvaluated publishes the check and, for WARNING and FAIL, an alert
// at the matching severity.
func (p *Publisher) StatusEvaluated(check *models.StatusCheck) {
	if p == nil {
		return
	}
	msg := fmt.Sprintf("Status evaluated: %s (%g µs)", check.Status, check.LatestValue)
	event := models.NewEvent(models.EventTypeStatusEvaluated, check.Server, msg).
		WithData(check)
	p.publish(event)

	if p.policy == nil {
		if severity := check.Status.Severity(); severity != models.SeverityInfo {
			p.Alert(check.Server, severity, alertMessage(check), check)
		}
		return
	}

	decision := p.policy.Decide(check)
	if !decision.Alert {
		return
	}
	msg = alertMessage(check)
	if decision.Reason == alerting.ReasonRecovered {
		msg = fmt.Sprintf("Server %s recovered: latest response time %g µs", check.Server, check.LatestValue)
	}
	p.Alert(check.Server, decision.Severity, msg, map[string]interface{}{
		"check":  check,
		"reason": decision.Reason,
	})
}

func alertMessage(check *models.StatusCheck) string {
	return fmt.Sprintf("Server %s is %s: latest response time %g µs (thresholds %g..%g)",
		check.Server, check.Status, check.LatestValue, check.MinThreshold, check.MaxThreshold)
}

func (p *Publisher) Exported(server string, rows int) {
	event := models.NewEvent(models.EventTypeExported, server, fmt.Sprintf("Exported %d rows", rows)).
		WithData(map[string]interface{}{"rows": rows})
	p.publish(event)
}

func (p *Publisher) Alert(server string, severity models.EventSeverity, message string, data interface{}) {
	event := models.NewEvent(models.EventTypeAlert, server, message).
		WithSeverity(severity).
		WithData(data)
	p.publish(event)
}

func (p *Publisher) Error(server string, message string, err error) {
	event := models.NewEvent(models.EventTypeError, server, message).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"error": err.Error(),
		})
	p.publish(event)
}
