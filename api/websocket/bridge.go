package websocket

import (
	"context"

	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

// EventBridge forwards bus events to WebSocket clients. Status and alert
// messages go to the subscribers of their server; dataset messages go to
// everyone.
type EventBridge struct {
	hub        *Hub
	eventsChan <-chan *models.Event
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewEventBridge(hub *Hub, eventsChan <-chan *models.Event) *EventBridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBridge{
		hub:        hub,
		eventsChan: eventsChan,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (b *EventBridge) Start() {
	go b.run()
	logger.Info("WebSocket event bridge started")
}

func (b *EventBridge) Stop() {
	b.cancel()
	logger.Info("WebSocket event bridge stopped")
}

func (b *EventBridge) run() {
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.eventsChan:
			if !ok {
				logger.Info("Event channel closed, stopping bridge")
				return
			}
			b.forwardEvent(event)
		}
	}
}

func (b *EventBridge) forwardEvent(event *models.Event) {
	msg := convertToMessage(event)
	if msg == nil {
		return
	}

	if msg.Server == "" {
		b.hub.Broadcast(msg.JSON())
		return
	}
	b.hub.BroadcastToServer(msg.Server, msg.JSON())
}

func convertToMessage(event *models.Event) *OutgoingMessage {
	var msg *OutgoingMessage

	switch event.Type {
	case models.EventTypeStatusEvaluated:
		check, ok := event.Data.(*models.StatusCheck)
		if !ok {
			return nil
		}
		msg = NewMessage(MessageTypeStatus, check.Server, NewStatusData(check))
	case models.EventTypeDatasetLoaded:
		msg = NewMessage(MessageTypeDatasetReloaded, "", event.Data)
	case models.EventTypeDatasetReloadFailed:
		msg = NewMessage(MessageTypeReloadFailed, "", event.Data)
	case models.EventTypeAlert:
		msg = NewMessage(MessageTypeAlert, event.Server, AlertData{
			Severity: string(event.Severity),
			Message:  event.Message,
		})
	default:
		return nil
	}

	msg.Timestamp = event.Timestamp
	msg.TraceID = event.TraceID
	return msg
}
