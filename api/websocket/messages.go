package websocket

import (
	"encoding/json"
	"time"

	"github.com/OldStager01/latency-dashboard/pkg/models"
)

type MessageType string

const (
	MessageTypeStatus          MessageType = "status"
	MessageTypeDatasetReloaded MessageType = "dataset_reloaded"
	MessageTypeReloadFailed    MessageType = "reload_failed"
	MessageTypeAlert           MessageType = "alert"
	MessageTypeSubscription    MessageType = "subscription_update"
)

type OutgoingMessage struct {
	Type      MessageType `json:"type"`
	Server    string      `json:"server,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
	Data      interface{} `json:"data"`
}

func NewMessage(msgType MessageType, server string, data interface{}) *OutgoingMessage {
	return &OutgoingMessage{
		Type:      msgType,
		Server:    server,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func (m *OutgoingMessage) JSON() []byte {
	data, _ := json.Marshal(m)
	return data
}

type StatusData struct {
	Status       string  `json:"status"`
	Text         string  `json:"text"`
	LatestValue  float64 `json:"latest_value"`
	MinThreshold float64 `json:"min_threshold"`
	MaxThreshold float64 `json:"max_threshold"`
	Rows         int     `json:"rows"`
}

func NewStatusData(check *models.StatusCheck) StatusData {
	return StatusData{
		Status:       string(check.Status),
		Text:         "Status atual: " + string(check.Status),
		LatestValue:  check.LatestValue,
		MinThreshold: check.MinThreshold,
		MaxThreshold: check.MaxThreshold,
		Rows:         check.Rows,
	}
}

type AlertData struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type SubscriptionData struct {
	Action string `json:"action"`
}
