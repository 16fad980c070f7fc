// Package notify delivers client-facing messages by publishing them to NATS
// for the downstream mailer service.
package notify

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/bizquote/quotation-system/internal/core/ports"
)

// SubjectEmailOutbound is the subject the mailer consumes.
const SubjectEmailOutbound = "notifications.email.outbound"

// NATSNotifier implements ports.Notifier on a NATS connection. Delivery
// failure is a reported outcome, never an error: the workflow treats the
// state change as committed regardless of what happens to the email.
type NATSNotifier struct {
	conn *nats.Conn
	log  zerolog.Logger
}

func NewNATSNotifier(conn *nats.Conn, log zerolog.Logger) *NATSNotifier {
	return &NATSNotifier{conn: conn, log: log}
}

// emailEvent is the JSON schema published to NATS. The attachment rides
// along base64-encoded (encoding/json's []byte default).
type emailEvent struct {
	MessageID      string            `json:"message_id"`
	Recipient      string            `json:"recipient"`
	Subject        string            `json:"subject"`
	TemplateKey    string            `json:"template_key"`
	Variables      map[string]string `json:"variables,omitempty"`
	Attachment     []byte            `json:"attachment,omitempty"`
	AttachmentName string            `json:"attachment_name,omitempty"`
}

func (n *NATSNotifier) Send(_ context.Context, in ports.NotificationInput) ports.NotificationResult {
	if n.conn == nil {
		return ports.NotificationResult{Success: false, Reason: "notifier_unconfigured"}
	}

	event := emailEvent{
		MessageID:      uuid.NewString(),
		Recipient:      in.Recipient,
		Subject:        in.Subject,
		TemplateKey:    in.TemplateKey,
		Variables:      in.Variables,
		Attachment:     in.Attachment,
		AttachmentName: in.AttachmentName,
	}

	data, err := json.Marshal(event)
	if err != nil {
		n.log.Warn().Err(err).Str("recipient", in.Recipient).Msg("notify: failed to marshal event")
		return ports.NotificationResult{Success: false, Reason: "marshal_failed"}
	}

	if err := n.conn.Publish(SubjectEmailOutbound, data); err != nil {
		n.log.Warn().Err(err).
			Str("subject", SubjectEmailOutbound).
			Str("recipient", in.Recipient).
			Msg("notify: failed to publish event")
		return ports.NotificationResult{Success: false, Reason: "publish_failed"}
	}

	n.log.Debug().
		Str("message_id", event.MessageID).
		Str("recipient", in.Recipient).
		Msg("notify: event published")

	return ports.NotificationResult{Success: true, MessageID: event.MessageID}
}
