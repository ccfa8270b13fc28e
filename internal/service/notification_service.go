package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"caseflow-be/internal/dto"
	"caseflow-be/internal/pkg/logger"
	"caseflow-be/internal/pkg/mailer"
	internalWS "caseflow-be/internal/websocket"
	pkgEvents "caseflow-be/pkg/events"
	pktNats "caseflow-be/pkg/nats"
)

// INotificationService fans progress out to connected advisor clients and
// sends the report-ready email when the final phase completes.
type INotificationService interface {
	Start(ctx context.Context) error
}

type notificationService struct {
	topicName  string
	pubSub     *gochannel.GoChannel
	subscriber *pktNats.Subscriber // optional cross-service fanout
	hub        *internalWS.Hub
	mailer     mailer.IEmailService // optional
	logger     logger.ILogger
}

func NewNotificationService(
	topicName string,
	pubSub *gochannel.GoChannel,
	subscriber *pktNats.Subscriber,
	hub *internalWS.Hub,
	emailService mailer.IEmailService,
	sysLogger logger.ILogger,
) INotificationService {
	return &notificationService{
		topicName:  topicName,
		pubSub:     pubSub,
		subscriber: subscriber,
		hub:        hub,
		mailer:     emailService,
		logger:     sysLogger,
	}
}

// Start wires both consumers and returns; delivery runs on background
// goroutines until ctx is cancelled.
func (s *notificationService) Start(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}
	go s.consumeProgress(messages)

	if s.subscriber != nil {
		subject := "case." + pkgEvents.TypeCaseStatusChanged
		if err := s.subscriber.Subscribe(subject, "caseflow-ws-fanout", s.handleStatusChanged); err != nil {
			s.logger.Warn("NOTIFICATION", "Status-changed fanout unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return nil
}

func (s *notificationService) consumeProgress(messages <-chan *message.Message) {
	for msg := range messages {
		var event dto.ProgressEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			s.logger.Error("NOTIFICATION", "Malformed progress event", map[string]interface{}{
				"error": err.Error(),
			})
			msg.Ack()
			continue
		}

		s.hub.Send(event.AdvisorId, "progress", event.Progress)

		if event.ReportReady {
			s.hub.Send(event.AdvisorId, "report_ready", map[string]interface{}{
				"case_id":   event.CaseId.String(),
				"case_name": event.CaseName,
			})
			s.sendReportEmail(event)
		}

		msg.Ack()
	}
}

func (s *notificationService) sendReportEmail(event dto.ProgressEvent) {
	if s.mailer == nil || event.AdvisorEmail == "" {
		return
	}
	if err := s.mailer.SendReportReady(event.AdvisorEmail, event.CaseName); err != nil {
		s.logger.Warn("NOTIFICATION", "Failed to send report-ready email", map[string]interface{}{
			"case_id": event.CaseId.String(),
			"error":   err.Error(),
		})
	}
}

// handleStatusChanged broadcasts lifecycle transitions published by any
// instance so every connected dashboard refreshes its case list.
func (s *notificationService) handleStatusChanged(ctx context.Context, event pkgEvents.Event) error {
	s.hub.Broadcast("case_status_changed", event.Payload())
	return nil
}
