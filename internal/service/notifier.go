package service

import (
	"fmt"
	"net/url"

	"clinic-backend/config"
	"clinic-backend/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier dispatches appointment notifications to the patient. Dispatch is
// best-effort on two channels: failures are logged, never propagated, and
// callers fire it from a goroutine so it cannot block a request.
type Notifier interface {
	NotifyConfirmed(appointment *entity.Appointment)
	// WhatsAppLinks returns wa.me deep links the client can present so the
	// patient or clinic can open a chat, independent of Twilio dispatch.
	WhatsAppLinks(appointment *entity.Appointment) []string
}

type twilioNotifier struct {
	cfg    config.TwilioConfig
	clinic config.ClinicConfig
	client *twilio.RestClient
	log    *logrus.Logger
}

func NewTwilioNotifier(cfg config.TwilioConfig, clinic config.ClinicConfig, log *logrus.Logger) Notifier {
	n := &twilioNotifier{cfg: cfg, clinic: clinic, log: log}
	if cfg.Configured() {
		n.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
	}
	return n
}

func (n *twilioNotifier) NotifyConfirmed(appointment *entity.Appointment) {
	if n.client == nil {
		n.log.Debug("Twilio not configured, skipping notification dispatch")
		return
	}

	body := fmt.Sprintf(
		"Your appointment at %s is confirmed.\nBooking ID: %s\nDate: %s\nTime: %s\nType: %s",
		n.clinic.Name, appointment.BookingID, appointment.Date, appointment.Time, appointment.ConsultType,
	)
	to := "+91" + appointment.PatientPhone

	if n.cfg.WhatsAppFrom != "" {
		n.send("whatsapp:"+to, n.cfg.WhatsAppFrom, body, "whatsapp")
	}
	if n.cfg.SMSFrom != "" {
		n.send(to, n.cfg.SMSFrom, body, "sms")
	}
}

func (n *twilioNotifier) send(to, from, body, channel string) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	if _, err := n.client.Api.CreateMessage(params); err != nil {
		// Best-effort: confirmation must not fail because a channel is down.
		n.log.Warnf("Failed to send %s notification to %s: %+v", channel, to, err)
		return
	}
	n.log.Infof("Sent %s notification to %s", channel, to)
}

func (n *twilioNotifier) WhatsAppLinks(appointment *entity.Appointment) []string {
	text := fmt.Sprintf("Appointment %s confirmed for %s at %s", appointment.BookingID, appointment.Date, appointment.Time)
	links := []string{
		fmt.Sprintf("https://wa.me/91%s?text=%s", appointment.PatientPhone, url.QueryEscape(text)),
	}
	if n.clinic.Phone != "" {
		links = append(links, fmt.Sprintf("https://wa.me/%s?text=%s", n.clinic.Phone, url.QueryEscape(text)))
	}
	return links
}
