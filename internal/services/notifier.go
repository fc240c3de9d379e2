package services

import (
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/automac/dealership-backend/internal/config"
	"github.com/automac/dealership-backend/internal/models"
)

const companyName = "AutoMac Lucena"

// Notifier dispatches the best-effort notifications that follow a booking
// write: owner and customer email, optional Twilio SMS, and a live dashboard
// event. Dispatch runs after the database write commits and never reports
// back to the caller; each hook is isolated so one failure cannot stop the
// others.
type Notifier struct {
	cfg        config.NotifyConfig
	hub        *Hub
	httpClient *http.Client
	log        zerolog.Logger
}

func NewNotifier(cfg config.NotifyConfig, hub *Hub, log zerolog.Logger) *Notifier {
	return &Notifier{
		cfg:        cfg,
		hub:        hub,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log.With().Str("component", "notifier").Logger(),
	}
}

// dispatch runs named hooks in the background, each behind its own recover.
func (n *Notifier) dispatch(hooks map[string]func() error) {
	go func() {
		for name, hook := range hooks {
			n.runHook(name, hook)
		}
	}()
}

func (n *Notifier) runHook(name string, hook func() error) {
	defer func() {
		if r := recover(); r != nil {
			n.log.Error().Interface("panic", r).Str("hook", name).Msg("notification hook panicked")
		}
	}()
	if err := hook(); err != nil {
		n.log.Warn().Err(err).Str("hook", name).Msg("notification hook failed")
	}
}

func carTitle(car *models.Car) string {
	return fmt.Sprintf("%d %s %s", car.Year, car.Brand, car.CarModel)
}

// BookingCreated fans out after a new booking is persisted.
func (n *Notifier) BookingCreated(booking *models.Booking, car *models.Car, owner *models.User) {
	hooks := map[string]func() error{
		"owner-email":    func() error { return n.sendOwnerBookingEmail(booking, car, owner) },
		"customer-email": func() error { return n.sendCustomerBookingEmail(booking, car) },
		"dashboard": func() error {
			return n.hub.SendToOwner(car.OwnerID, "booking_created", booking)
		},
	}

	if n.cfg.SMSEnabled() {
		hooks["sms"] = func() error {
			msg := fmt.Sprintf("%s booking: %s for %s on %s %s.",
				companyName, booking.FullName, carTitle(car),
				booking.PreferredDate.Format("2006-01-02"), booking.PreferredTime)
			return n.sendSMS(booking.Phone, msg)
		}
	}

	n.dispatch(hooks)
}

// BookingStatusChanged notifies the customer after an owner moves a booking
// to a new status.
func (n *Notifier) BookingStatusChanged(booking *models.Booking, car *models.Car) {
	n.dispatch(map[string]func() error{
		"customer-email": func() error { return n.sendCustomerStatusEmail(booking, car) },
		"dashboard": func() error {
			return n.hub.SendToOwner(car.OwnerID, "booking_status_changed", booking)
		},
	})
}

func (n *Notifier) sendOwnerBookingEmail(booking *models.Booking, car *models.Car, owner *models.User) error {
	subject := fmt.Sprintf("New Test Drive Booking - #%d", booking.ID)
	body := fmt.Sprintf(
		"New booking received.\n\n"+
			"Car: %s\n"+
			"Name: %s\n"+
			"Phone: %s\n"+
			"Email: %s\n"+
			"Date/Time: %s %s\n"+
			"Note: %s\n"+
			"Status: %s\n",
		carTitle(car), booking.FullName, booking.Phone, booking.Email,
		booking.PreferredDate.Format("2006-01-02"), booking.PreferredTime,
		booking.Note, booking.Status)

	var recipients []string
	if owner.Email != "" {
		recipients = append(recipients, owner.Email)
	}
	if n.cfg.BookingAlertEmail != "" && n.cfg.BookingAlertEmail != owner.Email {
		recipients = append(recipients, n.cfg.BookingAlertEmail)
	}
	if len(recipients) == 0 {
		return nil
	}
	return n.sendEmail(recipients, subject, body)
}

func (n *Notifier) sendCustomerBookingEmail(booking *models.Booking, car *models.Car) error {
	if booking.Email == "" {
		return nil
	}
	subject := fmt.Sprintf("Booking Received - %s", carTitle(car))
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your test drive request has been received.\n\n"+
			"Car: %s\n"+
			"Preferred schedule: %s %s\n"+
			"Current status: %s\n\n"+
			"We will contact you soon to confirm.\n\n"+
			"Thank you,\n%s",
		booking.FullName, carTitle(car),
		booking.PreferredDate.Format("2006-01-02"), booking.PreferredTime,
		booking.Status, companyName)
	return n.sendEmail([]string{booking.Email}, subject, body)
}

func (n *Notifier) sendCustomerStatusEmail(booking *models.Booking, car *models.Car) error {
	if booking.Email == "" {
		return nil
	}
	subject := fmt.Sprintf("Booking Status Update - %s", carTitle(car))
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your booking status is now: %s\n\n"+
			"Car: %s\n"+
			"Preferred schedule: %s %s\n\n"+
			"Thank you,\n%s",
		booking.FullName, booking.Status, carTitle(car),
		booking.PreferredDate.Format("2006-01-02"), booking.PreferredTime,
		companyName)
	return n.sendEmail([]string{booking.Email}, subject, body)
}

func (n *Notifier) sendEmail(to []string, subject, body string) error {
	if n.cfg.EmailFrom == "" || n.cfg.EmailPassword == "" || n.cfg.SMTPHost == "" || n.cfg.SMTPPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	// Headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, n.cfg.EmailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/plain; charset=UTF-8"

	// Build message
	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	auth := smtp.PlainAuth("", n.cfg.EmailFrom, n.cfg.EmailPassword, n.cfg.SMTPHost)

	if err := n.sendMail(n.cfg.SMTPHost+":"+n.cfg.SMTPPort, auth, to, []byte(message)); err != nil {
		return err
	}

	n.log.Info().Strs("to", to).Str("subject", subject).Msg("email sent")
	return nil
}

func (n *Notifier) sendMail(addr string, auth smtp.Auth, to []string, msg []byte) error {
	return smtp.SendMail(addr, auth, n.cfg.EmailFrom, to, msg)
}
