// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Piyush5621/AnarchyBay/internal/config"
	"github.com/Piyush5621/AnarchyBay/internal/models"
)

// Notifier sends the transactional mails of the marketplace.
type Notifier interface {
	PurchaseCompleted(buyer *models.Profile, purchases []models.Purchase) error
	ContactReceived(msg *models.ContactMessage) error
	ContactReplied(msg *models.ContactMessage) error
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type NotificationService struct {
	config   *config.Config
	sendMail sendMailFunc
}

func NewNotificationService(config *config.Config) *NotificationService {
	return &NotificationService{
		config:   config,
		sendMail: smtp.SendMail,
	}
}

func (s *NotificationService) PurchaseCompleted(buyer *models.Profile, purchases []models.Purchase) error {
	type line struct {
		Name       string
		Amount     string
		LicenseKey string
	}
	lines := make([]line, 0, len(purchases))
	for _, p := range purchases {
		name := p.ProductID.String()
		if p.Product != nil {
			name = p.Product.Name
		}
		lines = append(lines, line{
			Name:       name,
			Amount:     p.Amount.StringFixed(2) + " " + p.Currency,
			LicenseKey: p.LicenseKey,
		})
	}

	body, err := s.render("purchase_completed", map[string]interface{}{
		"Name":         displayName(buyer),
		"Items":        lines,
		"LibraryURL":   s.config.Frontend.BaseURL + "/library",
		"PlatformName": s.config.Email.FromName,
	})
	if err != nil {
		return err
	}
	return s.send(buyer.Email, "Your Anarchy Bay purchase is confirmed", body)
}

func (s *NotificationService) ContactReceived(msg *models.ContactMessage) error {
	body, err := s.render("contact_received", map[string]interface{}{
		"Name":         msg.Name,
		"Message":      msg.Message,
		"PlatformName": s.config.Email.FromName,
	})
	if err != nil {
		return err
	}
	return s.send(msg.Email, "We received your message", body)
}

func (s *NotificationService) ContactReplied(msg *models.ContactMessage) error {
	subject := "Re: your message to Anarchy Bay"
	if msg.Subject != nil && *msg.Subject != "" {
		subject = "Re: " + *msg.Subject
	}

	body, err := s.render("contact_reply", map[string]interface{}{
		"Name":         msg.Name,
		"Original":     msg.Message,
		"Reply":        msg.ReplyMessage,
		"PlatformName": s.config.Email.FromName,
	})
	if err != nil {
		return err
	}
	return s.send(msg.Email, subject, body)
}

func (s *NotificationService) send(to, subject, body string) error {
	cfg := s.config.Email
	if cfg.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Warn("SMTP not configured, email skipped")
		return nil
	}

	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", cfg.FromName, cfg.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%s", cfg.SMTPHost, cfg.SMTPPort)
	if err := s.sendMail(addr, auth, cfg.FromEmail, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (s *NotificationService) render(name string, data interface{}) (string, error) {
	tmpl, ok := emailTemplates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}

func displayName(p *models.Profile) string {
	if p.Name != "" {
		return p.Name
	}
	if p.Username != nil && *p.Username != "" {
		return *p.Username
	}
	return p.Email
}

var emailTemplates = map[string]*template.Template{
	"purchase_completed": template.Must(template.New("purchase_completed").Parse(`<!DOCTYPE html>
<html>
<body>
	<h2>Thanks for your purchase, {{.Name}}!</h2>
	<table>
		<tr><th>Product</th><th>Amount</th><th>License key</th></tr>
		{{range .Items}}<tr><td>{{.Name}}</td><td>{{.Amount}}</td><td><code>{{.LicenseKey}}</code></td></tr>
		{{end}}
	</table>
	<p>Your files are ready in your <a href="{{.LibraryURL}}">library</a>.</p>
	<p>{{.PlatformName}}</p>
</body>
</html>`)),
	"contact_received": template.Must(template.New("contact_received").Parse(`<!DOCTYPE html>
<html>
<body>
	<h2>Hi {{.Name}},</h2>
	<p>Thanks for reaching out. We received your message and will reply soon.</p>
	<blockquote>{{.Message}}</blockquote>
	<p>{{.PlatformName}}</p>
</body>
</html>`)),
	"contact_reply": template.Must(template.New("contact_reply").Parse(`<!DOCTYPE html>
<html>
<body>
	<h2>Hi {{.Name}},</h2>
	<p>{{.Reply}}</p>
	<hr>
	<p>You wrote:</p>
	<blockquote>{{.Original}}</blockquote>
	<p>{{.PlatformName}}</p>
</body>
</html>`)),
}
