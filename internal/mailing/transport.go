package mailing

import (
	"context"
	"fmt"
	"sync"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/harikishants/MarketingMailPro/internal/domain"
)

// Message is one outbound email, fully composed.
type Message struct {
	From     string
	FromName string
	ReplyTo  string
	To       string
	Subject  string
	HTML     string
	Headers  map[string]string
}

// Sender delivers messages over an open SMTP session. Implementations
// must be safe for concurrent use; Close ends the session.
type Sender interface {
	Send(m *Message) error
	Close() error
}

// Transport opens SMTP sessions for a user's settings. One session is
// shared across a whole campaign run.
type Transport interface {
	Connect(s *domain.TransportSettings) (Sender, error)
	Verify(ctx context.Context, s *domain.TransportSettings) error
}

// SMTPTransport implements Transport with gomail.
type SMTPTransport struct {
	verifyTimeout time.Duration
}

// NewSMTPTransport creates a transport. verifyTimeout bounds the
// connectivity check; zero means 10 seconds.
func NewSMTPTransport(verifyTimeout time.Duration) *SMTPTransport {
	if verifyTimeout <= 0 {
		verifyTimeout = 10 * time.Second
	}
	return &SMTPTransport{verifyTimeout: verifyTimeout}
}

func newDialer(s *domain.TransportSettings) *gomail.Dialer {
	d := gomail.NewDialer(s.SMTPHost, s.SMTPPort, s.SMTPUser, s.SMTPPass)
	// Port 465 is implicit TLS; other ports negotiate STARTTLS.
	d.SSL = s.UseTLS && s.SMTPPort == 465
	return d
}

// Connect dials the server and returns a session for repeated sends.
func (t *SMTPTransport) Connect(s *domain.TransportSettings) (Sender, error) {
	sc, err := newDialer(s).Dial()
	if err != nil {
		return nil, fmt.Errorf("dial smtp %s:%d: %w", s.SMTPHost, s.SMTPPort, err)
	}
	return &smtpSession{sc: sc}, nil
}

// Verify opens and closes a session to prove the credentials work.
func (t *SMTPTransport) Verify(ctx context.Context, s *domain.TransportSettings) error {
	ctx, cancel := context.WithTimeout(ctx, t.verifyTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		sc, err := newDialer(s).Dial()
		if err != nil {
			done <- err
			return
		}
		done <- sc.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("verify smtp %s:%d: %w", s.SMTPHost, s.SMTPPort, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("verify smtp %s:%d: %w", s.SMTPHost, s.SMTPPort, ctx.Err())
	}
}

// smtpSession serializes sends on one SMTP connection. SMTP sessions are
// not safe for concurrent commands, so pool workers share it under a mutex.
type smtpSession struct {
	mu sync.Mutex
	sc gomail.SendCloser
}

func (s *smtpSession) Send(m *Message) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.From, m.FromName)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	if m.ReplyTo != "" {
		msg.SetHeader("Reply-To", m.ReplyTo)
	}
	for k, v := range m.Headers {
		msg.SetHeader(k, v)
	}
	msg.SetBody("text/html", m.HTML)

	s.mu.Lock()
	defer s.mu.Unlock()
	return gomail.Send(s.sc, msg)
}

func (s *smtpSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sc.Close()
}
