package filter

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"
	"github.com/emersion/go-smtp"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/mailparse"
	"github.com/mikey/mail-triage/internal/metrics"
	"go.uber.org/zap"
)

// HeaderNames are the header fields written on every triaged message
type HeaderNames struct {
	Intent    string
	Urgency   string
	Sentiment string
	Source    string
	Summary   string
}

// SMTPOptions configures the SMTP triage filter
type SMTPOptions struct {
	ListenAddress   string
	Domain          string
	MaxMessageBytes int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ReinjectEnabled bool
	// ReinjectAddress is host:port of the MTA that receives tagged mail
	ReinjectAddress string
	// SubjectPrefix is prepended to the subject of High urgency mail when set
	SubjectPrefix string
	Headers       HeaderNames
}

// SMTPFilter is a content filter: the MTA hands it mail over SMTP, it
// classifies each message, adds triage headers and re-injects the message.
type SMTPFilter struct {
	classifier core.MessageClassifier
	logger     *zap.Logger
	opts       SMTPOptions
	server     *smtp.Server
	listener   net.Listener
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewSMTPFilter creates a new SMTP triage filter
func NewSMTPFilter(classifier core.MessageClassifier, logger *zap.Logger, opts SMTPOptions) *SMTPFilter {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SMTPFilter{
		classifier: classifier,
		logger:     logger,
		opts:       opts,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start binds the listen address and serves SMTP in the background
func (f *SMTPFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})
	f.server.Addr = f.opts.ListenAddress
	f.server.Domain = f.opts.Domain
	f.server.ReadTimeout = f.opts.ReadTimeout
	f.server.WriteTimeout = f.opts.WriteTimeout
	f.server.MaxMessageBytes = f.opts.MaxMessageBytes
	f.server.MaxRecipients = 50

	l, err := net.Listen("tcp", f.opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", f.opts.ListenAddress, err)
	}
	f.listener = l

	f.logger.Info("SMTP triage filter starting",
		zap.String("address", l.Addr().String()),
		zap.Bool("reinject", f.opts.ReinjectEnabled))

	go func() {
		if err := f.server.Serve(l); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			f.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the bound listen address once started
func (f *SMTPFilter) Addr() string {
	if f.listener == nil {
		return f.opts.ListenAddress
	}
	return f.listener.Addr().String()
}

// Stop closes the server and cancels in-flight classifications
func (f *SMTPFilter) Stop() error {
	f.cancel()
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessMessage triages a single message without touching SMTP
func (f *SMTPFilter) ProcessMessage(ctx context.Context, msg *core.Message) (*core.ClassificationResult, error) {
	outcome := f.classifier.Classify(ctx, msg)
	if outcome.OK() {
		return outcome.Result, nil
	}
	if outcome.Failure != nil {
		return nil, outcome.Failure
	}
	return nil, fmt.Errorf("no classification for message %s", msg.ID)
}

// Annotate returns raw with triage headers added and, for High urgency
// with a configured prefix, the subject prefixed. The body is untouched.
func (f *SMTPFilter) Annotate(raw []byte, result *core.ClassificationResult) ([]byte, error) {
	br := bufio.NewReader(bytes.NewReader(raw))
	th, err := textproto.ReadHeader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read message header: %w", err)
	}
	h := mail.Header{Header: message.Header{Header: th}}

	names := f.opts.Headers
	h.Set(names.Intent, string(result.Intent))
	h.Set(names.Urgency, string(result.Urgency))
	h.Set(names.Sentiment, string(result.Sentiment))
	h.Set(names.Source, string(result.Source))
	h.SetText(names.Summary, strings.Join(strings.Fields(result.Summary), " "))

	if result.Urgency == core.UrgencyHigh && f.opts.SubjectPrefix != "" {
		subject, err := h.Subject()
		if err != nil {
			subject = h.Get("Subject")
		}
		if !strings.HasPrefix(subject, f.opts.SubjectPrefix) {
			h.SetSubject(f.opts.SubjectPrefix + subject)
		}
	}

	var out bytes.Buffer
	if err := textproto.WriteHeader(&out, h.Header.Header); err != nil {
		return nil, fmt.Errorf("failed to write message header: %w", err)
	}
	if _, err := io.Copy(&out, br); err != nil {
		return nil, fmt.Errorf("failed to copy message body: %w", err)
	}
	return out.Bytes(), nil
}

// reinject hands the message back to the MTA on the configured address
func (f *SMTPFilter) reinject(sender string, recipients []string, data []byte) error {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", f.opts.ReinjectAddress, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to MTA: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			continue
		}
		recipientOK = true
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}
	return nil
}

// deliver triages raw and passes it on. A message that cannot be parsed or
// classified is forwarded unchanged.
func (f *SMTPFilter) deliver(sender string, recipients []string, raw []byte) error {
	data := raw

	msg, err := mailparse.ParseBytes(raw)
	if err != nil {
		f.logger.Warn("Forwarding unparsable message untagged", zap.String("sender", sender), zap.Error(err))
	} else {
		if msg.Sender == "" {
			msg.Sender = sender
		}
		result, err := f.ProcessMessage(f.ctx, msg)
		if err != nil {
			f.logger.Warn("Forwarding unclassified message untagged",
				zap.String("message_id", msg.ID),
				zap.String("kind", string(core.KindOf(err))),
				zap.Error(err))
		} else if annotated, aerr := f.Annotate(raw, result); aerr != nil {
			f.logger.Error("Failed to annotate message", zap.String("message_id", msg.ID), zap.Error(aerr))
		} else {
			data = annotated
			metrics.RecordFiltered(string(result.Urgency))
			f.logger.Info("Triaged message",
				zap.String("message_id", msg.ID),
				zap.String("sender", msg.Sender),
				zap.String("intent", string(result.Intent)),
				zap.String("urgency", string(result.Urgency)),
				zap.String("source", string(result.Source)))
		}
	}

	if !f.opts.ReinjectEnabled {
		f.logger.Warn("Re-injection disabled, message not forwarded", zap.String("sender", sender))
		return nil
	}
	if err := f.reinject(sender, recipients, data); err != nil {
		f.logger.Error("Failed to re-inject message", zap.String("sender", sender), zap.Error(err))
		return err
	}
	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *SMTPFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{filter: b.filter}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *SMTPFilter
	sender     string
	recipients []string
}

func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}
	return s.filter.deliver(s.sender, s.recipients, raw)
}

func (s *smtpSession) Logout() error {
	return nil
}
