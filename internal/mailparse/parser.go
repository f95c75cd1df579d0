package mailparse

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/mikey/mail-triage/internal/core"
)

// LabelAttachment marks messages that carry at least one attachment part
const LabelAttachment = "attachment"

const snippetRunes = 160

// Parse reads an RFC 5322 message and converts it to a triage Message.
// Plain text parts win over HTML; HTML-only bodies are reduced to text.
func Parse(r io.Reader) (*core.Message, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	return ParseBytes(raw)
}

// ParseBytes is Parse over an in-memory message
func ParseBytes(raw []byte) (*core.Message, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	defer mr.Close()

	msg := &core.Message{}
	readHeader(&mr.Header, msg)
	if msg.ID == "" {
		msg.ID = syntheticID(raw)
	}

	var plain, html string
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if message.IsUnknownCharset(err) {
				continue
			}
			// keep whatever body was already collected
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			ct, _, _ := h.ContentType()
			body, rerr := io.ReadAll(part.Body)
			if rerr != nil {
				continue
			}
			switch {
			case strings.HasPrefix(ct, "text/plain") && plain == "":
				plain = string(body)
			case strings.HasPrefix(ct, "text/html") && html == "":
				html = string(body)
			}
		case *mail.AttachmentHeader:
			if !hasLabel(msg.Labels, LabelAttachment) {
				msg.Labels = append(msg.Labels, LabelAttachment)
			}
		}
	}

	switch {
	case strings.TrimSpace(plain) != "":
		msg.Body = strings.TrimSpace(plain)
	case html != "":
		msg.Body = HTMLToText(html)
	}
	msg.Snippet = Snippet(msg.Body)

	return msg, nil
}

func readHeader(h *mail.Header, msg *core.Message) {
	if id, err := h.MessageID(); err == nil {
		msg.ID = id
	}
	if subject, err := h.Subject(); err == nil {
		msg.Subject = subject
	} else {
		msg.Subject = h.Get("Subject")
	}
	if from, err := h.AddressList("From"); err == nil && len(from) > 0 {
		msg.Sender = from[0].Address
		msg.SenderName = from[0].Name
	} else {
		msg.Sender = strings.TrimSpace(h.Get("From"))
	}
	if date, err := h.Date(); err == nil && !date.IsZero() {
		msg.ReceivedAt = date
	} else {
		msg.ReceivedAt = time.Now()
	}
}

// HTMLToText drops scripts and styles and collapses the document text to
// one line per non-empty line
func HTMLToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	doc.Find("script, style, head").Remove()
	doc.Find("br, p, div, li, tr, h1, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	return strings.Join(lines, "\n")
}

// Snippet collapses whitespace and keeps the first runes of body
func Snippet(body string) string {
	collapsed := []rune(strings.Join(strings.Fields(body), " "))
	if len(collapsed) <= snippetRunes {
		return string(collapsed)
	}
	return string(collapsed[:snippetRunes]) + "..."
}

func syntheticID(raw []byte) string {
	sum := sha256.Sum256(raw)
	return "local-" + hex.EncodeToString(sum[:8])
}

func hasLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
