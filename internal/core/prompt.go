package core

import (
	"fmt"
	"strings"
	"time"
)

// SystemPrompt frames the model for every triage request
const SystemPrompt = "You are an expert email assistant that analyzes emails and provides concise, actionable insights."

const promptFormat = `Analyze this email and provide a structured response in the following format:

SUMMARY: (3-5 lines summarizing the key points and any required actions)

INTENT: (Choose ONE: %s)

URGENCY: (Choose ONE: %s)

SENTIMENT: (Choose ONE: %s)

SUGGESTED_REPLIES:
1. [Short reply option 1]
2. [Short reply option 2]
3. [Short reply option 3]

Email to analyze:

Subject: %s
From: %s <%s>
Date: %s

Body:
%s
`

// BuildPrompt renders the triage prompt for msg with an already prepared body
func BuildPrompt(msg *Message, body string) string {
	subject := msg.Subject
	if subject == "" {
		subject = "No Subject"
	}
	senderName := msg.SenderName
	if senderName == "" {
		senderName = "Unknown"
	}
	sender := msg.Sender
	if sender == "" {
		sender = "unknown@example.com"
	}
	received := msg.ReceivedAt
	if received.IsZero() {
		received = time.Now()
	}

	return fmt.Sprintf(promptFormat,
		joinEnum(Intents),
		joinEnum(Urgencies),
		joinEnum(Sentiments),
		subject,
		senderName,
		sender,
		received.Format("2006-01-02 15:04"),
		body,
	)
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
