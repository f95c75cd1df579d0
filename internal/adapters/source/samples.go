package source

import (
	"context"
	"fmt"
	"time"

	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
)

type sample struct {
	id         string
	sender     string
	senderName string
	subject    string
	body       string
	age        time.Duration
	labels     []string
}

var samples = []sample{
	{
		id:         "sample_001",
		sender:     "john.smith@company.com",
		senderName: "John Smith",
		subject:    "Urgent: Q4 Budget Review Meeting",
		body: `Hi Team,

We need to schedule an urgent meeting to review the Q4 budget allocations. There are some significant variances that need immediate attention.

Please confirm your availability for tomorrow at 2 PM EST. This is high priority and requires everyone's presence.

Key points to discuss:
- Marketing overspend by 15%
- IT infrastructure needs
- Resource reallocation proposals

Thanks,
John`,
		age:    2 * time.Hour,
		labels: []string{"UNREAD", "IMPORTANT"},
	},
	{
		id:         "sample_002",
		sender:     "newsletter@techinsights.com",
		senderName: "Tech Insights Weekly",
		subject:    "Weekly Tech Digest: AI Trends 2025",
		body: `Hello Subscriber,

Here's your weekly roundup of the latest in technology:

1. AI Agents Transform Business Operations
2. Cloud Computing Costs Continue to Rise
3. Cybersecurity Best Practices for Remote Teams
4. The Future of Low-Code Development

Read more at our website.

Best regards,
Tech Insights Team`,
		age:    24 * time.Hour,
		labels: []string{"UNREAD"},
	},
	{
		id:         "sample_003",
		sender:     "sarah.johnson@client.com",
		senderName: "Sarah Johnson",
		subject:    "RE: Project Milestone Delivery",
		body: `Hi,

Thank you for delivering the first milestone ahead of schedule. The quality of work is excellent and the stakeholders are very impressed.

For the next phase, could you provide:
1. Updated timeline
2. Resource requirements
3. Risk assessment

Looking forward to continuing our collaboration.

Best,
Sarah`,
		age:    5 * time.Hour,
		labels: []string{"UNREAD", "IMPORTANT"},
	},
	{
		id:         "sample_004",
		sender:     "hr@company.com",
		senderName: "HR Department",
		subject:    "FYI: Updated PTO Policy 2025",
		body: `Dear Team,

This is to inform you about updates to our Paid Time Off policy effective January 1, 2025:

- Increased annual PTO days from 15 to 18
- New parental leave benefits
- Flexible holiday scheduling
- Rollover policy changes

Full details are available on the employee portal. No action required at this time.

HR Team`,
		age:    72 * time.Hour,
		labels: []string{"UNREAD"},
	},
	{
		id:         "sample_005",
		sender:     "mike.brown@vendor.com",
		senderName: "Mike Brown",
		subject:    "Follow-up: Contract Renewal Discussion",
		body: `Hi,

Following up on our conversation last week regarding the contract renewal. We've prepared the updated terms and pricing.

Can we schedule a call this week to go over the details? I'm available Tuesday through Thursday afternoons.

Please let me know what works best for you.

Regards,
Mike`,
		age:    8 * time.Hour,
		labels: []string{"UNREAD"},
	},
	{
		id:         "sample_006",
		sender:     "security@company.com",
		senderName: "IT Security",
		subject:    "URGENT: Security Patch Required",
		body: `IMMEDIATE ACTION REQUIRED

A critical security vulnerability has been identified in our VPN software. You must install the security patch by end of day today.

Steps:
1. Close all applications
2. Run the Security Update tool from IT portal
3. Restart your computer
4. Confirm completion by replying to this email

Failure to comply may result in account suspension for security reasons.

IT Security Team`,
		age:    30 * time.Minute,
		labels: []string{"UNREAD", "IMPORTANT"},
	},
	{
		id:         "sample_007",
		sender:     "events@company.com",
		senderName: "Events Team",
		subject:    "Invitation: Annual Company Holiday Party",
		body: `You're Invited!

Join us for our Annual Holiday Celebration on December 15th at 6 PM at the Grand Ballroom.

This year's theme: Winter Wonderland

- Dinner and drinks
- Live entertainment
- Awards ceremony
- Secret Santa gift exchange ($25 limit)

RSVP by December 1st. Plus-one welcome!

Event Team`,
		age:    120 * time.Hour,
		labels: []string{"UNREAD"},
	},
	{
		id:         "sample_008",
		sender:     "spam@promo-deals.xyz",
		senderName: "Amazing Deals",
		subject:    "You WON! Claim Your Prize NOW!!!",
		body: `CONGRATULATIONS!!!

You have been selected as our LUCKY WINNER! Claim your $1000 gift card NOW by clicking the link below.

CLICK HERE TO CLAIM YOUR PRIZE!!!

This offer expires in 24 hours. Don't miss out on this amazing opportunity!

*Terms and conditions apply. Must provide credit card for verification.`,
		age:    48 * time.Hour,
		labels: []string{"UNREAD", "SPAM"},
	},
	{
		id:         "sample_009",
		sender:     "emma.davis@partner.com",
		senderName: "Emma Davis",
		subject:    "Quick question about API integration",
		body: `Hey,

Quick question - I'm working on integrating our systems with your API and running into an authentication issue with OAuth2.

The error message says "invalid_grant" when trying to refresh the access token. Could you point me to the right documentation or let me know if there's a known issue?

Not urgent, but would appreciate guidance when you have a moment.

Thanks!
Emma`,
		age:    12 * time.Hour,
		labels: []string{"UNREAD"},
	},
	{
		id:         "sample_010",
		sender:     "ceo@company.com",
		senderName: "CEO",
		subject:    "All-Hands Meeting: Company Direction 2025",
		body: `Team,

I'm scheduling an all-hands meeting for next Monday at 10 AM to discuss our strategic direction for 2025.

Agenda:
- Year-end review and achievements
- 2025 objectives and key results
- Organizational changes
- Q&A session

This is mandatory attendance. The meeting will be recorded for those traveling.

We've accomplished great things this year and I'm excited to share our vision for the future.

CEO`,
		age:    3 * time.Hour,
		labels: []string{"UNREAD", "IMPORTANT"},
	},
}

// SampleSource serves a built-in backlog for demos and offline runs.
// Received times are relative to the clock so urgency ageing behaves the
// same on every run.
type SampleSource struct {
	now    func() time.Time
	limit  int
	logger *zap.Logger
}

// NewSampleSource creates a sample source. limit <= 0 returns every sample.
func NewSampleSource(now func() time.Time, limit int, logger *zap.Logger) *SampleSource {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SampleSource{now: now, limit: limit, logger: logger}
}

// Name identifies the source
func (s *SampleSource) Name() string {
	return "samples"
}

// Load returns the sample backlog
func (s *SampleSource) Load(ctx context.Context) ([]*core.Message, error) {
	now := s.now()
	messages := make([]*core.Message, 0, len(samples))
	for _, smp := range samples {
		messages = append(messages, &core.Message{
			ID:         smp.id,
			Sender:     smp.sender,
			SenderName: smp.senderName,
			Subject:    smp.subject,
			Body:       smp.body,
			ReceivedAt: now.Add(-smp.age),
			Labels:     append([]string(nil), smp.labels...),
		})
	}
	return capBatch(messages, s.limit, s.Name(), s.logger), nil
}

// capBatch truncates messages to limit, keeping source order
func capBatch(messages []*core.Message, limit int, name string, logger *zap.Logger) []*core.Message {
	if limit <= 0 || len(messages) <= limit {
		return messages
	}
	logger.Warn("Batch exceeds max batch size, truncating",
		zap.String("source", name),
		zap.Int("loaded", len(messages)),
		zap.Int("max_batch_size", limit))
	return messages[:limit]
}

// uniqueIDs renames repeated message IDs within a batch by suffixing the
// occurrence count, so the first message keeps its ID.
func uniqueIDs(messages []*core.Message, name string, logger *zap.Logger) []*core.Message {
	seen := make(map[string]bool, len(messages))
	for _, msg := range messages {
		seen[msg.ID] = true
	}

	taken := make(map[string]bool, len(messages))
	for _, msg := range messages {
		if !taken[msg.ID] {
			taken[msg.ID] = true
			continue
		}

		original := msg.ID
		for n := 2; ; n++ {
			candidate := fmt.Sprintf("%s#%d", original, n)
			if !taken[candidate] && !seen[candidate] {
				msg.ID = candidate
				break
			}
		}
		taken[msg.ID] = true
		logger.Warn("Duplicate message ID in batch, renamed",
			zap.String("source", name),
			zap.String("message_id", original),
			zap.String("renamed_to", msg.ID))
	}
	return messages
}
