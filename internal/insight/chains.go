package insight

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mikey/mail-triage/internal/core"
)

var replyPrefix = regexp.MustCompile(`(?i)^\s*(re:|fwd:)\s*`)

// NormalizeSubject lowercases a subject and strips one leading reply or
// forward marker
func NormalizeSubject(subject string) string {
	return strings.TrimSpace(replyPrefix.ReplaceAllString(strings.ToLower(subject), ""))
}

// DetectChains groups messages whose normalized subjects are equal or
// contain one another. Grouping is greedy left to right and each message
// joins at most one chain. Chains of one are dropped; the rest are ordered
// by size, largest first.
//
// The scan is quadratic, sized for a triage backlog rather than a mailbox.
func DetectChains(messages []*core.Message) []ThreadChain {
	normalized := make([]string, len(messages))
	for i, msg := range messages {
		normalized[i] = NormalizeSubject(msg.Subject)
	}

	processed := make([]bool, len(messages))
	var chains []ThreadChain

	for i, msg := range messages {
		if processed[i] {
			continue
		}
		processed[i] = true

		members := []*core.Message{msg}
		for j := i + 1; j < len(messages); j++ {
			if processed[j] || !related(normalized[i], normalized[j]) {
				continue
			}
			members = append(members, messages[j])
			processed[j] = true
		}

		if len(members) > 1 {
			chains = append(chains, ThreadChain{
				Subject:  canonicalSubject(msg.Subject),
				Messages: members,
				Size:     len(members),
			})
		}
	}

	sort.SliceStable(chains, func(a, b int) bool {
		return chains[a].Size > chains[b].Size
	})
	return chains
}

// related matches equal subjects or one containing the other. An empty
// subject only matches another empty subject.
func related(a, b string) bool {
	if a == b {
		return true
	}
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func canonicalSubject(subject string) string {
	canonical := strings.TrimSpace(replyPrefix.ReplaceAllString(subject, ""))
	if canonical == "" {
		return "No Subject"
	}
	return canonical
}

// ScoreThread measures the engagement of a chain
func ScoreThread(chain ThreadChain) ThreadScore {
	if len(chain.Messages) == 0 {
		return ThreadScore{MostActiveSender: "Unknown", Importance: ImportanceModerate}
	}

	counts := make(map[string]int)
	var order []string
	totalWords := 0
	for _, msg := range chain.Messages {
		if _, seen := counts[msg.Sender]; !seen {
			order = append(order, msg.Sender)
		}
		counts[msg.Sender]++
		totalWords += len(strings.Fields(msg.Body))
	}

	mostActive := order[0]
	for _, sender := range order[1:] {
		if counts[sender] > counts[mostActive] {
			mostActive = sender
		}
	}

	intensity := min(100, len(chain.Messages)*10+totalWords/100)
	importance := ImportanceModerate
	switch {
	case intensity > 70:
		importance = ImportanceCritical
	case intensity > 40:
		importance = ImportanceHigh
	}

	return ThreadScore{
		Length:           len(chain.Messages),
		Participants:     len(counts),
		MostActiveSender: mostActive,
		TotalWords:       totalWords,
		Intensity:        intensity,
		Importance:       importance,
	}
}
