package analysis

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/utils"
)

const (
	maxDates   = 3
	maxTimes   = 3
	maxAmounts = 3
	maxURLs    = 2

	wordsPerMinute = 200
)

var (
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
		regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{1,2},? \d{4}\b`),
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	}
	timePattern  = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(?:\s*[AP]M)?\b`)
	moneyPattern = regexp.MustCompile(`(?i)\$\d+(?:,\d{3})*(?:\.\d{2})?|\b\d+(?:,\d{3})*(?:\.\d{2})?\s*(?:dollars|USD|EUR|GBP)\b`)
	phonePattern = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	urlPattern   = regexp.MustCompile(`https?://[^\s<>"']+`)
)

// Analyzer performs per-message pattern analysis. Every method is a pure
// function of its inputs and the injected lexicon and clock.
type Analyzer struct {
	lex Lexicon
	now func() time.Time
}

// NewAnalyzer creates an analyzer. A nil clock means time.Now.
func NewAnalyzer(lex Lexicon, now func() time.Time) *Analyzer {
	if now == nil {
		now = time.Now
	}
	return &Analyzer{lex: lex, now: now}
}

// Analyze runs every per-message analysis for a classified message
func (a *Analyzer) Analyze(msg *core.Message, result *core.ClassificationResult) *Insight {
	return &Insight{
		Style:        a.AnalyzeStyle(msg),
		Entities:     a.ExtractEntities(msg),
		Response:     a.PredictResponseTime(result),
		Category:     a.Categorize(msg),
		Relationship: a.Relationship(msg),
	}
}

// AnalyzeStyle scores formality, emotion, complexity and pace
func (a *Analyzer) AnalyzeStyle(msg *core.Message) StyleProfile {
	body := msg.Text()
	combined := utils.Fold(msg.Subject + " " + body)
	words := strings.Fields(combined)

	formality := clamp(50 + 15*utils.CountMatches(combined, a.lex.FormalMarkers) - 15*utils.CountMatches(combined, a.lex.CasualMarkers))

	emotion := EmotionNeutral
	switch {
	case utils.ContainsAny(combined, a.lex.UrgentWords):
		emotion = EmotionUrgent
	case utils.ContainsAny(combined, a.lex.NegativeWords):
		emotion = EmotionConcerned
	case utils.ContainsAny(combined, a.lex.PositiveWords):
		emotion = EmotionPositive
	}

	letters := 0
	for _, w := range words {
		letters += utf8.RuneCountInString(w)
	}
	avgWordLength := float64(letters) / float64(max(len(words), 1))
	sentences := strings.Count(combined, ".") + strings.Count(combined, "!") + strings.Count(combined, "?")
	complexity := clamp(int(math.Round(avgWordLength*10 + float64(len(words))/float64(max(sentences, 1)))))

	return StyleProfile{
		FormalityScore:    formality,
		FormalityLevel:    formalityLevel(formality),
		Emotion:           emotion,
		ComplexityScore:   complexity,
		ReadingDifficulty: difficulty(complexity),
		Pace:              pace(body, len(words)),
		WordCount:         len(words),
		ReadTimeMinutes:   max(1, len(words)/wordsPerMinute),
	}
}

// ExtractEntities pulls dates, times, amounts, phone numbers, URLs and
// action verbs out of the message body
func (a *Analyzer) ExtractEntities(msg *core.Message) EntityBundle {
	body := msg.Text()
	folded := utils.Fold(body)

	var dates []string
	for _, re := range datePatterns {
		dates = append(dates, re.FindAllString(body, -1)...)
	}

	urls := urlPattern.FindAllString(body, -1)
	for i, u := range urls {
		urls[i] = strings.TrimRight(u, ".,;:!?)")
	}

	return EntityBundle{
		Dates:          head(dates, maxDates),
		Times:          head(timePattern.FindAllString(body, -1), maxTimes),
		Amounts:        head(moneyPattern.FindAllString(body, -1), maxAmounts),
		Phones:         nonNil(phonePattern.FindAllString(body, -1)),
		URLs:           head(urls, maxURLs),
		ActionItems:    nonNil(utils.MatchedKeywords(folded, a.lex.ActionVerbs)),
		HasAttachments: utils.ContainsAny(folded, a.lex.AttachmentWords),
	}
}

// PredictResponseTime recommends a turnaround from the urgency band and intent
func (a *Analyzer) PredictResponseTime(result *core.ClassificationResult) ResponsePrediction {
	base, ok := a.lex.UrgencyHours[result.Urgency]
	if !ok {
		base = 24
	}
	multiplier, ok := a.lex.IntentMultipliers[result.Intent.Key()]
	if !ok {
		multiplier = 1.0
	}
	hours := base * multiplier

	return ResponsePrediction{
		RecommendedHours: hours,
		Deadline:         a.now().Add(time.Duration(hours * float64(time.Hour))),
		PriorityScore:    clamp(int(100 - 2*hours)),
		Label:            responseLabel(hours),
	}
}

// Categorize returns the first business category whose keywords appear in
// the message, or DefaultCategory
func (a *Analyzer) Categorize(msg *core.Message) string {
	combined := utils.Fold(msg.Subject + " " + msg.Text())
	for _, category := range a.lex.Categories {
		if utils.ContainsAny(combined, category.Keywords) {
			return category.Name
		}
	}
	return DefaultCategory
}

// Relationship infers how the sender relates to the reader
func (a *Analyzer) Relationship(msg *core.Message) string {
	body := utils.Fold(msg.Text())
	sender := strings.ToLower(msg.Sender)

	switch {
	case utils.ContainsAny(body, a.lex.ColleagueWords):
		return RelationshipColleague
	case utils.ContainsAny(body, a.lex.PartnerWords):
		return RelationshipPartner
	case utils.ContainsAny(body, a.lex.LeadershipWords):
		return RelationshipLeadership
	case !strings.Contains(sender, "@"):
		return RelationshipInternal
	}
	for _, suffix := range a.lex.InternalSuffixes {
		if strings.HasSuffix(sender, suffix) {
			return RelationshipInternal
		}
	}
	return RelationshipExternal
}

func formalityLevel(score int) FormalityLevel {
	switch {
	case score > 60:
		return FormalityFormal
	case score < 40:
		return FormalityCasual
	default:
		return FormalityBalanced
	}
}

func difficulty(complexity int) Difficulty {
	switch {
	case complexity > 70:
		return DifficultyComplex
	case complexity > 40:
		return DifficultyModerate
	default:
		return DifficultySimple
	}
}

// pace counts punctuation in the body only
func pace(body string, words int) Pace {
	switch {
	case strings.Count(body, "!") > 2:
		return PaceEnergetic
	case strings.Count(body, "?") > 3:
		return PaceInquisitive
	case words < 50:
		return PaceConcise
	default:
		return PaceDetailed
	}
}

func responseLabel(hours float64) ResponseLabel {
	switch {
	case hours <= 2:
		return ResponseCritical
	case hours <= 8:
		return ResponseHigh
	case hours <= 24:
		return ResponseNormal
	default:
		return ResponseLow
	}
}

func clamp(v int) int {
	return min(100, max(0, v))
}

func head(values []string, n int) []string {
	if len(values) > n {
		values = values[:n]
	}
	return nonNil(values)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
