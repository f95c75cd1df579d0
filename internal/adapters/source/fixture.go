package source

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// fixtureFile is the on-disk layout of a YAML message fixture:
//
//	messages:
//	  - id: m1
//	    sender: alice@example.com
//	    subject: Hello
//	    body: ...
//	    age: 2h
type fixtureFile struct {
	Messages []fixtureMessage `yaml:"messages"`
}

type fixtureMessage struct {
	core.Message `yaml:",inline"`
	// Age places the message relative to load time when received_at is absent
	Age string `yaml:"age"`
}

// FixtureSource loads messages from a YAML file
type FixtureSource struct {
	path   string
	now    func() time.Time
	limit  int
	logger *zap.Logger
}

// NewFixtureSource creates a YAML fixture source
func NewFixtureSource(path string, now func() time.Time, limit int, logger *zap.Logger) *FixtureSource {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FixtureSource{path: path, now: now, limit: limit, logger: logger}
}

// Name identifies the source
func (s *FixtureSource) Name() string {
	return "fixture:" + s.path
}

// Load reads and decodes the fixture file
func (s *FixtureSource) Load(ctx context.Context) ([]*core.Message, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode fixture file %s: %w", s.path, err)
	}

	now := s.now()
	messages := make([]*core.Message, 0, len(file.Messages))
	for i, fm := range file.Messages {
		msg := fm.Message
		if msg.ID == "" {
			msg.ID = fmt.Sprintf("fixture_%03d", i+1)
		}
		if msg.ReceivedAt.IsZero() {
			msg.ReceivedAt = now
			if fm.Age != "" {
				age, err := time.ParseDuration(fm.Age)
				if err != nil {
					return nil, fmt.Errorf("message %s: invalid age %q: %w", msg.ID, fm.Age, err)
				}
				msg.ReceivedAt = now.Add(-age)
			}
		}
		messages = append(messages, &msg)
	}

	s.logger.Debug("Loaded fixture messages", zap.String("path", s.path), zap.Int("count", len(messages)))
	return capBatch(uniqueIDs(messages, s.Name(), s.logger), s.limit, s.Name(), s.logger), nil
}
