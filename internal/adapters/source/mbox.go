package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	mboxlib "github.com/emersion/go-mbox"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/mailparse"
	"go.uber.org/zap"
)

// MboxSource loads messages from an mbox archive. Messages that fail to parse
// are skipped and logged.
type MboxSource struct {
	path   string
	limit  int
	logger *zap.Logger
}

// NewMboxSource creates an mbox source
func NewMboxSource(path string, limit int, logger *zap.Logger) *MboxSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MboxSource{path: path, limit: limit, logger: logger}
}

// Name identifies the source
func (s *MboxSource) Name() string {
	return "mbox:" + s.path
}

// Load reads the archive. Reading stops once the batch limit is reached.
func (s *MboxSource) Load(ctx context.Context) ([]*core.Message, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open mbox: %w", err)
	}
	defer file.Close()

	return s.read(ctx, file)
}

func (s *MboxSource) read(ctx context.Context, r io.Reader) ([]*core.Message, error) {
	reader := mboxlib.NewReader(r)

	var messages []*core.Message
	for idx := 0; ; idx++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msgReader, err := reader.NextMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("message %d: %w", idx, err)
		}

		if s.limit > 0 && len(messages) == s.limit {
			s.logger.Warn("Batch exceeds max batch size, truncating",
				zap.String("source", s.Name()),
				zap.Int("max_batch_size", s.limit))
			break
		}

		msg, err := mailparse.Parse(msgReader)
		if err != nil {
			s.logger.Warn("Skipping unparsable mbox message", zap.Int("index", idx), zap.Error(err))
			continue
		}
		messages = append(messages, msg)
	}

	s.logger.Debug("Loaded mbox messages", zap.String("path", s.path), zap.Int("count", len(messages)))
	return uniqueIDs(messages, s.Name(), s.logger), nil
}
