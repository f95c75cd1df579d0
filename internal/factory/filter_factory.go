package factory

import (
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/mikey/mail-triage/internal/adapters/filter"
	"github.com/mikey/mail-triage/internal/analysis"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
)

// FilterFactory creates triage front ends
type FilterFactory struct {
	cfg          *config.Config
	logger       *zap.Logger
	service      *core.TriageService
	orchestrator *core.BatchOrchestrator
	analyzer     *analysis.Analyzer
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(
	cfg *config.Config,
	logger *zap.Logger,
	service *core.TriageService,
	orchestrator *core.BatchOrchestrator,
	analyzer *analysis.Analyzer,
) *FilterFactory {
	return &FilterFactory{
		cfg:          cfg,
		logger:       logger,
		service:      service,
		orchestrator: orchestrator,
		analyzer:     analyzer,
	}
}

// CreateSMTPFilter creates the SMTP content filter from the server configuration
func (f *FilterFactory) CreateSMTPFilter() (*filter.SMTPFilter, error) {
	serverCfg, err := f.cfg.GetServer()
	if err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}

	return filter.NewSMTPFilter(f.service, f.logger, filter.SMTPOptions{
		ListenAddress:   serverCfg.ListenAddress,
		Domain:          serverCfg.Domain,
		MaxMessageBytes: serverCfg.MaxMessageBytes,
		ReadTimeout:     serverCfg.ReadTimeout,
		WriteTimeout:    serverCfg.WriteTimeout,
		ReinjectEnabled: serverCfg.ReinjectEnabled,
		ReinjectAddress: net.JoinHostPort(serverCfg.ReinjectAddress, strconv.Itoa(serverCfg.ReinjectPort)),
		SubjectPrefix:   serverCfg.SubjectPrefix,
		Headers: filter.HeaderNames{
			Intent:    serverCfg.Headers.Intent,
			Urgency:   serverCfg.Headers.Urgency,
			Sentiment: serverCfg.Headers.Sentiment,
			Source:    serverCfg.Headers.Source,
			Summary:   serverCfg.Headers.Summary,
		},
	}), nil
}

// CreateCliFilter creates the command-line report filter writing to out
func (f *FilterFactory) CreateCliFilter(out io.Writer, verbose, jsonOutput bool) *filter.CliFilter {
	return filter.NewCliFilter(f.service, f.orchestrator, f.analyzer, f.logger, out, verbose, jsonOutput)
}
