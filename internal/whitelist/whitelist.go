package whitelist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker decides which senders are triaged by rules alone, without a model
// call. Typical entries are newsletter and notification domains.
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new rule-only domain checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}

	normalized := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "@")
		if domain != "" {
			normalized = append(normalized, domain)
		}
	}

	if len(normalized) > 0 {
		logger.Info("Initialized rule-only domain checker", zap.Strings("domains", normalized))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// Domains returns the normalized domain list
func (c *Checker) Domains() []string {
	return append([]string(nil), c.domains...)
}

// IsWhitelisted reports whether the sender's domain, or a parent of it, is listed
func (c *Checker) IsWhitelisted(from string) bool {
	if len(c.domains) == 0 {
		return false
	}

	at := strings.LastIndex(from, "@")
	if at < 0 || at == len(from)-1 {
		return false
	}
	domain := strings.ToLower(strings.Trim(from[at+1:], " >"))

	for _, listed := range c.domains {
		if domain == listed || strings.HasSuffix(domain, "."+listed) {
			c.logger.Debug("Sender domain is rule-only",
				zap.String("domain", domain),
				zap.String("sender", from))
			return true
		}
	}

	return false
}
