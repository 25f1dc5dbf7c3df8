package fetch

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Rules adjust the response header of retrieved sources before their cache
// fields are read. The first matching rule is applied.
type Rules []Rule

type Rule struct {
	// Prefix the source URI must start with. An empty prefix matches every source.
	Prefix string `yaml:"prefix"`
	// Default Cache-Control used when the response has none.
	Default string `yaml:"default"`
	// Override replaces any Cache-Control of the response.
	Override string            `yaml:"override"`
	Headers  map[string]string `yaml:"headers"`
}

// Apply modifies header according to the first rule matching uri.
func (r Rules) Apply(uri string, header http.Header, logger *zerolog.Logger) {
	if rule := r.find(uri, logger); rule != nil {
		rule.apply(header, logger)
	}
}

func (rule Rule) apply(header http.Header, logger *zerolog.Logger) {
	if rule.Override != "" {
		logger.Trace().Msg("Overriding Cache-Control header")
		header.Set("Cache-Control", rule.Override)
	} else if rule.Default != "" && header.Get("Cache-Control") == "" {
		logger.Trace().Msg("Applying default Cache-Control header")
		header.Set("Cache-Control", rule.Default)
	}
	for name, value := range rule.Headers {
		logger.Trace().Msgf("Setting header %s", name)
		header.Set(name, value)
	}
}

func (r Rules) find(uri string, logger *zerolog.Logger) *Rule {
	for i, rule := range r {
		if strings.HasPrefix(uri, rule.Prefix) {
			logger.Trace().Msgf("Source matches rule %+v", rule)
			return &r[i]
		}
	}
	return nil
}
