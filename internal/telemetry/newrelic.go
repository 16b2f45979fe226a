package telemetry

import (
	"net/http"
	"time"

	"github.com/creativehub205/ladies-tailor-shop/config"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
)

const defaultConnectTimeout = 5 * time.Second

// clientErrors are expected responses to bad input and are not reported as errors
var clientErrors = []int{
	http.StatusBadRequest,
	http.StatusUnauthorized,
	http.StatusForbidden,
	http.StatusNotFound,
	http.StatusConflict,
	http.StatusRequestEntityTooLarge,
}

// InitNewRelic starts the New Relic agent. It returns a nil application
// when monitoring is disabled or no license key is configured.
func InitNewRelic(cfg config.NewRelicConfig) (*newrelic.Application, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		return nil, nil
	}

	app, err := newrelic.NewApplication(options(cfg)...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize New Relic")
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	if err := app.WaitForConnection(timeout); err != nil {
		app.Shutdown(time.Second)
		return nil, errors.Wrapf(err, "New Relic did not connect within %s", timeout)
	}
	return app, nil
}

func options(cfg config.NewRelicConfig) []newrelic.ConfigOption {
	return []newrelic.ConfigOption{
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
		newrelic.ConfigAppLogForwardingEnabled(true),
		func(c *newrelic.Config) {
			c.Labels = map[string]string{"service": "tailor-shop"}
			c.ErrorCollector.IgnoreStatusCodes = append(c.ErrorCollector.IgnoreStatusCodes, clientErrors...)
		},
	}
}
