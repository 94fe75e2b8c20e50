package tracing

import (
	"io"
	"os"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-lib/metrics"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Bootstrap installs a jaeger tracer as the global tracer when JAEGER_AGENT_HOST
// or JAEGER_ENDPOINT is set. The returned closer flushes buffered spans.
func Bootstrap(serviceName string) (io.Closer, error) {
	if os.Getenv("JAEGER_AGENT_HOST") == "" && os.Getenv("JAEGER_ENDPOINT") == "" {
		logrus.Info("tracing disabled")
		return nopCloser{}, nil
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}
	tracer, closer, err := cfg.NewTracer(config.Logger(jaegerLogger{}), config.Metrics(metrics.NullFactory))
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(tracer)
	logrus.WithField("service", cfg.ServiceName).Info("tracing enabled")
	return closer, nil
}

type jaegerLogger struct{}

func (jaegerLogger) Error(msg string) {
	logrus.WithField("component", "jaeger").Error(msg)
}

func (jaegerLogger) Infof(msg string, args ...interface{}) {
	logrus.WithField("component", "jaeger").Debugf(msg, args...)
}
