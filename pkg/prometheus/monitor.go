package prometheus

import "github.com/prometheus/client_golang/prometheus"

// Monitor represents a Prometheus monitor
// It contains Prometheus registry and all available metrics
type Monitor struct {
	Registry *prometheus.Registry

	LinksGenerated     *prometheus.CounterVec
	LinkFailures       *prometheus.CounterVec
	CacheHits          *prometheus.CounterVec
	CompletionDuration *prometheus.HistogramVec

	OpenAiInputTokens     *prometheus.CounterVec
	OpenAiOutputTokens    *prometheus.CounterVec
	AnthropicInputTokens  *prometheus.CounterVec
	AnthropicOutputTokens *prometheus.CounterVec
}

// New creates a new Monitor
func New() *Monitor {
	reg := prometheus.NewRegistry()
	monitor := &Monitor{
		Registry: reg,

		LinksGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calassist_links_generated_total",
			Help: "Number of generated calendar links",
		}, []string{"dates"}),

		LinkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calassist_link_failures_total",
			Help: "Number of failed link generations by reason",
		}, []string{"reason"}),

		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calassist_cache_hits_total",
			Help: "Number of completions served from the store",
		}, []string{}),

		CompletionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "calassist_completion_duration_seconds",
			Help:    "Duration of chat completion calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"provider"}),

		OpenAiInputTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calassist_openai_input_tokens_total",
			Help: "OpenAI prompt tokens",
		}, []string{}),

		OpenAiOutputTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calassist_openai_output_tokens_total",
			Help: "OpenAI completion tokens",
		}, []string{}),

		AnthropicInputTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calassist_anthropic_input_tokens_total",
			Help: "Anthropic input tokens",
		}, []string{}),

		AnthropicOutputTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calassist_anthropic_output_tokens_total",
			Help: "Anthropic output tokens",
		}, []string{}),
	}

	reg.MustRegister(
		monitor.LinksGenerated,
		monitor.LinkFailures,
		monitor.CacheHits,
		monitor.CompletionDuration,
		monitor.OpenAiInputTokens,
		monitor.OpenAiOutputTokens,
		monitor.AnthropicInputTokens,
		monitor.AnthropicOutputTokens,
	)

	return monitor
}
