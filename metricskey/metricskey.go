// Package metricskey describes the metrics emitted by the codecs
package metricskey

import "github.com/effective-security/metrics"

// Perf
var (
	// PerfCryptoOperation is perf metric
	PerfCryptoOperation = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_crypto",
		Help:         "perf_crypto provides the sample metrics of key generation and signing",
		RequiredTags: []string{"provider", "action"},
	}

	// PerfCodecOperation is perf metric
	PerfCodecOperation = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_codec",
		Help:         "perf_codec provides the sample metrics of CSR building and certificate parsing",
		RequiredTags: []string{"codec", "action"},
	}
)

// Metrics returns slice of metrics from this repo
var Metrics = []*metrics.Describe{
	&PerfCryptoOperation,
	&PerfCodecOperation,
}
