package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "testrail_prerun"
)

var (
	Debug                bool = true
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "api_requests_total",
		Help:      "Count of TestRail API requests",
	}, []string{
		"operation",
		"result",
	})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of TestRail API requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{
		"operation",
	})

	testsFiltered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "tests_filtered_total",
		Help:      "Count of test nodes seen by the pre-run filter",
	}, []string{
		"run_id",
		"decision",
	})

	stabilityCases = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "stability_cases_total",
		Help:      "Count of cases classified during stability analysis",
	}, []string{
		"run_id",
		"classification",
	})

	stabilityDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "stability_analysis_duration_seconds",
		Help:      "Duration of the stability analysis fan-out",
	}, []string{
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordAPIRequest records the outcome and duration of one TestRail API
// call.
func RecordAPIRequest(operation string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	}
	if Debug {
		log.Debug("metric inc",
			"m", "api_requests_total",
			"operation", operation,
			"result", result,
			"duration", duration)
	}
	apiRequestsTotal.WithLabelValues(operation, result).Inc()
	apiRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordFilterDecision records how many tests a suite kept and dropped.
func RecordFilterDecision(runID string, kept, dropped int) {
	if Debug {
		log.Debug("metric inc",
			"m", "tests_filtered_total",
			"run_id", runID,
			"kept", kept,
			"dropped", dropped)
	}
	testsFiltered.WithLabelValues(runID, "kept").Add(float64(kept))
	testsFiltered.WithLabelValues(runID, "dropped").Add(float64(dropped))
}

// RecordStability records the outcome of one stability analysis pass.
func RecordStability(runID string, stable, unstable int, duration time.Duration) {
	stabilityCases.WithLabelValues(runID, "stable").Add(float64(stable))
	stabilityCases.WithLabelValues(runID, "unstable").Add(float64(unstable))
	stabilityDuration.WithLabelValues(runID).Set(duration.Seconds())
}
