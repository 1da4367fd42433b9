package config

import (
	"os"
	"strconv"
	"time"

	"gopact/internal/errors"
	"gopact/internal/logging"

	"gopkg.in/yaml.v3"
)

// fileWorkflow mirrors the YAML shape of a workflow config file. All fields
// are optional; absent fields keep their defaults. Durations are plain
// millisecond counts to stay aligned with the XCHAIN_*_MS environment knobs.
type fileWorkflow struct {
	AttemptsTx        *int  `yaml:"attempts_tx"`
	IntervalTxMs      *int  `yaml:"interval_tx_ms"`
	PostConfirmWaitMs *int  `yaml:"post_confirm_wait_ms"`
	AttemptsSPV       *int  `yaml:"attempts_spv"`
	IntervalSPVMs     *int  `yaml:"interval_spv_ms"`
	AttemptsFinal     *int  `yaml:"attempts_final"`
	IntervalFinalMs   *int  `yaml:"interval_final_ms"`
	MaxTotalTimeMs    *int  `yaml:"max_total_time_ms"`
	Verbose           *bool `yaml:"verbose"`
}

type fileConfig struct {
	Workflow fileWorkflow `yaml:"workflow"`
}

// LoadWorkflowFile overlays a YAML config file onto base. A missing file is
// a configuration error; call only when the caller asked for a file.
func LoadWorkflowFile(path string, base Workflow) (Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, errors.Wrap(err, errors.ErrorTypeConfiguration,
			"failed to read workflow config file")
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return base, errors.Wrap(err, errors.ErrorTypeConfiguration,
			"failed to parse workflow config YAML")
	}

	out := base
	applyFileOverrides(&out, fc.Workflow)
	logging.Debug("loaded workflow config from %s", path)
	return out, nil
}

func applyFileOverrides(w *Workflow, f fileWorkflow) {
	if f.AttemptsTx != nil {
		w.AttemptsTx = *f.AttemptsTx
	}
	if f.IntervalTxMs != nil {
		w.IntervalTx = time.Duration(*f.IntervalTxMs) * time.Millisecond
	}
	if f.PostConfirmWaitMs != nil {
		w.PostConfirmWait = time.Duration(*f.PostConfirmWaitMs) * time.Millisecond
	}
	if f.AttemptsSPV != nil {
		w.AttemptsSPV = *f.AttemptsSPV
	}
	if f.IntervalSPVMs != nil {
		w.IntervalSPV = time.Duration(*f.IntervalSPVMs) * time.Millisecond
	}
	if f.AttemptsFinal != nil {
		w.AttemptsFinal = *f.AttemptsFinal
	}
	if f.IntervalFinalMs != nil {
		w.IntervalFinal = time.Duration(*f.IntervalFinalMs) * time.Millisecond
	}
	if f.MaxTotalTimeMs != nil {
		w.MaxTotalTime = time.Duration(*f.MaxTotalTimeMs) * time.Millisecond
	}
	if f.Verbose != nil {
		w.Verbose = *f.Verbose
	}
}

// ApplyEnvOverrides overlays XCHAIN_* environment variables onto w. Unset or
// malformed variables leave the current value untouched.
func ApplyEnvOverrides(w Workflow) Workflow {
	w.AttemptsTx = envInt("XCHAIN_ATTEMPTS", w.AttemptsTx)
	w.IntervalTx = envMs("XCHAIN_INTERVAL_MS", w.IntervalTx)
	w.PostConfirmWait = envMs("XCHAIN_POST_CONFIRM_WAIT_MS", w.PostConfirmWait)
	w.AttemptsSPV = envInt("XCHAIN_SPV_ATTEMPTS", w.AttemptsSPV)
	w.IntervalSPV = envMs("XCHAIN_SPV_INTERVAL_MS", w.IntervalSPV)
	w.AttemptsFinal = envInt("XCHAIN_FINAL_ATTEMPTS", w.AttemptsFinal)
	w.IntervalFinal = envMs("XCHAIN_FINAL_INTERVAL_MS", w.IntervalFinal)
	w.MaxTotalTime = envMs("XCHAIN_MAX_TOTAL_TIME_MS", w.MaxTotalTime)
	w.Verbose = envBool("XCHAIN_VERBOSE", w.Verbose)
	return w
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		logging.Warn("ignoring %s=%q: not a non-negative integer", key, v)
		return fallback
	}
	return n
}

func envMs(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		logging.Warn("ignoring %s=%q: not a non-negative integer", key, v)
		return fallback
	}
	return time.Duration(n) * time.Millisecond
}

func envBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}
