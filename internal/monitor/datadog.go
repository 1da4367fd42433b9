package monitor

import (
	"context"
	"net/http"
	"os"
	"time"

	datadogapi "github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"

	"gopact/internal/logging"
	"gopact/internal/xchain"
)

// Notifier ships workflow outcomes to Datadog as log events so transfer
// failures show up in the same place as the rest of the on-call tooling.
type Notifier struct {
	logsAPI *datadogV2.LogsApi
	authCtx context.Context
	service string
	logger  *logging.Logger
}

// NewFromEnv builds a notifier from DD_API_KEY / DD_APPLICATION_KEY. It
// returns nil when no API key is configured; a nil Notifier is safe to use
// and does nothing.
func NewFromEnv() *Notifier {
	apiKey := os.Getenv("DD_API_KEY")
	if apiKey == "" {
		return nil
	}
	appKey := os.Getenv("DD_APPLICATION_KEY")
	baseURL := os.Getenv("DATADOG_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.datadoghq.com"
	}

	apiCfg := datadogapi.NewConfiguration()
	apiCfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	apiCfg.Servers = datadogapi.ServerConfigurations{{URL: baseURL}}
	apiCfg.OperationServers = map[string]datadogapi.ServerConfigurations{
		"LogsApi.SubmitLog": {{URL: baseURL}},
	}
	apiClient := datadogapi.NewAPIClient(apiCfg)

	authCtx := datadogapi.NewDefaultContext(context.Background())
	authCtx = context.WithValue(authCtx, datadogapi.ContextAPIKeys, map[string]datadogapi.APIKey{
		"apiKeyAuth": {Key: apiKey},
		"appKeyAuth": {Key: appKey},
	})

	return &Notifier{
		logsAPI: datadogV2.NewLogsApi(apiClient),
		authCtx: authCtx,
		service: "gopact",
		logger:  logging.NewDefaultLogger("monitor"),
	}
}

// NotifyResult submits one log event describing a finished workflow run.
// Failures to deliver are logged and swallowed; monitoring must never fail
// a transfer that already has a result.
func (n *Notifier) NotifyResult(networkID string, result *xchain.Result) {
	if n == nil || result == nil {
		return
	}

	tags := "network:" + networkID + ",status:" + result.Status
	if result.FailedPhase != "" {
		tags += ",failed_phase:" + result.FailedPhase
	}

	items := []datadogV2.HTTPLogItem{{
		Ddsource: datadogapi.PtrString(n.service),
		Ddtags:   datadogapi.PtrString(tags),
		Service:  datadogapi.PtrString(n.service),
		Message:  result.JSON(),
	}}

	_, _, err := n.logsAPI.SubmitLog(n.authCtx, items, *datadogV2.NewSubmitLogOptionalParameters())
	if err != nil {
		n.logger.Warn("datadog submission failed: %v", err)
	}
}
