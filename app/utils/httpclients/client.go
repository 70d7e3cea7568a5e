// Package httpclients builds the shared resty.Client used by every
// provider adapter, generalizing the teacher's `httpclients.NewClient(name)`
// construction so each provider client only has to set its own base URL.
package httpclients

import (
	"fmt"
	"strings"

	"resty.dev/v3"

	"github.com/scholarfed/engine/config/environment_variables"
)

const maxErrorBodyPreview = 512

// NewClient builds a named resty client with the configured default
// timeout applied. name is used only for logging/diagnostic context, the
// same role it plays at the teacher's `httpclients.NewClient("JanInferenceClient")`
// call sites.
func NewClient(name string) *resty.Client {
	return resty.New().
		SetTimeout(environment_variables.EnvironmentVariables.HTTPTimeout).
		SetHeader("User-Agent", "scholarfed-engine/1.0 ("+name+")")
}

// ErrorFromResponse renders a resty error response into a Go error,
// folding in a trimmed preview of the response body the same way the
// teacher's per-client errorFromResponse helpers do.
func ErrorFromResponse(resp *resty.Response) error {
	if resp == nil {
		return fmt.Errorf("request failed with no response")
	}
	body := strings.TrimSpace(resp.String())
	if len(body) > maxErrorBodyPreview {
		body = body[:maxErrorBodyPreview] + "..."
	}
	if body == "" {
		return fmt.Errorf("request failed with status %d", resp.StatusCode())
	}
	return fmt.Errorf("request failed with status %d: %s", resp.StatusCode(), body)
}
