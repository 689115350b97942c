package telemetry

import (
	"runtime"

	"github.com/ladle-sh/ladle/pkg/version"
)

// Event names.
const (
	EventCLICommandExecuted = "cli_command_executed"
	EventSearchExecuted     = "search_executed"
	EventRecipesImported    = "recipes_imported"
	EventMCPToolCalled      = "mcp_tool_called"
	EventAPIRequest         = "api_request"
)

// baseProperties returns common properties for all events.
func baseProperties() map[string]interface{} {
	return map[string]interface{}{
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
		"version": version.Short(),
	}
}

// TrackCLICommandExecuted tracks a CLI command invocation. The command
// name is recorded, never its arguments.
func (c *posthogClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
	props := baseProperties()
	props["command_name"] = commandName
	props["has_flags"] = hasFlags
	props["duration_ms"] = durationMs
	c.Track(EventCLICommandExecuted, props)
}

// TrackSearchExecuted tracks a search run. Only aggregate shape is
// recorded; the query text never leaves the machine.
func (c *posthogClient) TrackSearchExecuted(resultCount int, strategy string, usedFallback bool, durationMs int64) {
	props := baseProperties()
	props["result_count"] = resultCount
	props["strategy"] = strategy
	props["used_fallback"] = usedFallback
	props["duration_ms"] = durationMs
	c.Track(EventSearchExecuted, props)
}

// TrackRecipesImported tracks the outcome of an import run.
func (c *posthogClient) TrackRecipesImported(source string, imported, updated, failed int) {
	props := baseProperties()
	props["source"] = source
	props["imported"] = imported
	props["updated"] = updated
	props["failed"] = failed
	c.Track(EventRecipesImported, props)
}

// TrackMCPToolCalled tracks an MCP tool invocation.
func (c *posthogClient) TrackMCPToolCalled(toolName string, success bool, durationMs int64) {
	props := baseProperties()
	props["tool_name"] = toolName
	props["success"] = success
	props["duration_ms"] = durationMs
	c.Track(EventMCPToolCalled, props)
}

// TrackAPIRequest tracks an HTTP API request by route template.
func (c *posthogClient) TrackAPIRequest(route string, status int, durationMs int64) {
	props := baseProperties()
	props["route"] = route
	props["status"] = status
	props["duration_ms"] = durationMs
	c.Track(EventAPIRequest, props)
}

// No-op implementations for disabled telemetry.

func (c *noopClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {}
func (c *noopClient) TrackSearchExecuted(resultCount int, strategy string, usedFallback bool, durationMs int64) {
}
func (c *noopClient) TrackRecipesImported(source string, imported, updated, failed int) {}
func (c *noopClient) TrackMCPToolCalled(toolName string, success bool, durationMs int64) {}
func (c *noopClient) TrackAPIRequest(route string, status int, durationMs int64)        {}
