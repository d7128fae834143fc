package mcp

import (
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"grievance-analytics/internal/analytics"
	"grievance-analytics/internal/stats"
)

// ResponseEnvelope is the JSON body of every successful tool result.
type ResponseEnvelope struct {
	Data     any          `json:"data"`
	Context  *PassContext `json:"context,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
	Guidance []string     `json:"_guidance,omitempty"`
}

// PassContext tells the caller which snapshot and filter produced the data.
type PassContext struct {
	PassID       string       `json:"pass_id"`
	Source       string       `json:"source"`
	FetchedAt    time.Time    `json:"fetched_at"`
	Filter       stats.Filter `json:"filter"`
	TotalReports int          `json:"total_reports"`
}

func passContext(res analytics.Result) *PassContext {
	return &PassContext{
		PassID:       res.View.PassID,
		Source:       res.Source,
		FetchedAt:    res.FetchedAt,
		Filter:       res.View.Filter,
		TotalReports: res.View.TotalReports,
	}
}

// WrapResponse builds a tool result from the envelope parts. Non-empty charts
// are appended as separate text blocks.
func WrapResponse(data any, ctx *PassContext, warnings, guidance []string, charts ...string) *mcp.CallToolResult {
	env := ResponseEnvelope{
		Data:     data,
		Context:  ctx,
		Warnings: warnings,
		Guidance: guidance,
	}
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal tool response")
		return errorResult(err)
	}

	content := []mcp.Content{&mcp.TextContent{Text: string(out)}}
	for _, chart := range charts {
		if chart != "" {
			content = append(content, &mcp.TextContent{Text: chart})
		}
	}
	return &mcp.CallToolResult{Content: content}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
