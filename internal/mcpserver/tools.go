package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/iliakrupin/openapi-to-docx/describe"
	"github.com/iliakrupin/openapi-to-docx/markdown"
	"github.com/iliakrupin/openapi-to-docx/resolve"
	"github.com/iliakrupin/openapi-to-docx/spec"
)

type generateMarkdownInput struct {
	Spec         specInput `json:"spec"                     jsonschema:"The OpenAPI document to render"`
	MaxEndpoints int       `json:"max_endpoints,omitempty"  jsonschema:"Maximum number of endpoints to render (all when omitted)"`
}

type generateMarkdownOutput struct {
	Markdown       string `json:"markdown"`
	EndpointCount  int    `json:"endpoint_count"`
	TotalEndpoints int    `json:"total_endpoints"`
}

func handleGenerateMarkdown(ctx context.Context, _ *mcp.CallToolRequest, input generateMarkdownInput) (*mcp.CallToolResult, generateMarkdownOutput, error) {
	doc, err := input.Spec.load()
	if err != nil {
		return errResult(err), generateMarkdownOutput{}, nil
	}
	if err := spec.Validate(doc, nil); err != nil {
		return errResult(err), generateMarkdownOutput{}, nil
	}

	gen := markdown.NewGenerator(describe.NewBuilder(resolve.New(doc)))
	gen.MaxEndpoints = input.MaxEndpoints

	total := spec.CountEndpoints(doc)
	processed := total
	if input.MaxEndpoints > 0 && input.MaxEndpoints < total {
		processed = input.MaxEndpoints
	}

	return nil, generateMarkdownOutput{
		Markdown:       gen.Generate(ctx),
		EndpointCount:  processed,
		TotalEndpoints: total,
	}, nil
}

type inspectSpecInput struct {
	Spec specInput `json:"spec" jsonschema:"The OpenAPI document to inspect"`
}

type inspectSpecOutput struct {
	Title         string   `json:"title"`
	Version       string   `json:"version,omitempty"`
	OASVersion    string   `json:"oas_version"`
	EndpointCount int      `json:"endpoint_count"`
	Tags          []string `json:"tags,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

func handleInspectSpec(_ context.Context, _ *mcp.CallToolRequest, input inspectSpecInput) (*mcp.CallToolResult, inspectSpecOutput, error) {
	doc, err := input.Spec.load()
	if err != nil {
		return errResult(err), inspectSpecOutput{}, nil
	}
	if err := spec.Validate(doc, nil); err != nil {
		return errResult(err), inspectSpecOutput{}, nil
	}

	builder := describe.NewBuilder(resolve.New(doc))
	var tags []string
	for _, group := range builder.GroupByTag() {
		tags = append(tags, group.Tag)
	}

	info, _ := spec.GetMap(doc.Data, "info")
	return nil, inspectSpecOutput{
		Title:         spec.Title(doc),
		Version:       spec.GetString(info, "version"),
		OASVersion:    spec.OASVersion(doc),
		EndpointCount: spec.CountEndpoints(doc),
		Tags:          tags,
		Warnings:      doc.Warnings,
	}, nil
}
