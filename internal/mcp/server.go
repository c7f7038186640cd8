// Package mcp implements a minimal MCP (Model Context Protocol)
// server over stdio. It exposes the repo-config command lists so
// coding agents can discover how to test, format, and build a repo.
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kdeal/misc/internal/config"
	"github.com/kdeal/misc/internal/log"
)

const jsonrpcVersion = "2.0"
const protocolVersion = "2025-06-18"
const serverVersion = "0.1.0"

const methodNotFoundCode = -32601

// requestID passes the client's id through untouched, since JSON-RPC
// allows both strings and numbers.
type requestID = json.RawMessage

type request struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      requestID       `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type response struct {
	Jsonrpc string    `json:"jsonrpc"`
	ID      requestID `json:"id"`
	Result  any       `json:"result"`
}

type errorResponse struct {
	Jsonrpc string      `json:"jsonrpc"`
	ID      requestID   `json:"id"`
	Error   errorObject `json:"error"`
}

type errorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Title   string `json:"title,omitempty"`
}

type serverCapabilities struct {
	Tools toolsCapability `json:"tools"`
}

type toolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// Tool describes one callable tool in tools/list.
type Tool struct {
	Name         string         `json:"name"`
	Title        string         `json:"title,omitempty"`
	Description  string         `json:"description,omitempty"`
	InputSchema  map[string]any `json:"inputSchema"`
	OutputSchema map[string]any `json:"outputSchema,omitempty"`
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type callToolResult struct {
	Content           []textContent `json:"content"`
	IsError           bool          `json:"isError"`
	StructuredContent any           `json:"structuredContent,omitempty"`
}

// Server answers MCP requests read line by line from a stream.
type Server struct {
	info           implementation
	capabilities   serverCapabilities
	tools          []Tool
	loadRepoConfig func(repoRoot string) (config.RepoConfig, error)
}

func NewServer() *Server {
	return &Server{
		info: implementation{
			Name:    "wkfl",
			Version: serverVersion,
			Title:   "WKFL MCP Server",
		},
		capabilities:   serverCapabilities{Tools: toolsCapability{ListChanged: false}},
		tools:          commandTools(),
		loadRepoConfig: config.LoadRepoConfig,
	}
}

func commandTools() []Tool {
	commandTool := func(name, title, commandType string) Tool {
		return Tool{
			Name:        name,
			Title:       title,
			Description: fmt.Sprintf("Get %s commands configured in the repository's %s config", commandType, config.RepoConfigFileName),
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"repo_path": map[string]any{
						"type":        "string",
						"description": "Path to the repository root directory",
					},
				},
				"required": []string{"repo_path"},
			},
			OutputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"commands": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": fmt.Sprintf("List of %s commands", commandType),
					},
					"error": map[string]any{
						"type":        "string",
						"description": "Error message if command retrieval failed",
					},
				},
			},
		}
	}

	return []Tool{
		commandTool("get_test_commands", "Get Test Commands", "test"),
		commandTool("get_fmt_commands", "Get Format Commands", "format"),
		commandTool("get_build_commands", "Get Build Commands", "build"),
	}
}

// Run serves requests until the input stream closes.
func (s *Server) Run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	writer := bufio.NewWriter(out)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			log.Warn(log.CatMCP, "dropping unparseable message", "error", err)
			continue
		}

		reply := s.handleMessage(req)
		if reply == nil {
			continue
		}

		payload, err := json.Marshal(reply)
		if err != nil {
			return fmt.Errorf("encoding mcp response: %w", err)
		}
		if _, err := writer.Write(append(payload, '\n')); err != nil {
			return err
		}
		if err := writer.Flush(); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// handleMessage returns nil for notifications, which get no reply.
func (s *Server) handleMessage(req request) any {
	if len(req.ID) == 0 || string(req.ID) == "null" {
		log.Debug(log.CatMCP, "notification received", "method", req.Method)
		return nil
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "tools/list":
		return response{Jsonrpc: jsonrpcVersion, ID: req.ID, Result: map[string]any{"tools": s.tools}}
	case "tools/call":
		return s.handleCallTool(req)
	case "ping":
		return response{Jsonrpc: jsonrpcVersion, ID: req.ID, Result: map[string]any{}}
	default:
		return errorResponse{
			Jsonrpc: jsonrpcVersion,
			ID:      req.ID,
			Error:   errorObject{Code: methodNotFoundCode, Message: "Method not found"},
		}
	}
}

func (s *Server) handleInitialize(req request) any {
	return response{
		Jsonrpc: jsonrpcVersion,
		ID:      req.ID,
		Result: map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities":    s.capabilities,
			"serverInfo":      s.info,
			"instructions":    "This is a wkfl MCP server that provides tools for retrieving test, format, and build commands from repository configuration.",
		},
	}
}

type callToolParams struct {
	Name      string `json:"name"`
	Arguments struct {
		RepoPath string `json:"repo_path"`
	} `json:"arguments"`
}

func (s *Server) handleCallTool(req request) any {
	var params callToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return response{Jsonrpc: jsonrpcVersion, ID: req.ID, Result: errorResult("Error: invalid tools/call params")}
		}
	}

	var result callToolResult
	switch params.Name {
	case "get_test_commands":
		result = s.commandsResult(params.Arguments.RepoPath, "test", func(rc config.RepoConfig) []string { return rc.TestCommands })
	case "get_fmt_commands":
		result = s.commandsResult(params.Arguments.RepoPath, "format", func(rc config.RepoConfig) []string { return rc.FmtCommands })
	case "get_build_commands":
		result = s.commandsResult(params.Arguments.RepoPath, "build", func(rc config.RepoConfig) []string { return rc.BuildCommands })
	default:
		result = errorResult(fmt.Sprintf("Unknown tool: %s", params.Name))
	}

	return response{Jsonrpc: jsonrpcVersion, ID: req.ID, Result: result}
}

func (s *Server) commandsResult(repoPath, commandType string, extract func(config.RepoConfig) []string) callToolResult {
	if repoPath == "" {
		return errorResult("Error: repo_path parameter is required")
	}

	repoConfig, err := s.loadRepoConfig(repoPath)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load repository config: %v", err))
	}

	commands := extract(repoConfig)
	text := fmt.Sprintf("No %s commands configured in %s", commandType, config.RepoConfigFileName)
	if len(commands) > 0 {
		text = fmt.Sprintf("%s commands retrieved successfully\n%s", commandType, strings.Join(commands, "\n"))
	}

	structured := commands
	if structured == nil {
		structured = []string{}
	}
	return callToolResult{
		Content:           []textContent{{Type: "text", Text: text}},
		StructuredContent: map[string]any{"commands": structured},
	}
}

func errorResult(message string) callToolResult {
	return callToolResult{
		Content:           []textContent{{Type: "text", Text: message}},
		IsError:           true,
		StructuredContent: map[string]any{"error": message},
	}
}
