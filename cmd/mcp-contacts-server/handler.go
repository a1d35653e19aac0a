package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/cexll/contacts/internal/store"
)

// ListContactsParams defines the input of list_contacts
type ListContactsParams struct {
	Query string `json:"query,omitempty" jsonschema:"Case-insensitive name filter; empty lists every contact"`
}

// CreateContactParams defines the input of create_contact
type CreateContactParams struct {
	First  string `json:"first,omitempty" jsonschema:"First name"`
	Last   string `json:"last,omitempty" jsonschema:"Last name"`
	GitHub string `json:"github,omitempty" jsonschema:"GitHub handle without the leading @"`
	Notes  string `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

// DeleteContactParams defines the input of delete_contact
type DeleteContactParams struct {
	ID string `json:"id" jsonschema:"ID of the contact to delete"`
}

// Tools exposes a contact store as MCP tools.
type Tools struct {
	store  store.Store
	logger *zap.Logger
}

// NewTools wraps s. A nil logger disables logging.
func NewTools(s store.Store, logger *zap.Logger) *Tools {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tools{store: s, logger: logger}
}

// Register adds every contact tool to server.
func (t *Tools) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_contacts",
		Description: "List address book contacts, optionally filtered by name",
	}, t.HandleList)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_contact",
		Description: "Create a contact and return it with its new ID",
	}, t.HandleCreate)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a contact by ID",
	}, t.HandleDelete)
}

// HandleList handles the list_contacts tool call
func (t *Tools) HandleList(ctx context.Context, _ *mcp.CallToolRequest, params ListContactsParams) (*mcp.CallToolResult, any, error) {
	contacts, err := t.store.List(ctx, params.Query)
	if err != nil {
		t.logger.Error("list_contacts failed", zap.Error(err))
		return errorResult(err), nil, nil
	}
	if contacts == nil {
		contacts = []store.Contact{}
	}
	t.logger.Info("list_contacts", zap.String("query", params.Query), zap.Int("count", len(contacts)))
	return jsonResult(map[string]any{"contacts": contacts, "count": len(contacts)})
}

// HandleCreate handles the create_contact tool call
func (t *Tools) HandleCreate(ctx context.Context, _ *mcp.CallToolRequest, params CreateContactParams) (*mcp.CallToolResult, any, error) {
	created, err := t.store.Create(ctx, store.Contact{
		First:  strings.TrimSpace(params.First),
		Last:   strings.TrimSpace(params.Last),
		GitHub: strings.TrimPrefix(strings.TrimSpace(params.GitHub), "@"),
		Notes:  params.Notes,
	})
	if err != nil {
		t.logger.Error("create_contact failed", zap.Error(err))
		return errorResult(err), nil, nil
	}
	t.logger.Info("create_contact", zap.String("id", created.ID))
	return jsonResult(created)
}

// HandleDelete handles the delete_contact tool call
func (t *Tools) HandleDelete(ctx context.Context, _ *mcp.CallToolRequest, params DeleteContactParams) (*mcp.CallToolResult, any, error) {
	id := strings.TrimSpace(params.ID)
	if id == "" {
		return nil, nil, fmt.Errorf("id parameter is required")
	}

	if err := t.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			t.logger.Warn("delete_contact: not found", zap.String("id", id))
		} else {
			t.logger.Error("delete_contact failed", zap.String("id", id), zap.Error(err))
		}
		return errorResult(err), nil, nil
	}
	t.logger.Info("delete_contact", zap.String("id", id))
	return jsonResult(map[string]any{"success": true, "id": id})
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil, nil
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)},
		},
		IsError: true,
	}
}
