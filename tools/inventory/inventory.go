// Package inventory provides the tools reporting the inventory levels and
// the weekly sales of the store products.
package inventory

import (
	"context"
	"encoding/json"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/llmutils"
	"github.com/effective-security/mcpagent/tools"
	mcp "github.com/metoro-io/mcp-golang"
)

const (
	InventoryLevelsToolName = "get_inventory_levels"
	WeeklySalesToolName     = "get_weekly_sales"
)

// Request represents the tool input
type Request struct {
	Products []string `json:"products,omitempty" yaml:"products,omitempty" jsonschema:"title=products,description=Optional list of product names to report. Empty list reports all products."`
}

// Result is the number of units per product name
type Result map[string]int

// Catalog provides the inventory data
type Catalog struct {
	// Levels is the current inventory per product
	Levels Result `json:"levels" yaml:"levels"`
	// Sales is the number of units sold last week per product
	Sales Result `json:"sales" yaml:"sales"`
}

// DefaultCatalog returns the sample catalog of the store
func DefaultCatalog() *Catalog {
	return &Catalog{
		Levels: Result{
			"Moisturizer":    6,
			"Shampoo":        8,
			"Body Spray":     28,
			"Hair Gel":       5,
			"Lip Balm":       12,
			"Skin Serum":     9,
			"Cleanser":       30,
			"Conditioner":    3,
			"Setting Powder": 17,
			"Dry Shampoo":    45,
		},
		Sales: Result{
			"Moisturizer":    22,
			"Shampoo":        18,
			"Body Spray":     3,
			"Hair Gel":       2,
			"Lip Balm":       14,
			"Skin Serum":     19,
			"Cleanser":       4,
			"Conditioner":    1,
			"Setting Powder": 13,
			"Dry Shampoo":    17,
		},
	}
}

// Tool reports units per product from the catalog
type Tool struct {
	name        string
	description string
	data        Result
}

var (
	_ tools.Tool[Request, Result] = (*Tool)(nil)
	_ tools.MCPTool[Request]      = (*Tool)(nil)
)

// NewInventoryLevels returns the tool reporting the current inventory
func NewInventoryLevels(c *Catalog) *Tool {
	return &Tool{
		name:        InventoryLevelsToolName,
		description: "Returns current inventory for all products.",
		data:        c.Levels,
	}
}

// NewWeeklySales returns the tool reporting the units sold last week
func NewWeeklySales(c *Catalog) *Tool {
	return &Tool{
		name:        WeeklySalesToolName,
		description: "Returns number of units sold last week.",
		data:        c.Sales,
	}
}

// Tools returns all inventory tools for the catalog
func Tools(c *Catalog) []tools.IMCPTool {
	return []tools.IMCPTool{
		NewInventoryLevels(c),
		NewWeeklySales(c),
	}
}

func (t *Tool) Name() string {
	return t.name
}

func (t *Tool) Description() string {
	return t.description
}

func (t *Tool) Parameters() any {
	return tools.InputSchema(reflect.TypeOf(Request{}))
}

func (t *Tool) Run(_ context.Context, req *Request) (*Result, error) {
	res := Result{}
	if req == nil || len(req.Products) == 0 {
		maps.Copy(res, t.data)
		return &res, nil
	}

	var unknown []string
	for _, name := range req.Products {
		if v, ok := t.lookup(name); ok {
			res[name] = v
		} else {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, errors.Newf("unknown products: %s", strings.Join(unknown, ", "))
	}
	return &res, nil
}

// lookup is case-insensitive, the model does not always keep the case
func (t *Tool) lookup(name string) (int, bool) {
	if v, ok := t.data[name]; ok {
		return v, true
	}
	for k, v := range t.data {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return 0, false
}

func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	var req Request
	if strings.TrimSpace(input) != "" {
		if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
			return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
		}
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return llmutils.ToJSON(res), nil
}

func (t *Tool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *Tool) RunMCP(ctx context.Context, req *Request) (*mcp.ToolResponse, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(res))), nil
}
