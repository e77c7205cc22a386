// Package config provides the configuration of the agent applications.
package config

import (
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pipeline"
	"github.com/effective-security/mcpagent/pkg/prompts"
	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/values"
	"github.com/go-playground/validator/v10"
)

// Environment variables
const (
	EnvProjectEndpoint = "PROJECT_ENDPOINT"
	EnvModelDeployment = "MODEL_DEPLOYMENT_NAME"
	EnvToken           = "AZURE_AI_TOKEN"
	EnvAPIVersion      = "AZURE_AI_API_VERSION"
	EnvMCPServer       = "MCP_SERVER"
	EnvRedisURL        = "REDIS_URL"
	EnvForwardSchema   = "MCP_FORWARD_SCHEMA"
)

const (
	// DefaultAgentName is the name of the inventory agent
	DefaultAgentName = "inventory-agent"
	// DefaultMCPServer is the command to start the inventory tools server
	DefaultMCPServer = "inventory-server"
	// DefaultStorePrefix is the prefix of the transcript keys
	DefaultStorePrefix = "mcpagent"

	// DefaultInstructions of the inventory agent
	DefaultInstructions = `You are an inventory assistant. Here are some general guidelines:
- Recommend restock if item inventory < {{ .restock_below }} and weekly sales > {{ .restock_sales_above }}
- Recommend clearance if item inventory > {{ .clearance_above }} and weekly sales < {{ .clearance_sales_below }}`
)

// Config of the application
type Config struct {
	Project  ProjectConfig  `json:"project" yaml:"project"`
	Agent    AgentConfig    `json:"agent" yaml:"agent"`
	MCP      MCPConfig      `json:"mcp" yaml:"mcp"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Pipeline PipelineConfig `json:"pipeline" yaml:"pipeline"`
}

// ProjectConfig specifies the agent service project
type ProjectConfig struct {
	Endpoint   string `json:"endpoint" yaml:"endpoint" validate:"required,url"`
	APIVersion string `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	Token      string `json:"token,omitempty" yaml:"token,omitempty"`
}

// AgentConfig specifies the inventory agent
type AgentConfig struct {
	Name  string `json:"name" yaml:"name" validate:"required"`
	Model string `json:"model" yaml:"model" validate:"required"`
	// Instructions is the template of the instructions
	Instructions string `json:"instructions" yaml:"instructions"`
	// InstructionsFormat is the format of the template: go-template|jinja2|text
	InstructionsFormat string `json:"instructions_format,omitempty" yaml:"instructions_format,omitempty" validate:"omitempty,oneof=go-template jinja2 text"`
	// InstructionsVars are the values for the template
	InstructionsVars map[string]any `json:"instructions_vars,omitempty" yaml:"instructions_vars,omitempty"`
	// ForwardSchema forwards the tool input schemas to the agent
	ForwardSchema bool `json:"forward_schema,omitempty" yaml:"forward_schema,omitempty"`
	// FailureOutputs submits the failure text for the failed tool calls
	FailureOutputs bool `json:"failure_outputs,omitempty" yaml:"failure_outputs,omitempty"`
}

// MCPConfig specifies the tools server
type MCPConfig struct {
	// Server is the transport spec: command line, stdio://, sse:// or http(s)://
	Server string `json:"server" yaml:"server" validate:"required"`
}

// StoreConfig specifies the transcript store
type StoreConfig struct {
	// RedisURL is the optional URL of Redis, in-memory store is used if empty
	RedisURL    string `json:"redis_url,omitempty" yaml:"redis_url,omitempty" validate:"omitempty,url"`
	Prefix      string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	MaxMessages int64  `json:"max_messages,omitempty" yaml:"max_messages,omitempty" validate:"gte=0"`
}

// PipelineConfig specifies the stages of the feedback pipeline
type PipelineConfig struct {
	Stages []pipeline.Stage `json:"stages,omitempty" yaml:"stages,omitempty" validate:"dive"`
}

// Default returns the config with default values
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			Name:         DefaultAgentName,
			Instructions: DefaultInstructions,
			InstructionsVars: map[string]any{
				"restock_below":         10,
				"restock_sales_above":   15,
				"clearance_above":       20,
				"clearance_sales_below": 5,
			},
		},
		MCP: MCPConfig{
			Server: DefaultMCPServer,
		},
		Store: StoreConfig{
			Prefix: DefaultStorePrefix,
		},
	}
}

// Load returns the config from the optional file,
// with the environment overrides applied, and validated.
func Load(file string) (*Config, error) {
	cfg := Default()
	if file != "" {
		if err := configloader.UnmarshalAndExpand(file, cfg); err != nil {
			return nil, errors.WithMessagef(err, "failed to load config %q", file)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides the values from the environment
func (c *Config) ApplyEnv() {
	c.Project.Endpoint = values.StringsCoalesce(os.Getenv(EnvProjectEndpoint), c.Project.Endpoint)
	c.Project.APIVersion = values.StringsCoalesce(os.Getenv(EnvAPIVersion), c.Project.APIVersion)
	c.Project.Token = values.StringsCoalesce(os.Getenv(EnvToken), c.Project.Token)
	c.Agent.Model = values.StringsCoalesce(os.Getenv(EnvModelDeployment), c.Agent.Model)
	c.MCP.Server = values.StringsCoalesce(os.Getenv(EnvMCPServer), c.MCP.Server)
	c.Store.RedisURL = values.StringsCoalesce(os.Getenv(EnvRedisURL), c.Store.RedisURL)
	if v, err := strconv.ParseBool(os.Getenv(EnvForwardSchema)); err == nil {
		c.Agent.ForwardSchema = v
	}
}

// Validate returns error if the config is invalid
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.WithMessage(err, "invalid configuration")
	}
	return nil
}

// Instructions returns the rendered instructions of the agent
func (c *Config) Instructions() (string, error) {
	res, err := prompts.Render(prompts.Format(c.Agent.InstructionsFormat), c.Agent.Instructions, c.Agent.InstructionsVars)
	if err != nil {
		return "", errors.WithMessage(err, "invalid agent instructions")
	}
	return res, nil
}

// PipelineStages returns the configured stages, or the default stages
func (c *Config) PipelineStages() []pipeline.Stage {
	if len(c.Pipeline.Stages) > 0 {
		return c.Pipeline.Stages
	}
	return pipeline.DefaultStages()
}
