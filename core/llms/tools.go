package llms

import (
	"encoding/json"
	"fmt"
)

// ParameterBase describes a single tool parameter in the schema sent to the
// model.
type ParameterBase struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	// Optional excludes the parameter from the schema's required list.
	Optional bool `json:"-"`
}

// Tool is a named function the model may call, together with the executor
// that handles its raw wire arguments.
type Tool struct {
	Function ToolFunction

	execute func(arguments string) (string, error)
}

// ToolFunction is the model-facing description of a tool.
type ToolFunction struct {
	Name        string
	Description string
	Parameters  map[string]ParameterBase
	Required    []string
}

// NewTool creates a tool whose executor unmarshals the raw argument text into
// P before invoking the handler. Parameters not marked Optional are listed as
// required in the schema.
func NewTool[P any](name, description string, parameters map[string]ParameterBase, execute func(parameters P) (string, error)) Tool {
	var required []string
	for parameterName, parameter := range parameters {
		if !parameter.Optional {
			required = append(required, parameterName)
		}
	}

	return Tool{
		Function: ToolFunction{
			Name:        name,
			Description: description,
			Parameters:  parameters,
			Required:    required,
		},
		execute: func(arguments string) (string, error) {
			var params P
			if arguments == "" {
				arguments = "{}"
			}
			if err := json.Unmarshal([]byte(arguments), &params); err != nil {
				return "", fmt.Errorf("failed to unmarshal arguments for tool %q: %w", name, err)
			}
			return execute(params)
		},
	}
}

// Execute runs the tool against raw wire arguments.
func (t Tool) Execute(arguments string) (string, error) {
	if t.execute == nil {
		return "", fmt.Errorf("tool %q has no executor", t.Function.Name)
	}
	return t.execute(arguments)
}
