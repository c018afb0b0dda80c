package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/otel/attribute"
)

// PromptJSONSchema forces the model to answer through a single synthetic tool
// whose input schema is reflected from the output type, and unmarshals the
// tool-use input into it. The endpoint has no response-format parameter, so a
// forced tool call is the structured-output path.
func PromptJSONSchema[T any](
	ctx context.Context,
	client *Client,
	prompt string,
	systemPrompt string,
	outputSchema T,
) (*T, error) {
	ctx, span := tracer.Start(ctx, "prompt llm structured")
	defer span.End()

	reflector := jsonschema.Reflector{DoNotReference: true}
	var (
		schema         *jsonschema.Schema
		outputTypeName string
	)
	if reflect.TypeOf(outputSchema).Kind() == reflect.Ptr {
		schema = reflector.ReflectFromType(reflect.TypeOf(outputSchema).Elem())
		outputTypeName = reflect.TypeOf(outputSchema).Elem().Name()
	} else {
		schema = reflector.Reflect(outputSchema)
		outputTypeName = reflect.TypeOf(outputSchema).Name()
	}
	// The reflected schema carries $schema and title noise the endpoint
	// ignores but does not reject.
	schema.Version = ""

	span.SetAttributes(attribute.String("request.model", client.model))
	schemaString, _ := schema.MarshalJSON()
	span.SetAttributes(attribute.String("request.schema", string(schemaString)))

	responseBody, err := client.send(ctx, requestBody{
		Model:     client.model,
		MaxTokens: client.maxTokens,
		System:    systemPrompt,
		Messages:  []message{{Role: messageRoleUser, Content: prompt}},
		Tools: []Tool{{
			Name:        "emit_" + outputTypeName,
			Description: "Emit the structured result.",
			InputSchema: schema,
		}},
		ToolChoice: &toolChoice{Type: "tool", Name: "emit_" + outputTypeName},
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	for _, block := range responseBody.Content {
		if block.Type != "tool_use" {
			continue
		}
		if err := json.Unmarshal(block.Input, &outputSchema); err != nil {
			err = fmt.Errorf("error unmarshalling response: %w", err)
			span.RecordError(err)
			return nil, err
		}
		return &outputSchema, nil
	}

	err = fmt.Errorf("no structured output in response")
	span.RecordError(err)
	return nil, err
}
