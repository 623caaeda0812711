package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema describes the JSON shape a response must have before it is decoded.
type Schema struct {
	// Name identifies the schema in the cache, e.g. "mentor-reply".
	Name string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateResponse validates raw JSON against the given Schema.
// Returns nil if no schema is provided or validation passes.
// Returns *ErrInvalidResponse on failure.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("invalid JSON: %w", err),
		}
	}

	if schema == nil {
		return nil
	}

	compiled, err := getCompiledSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("compile schema %q: %w", schema.Name, err),
		}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("schema validation failed: %w", err),
		}
	}

	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value, not raw bytes.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}

func str() map[string]any     { return map[string]any{"type": "string"} }
func nullStr() map[string]any { return map[string]any{"type": []any{"string", "null"}} }
func integer() map[string]any { return map[string]any{"type": "integer"} }
func number() map[string]any  { return map[string]any{"type": "number"} }
func boolean() map[string]any { return map[string]any{"type": "boolean"} }

func object(required []any, props map[string]any) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func arrayOf(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

var quizQuestionDef = object(
	[]any{"question", "options", "correct_answer"},
	map[string]any{
		"question":       str(),
		"options":        map[string]any{"type": "array", "items": str(), "minItems": 2},
		"correct_answer": map[string]any{"type": "integer", "minimum": 0},
		"explanation":    nullStr(),
	},
)

var questionResultDef = object(
	[]any{"question", "options"},
	map[string]any{
		"question":       str(),
		"options":        arrayOf(str()),
		"correct_answer": integer(),
		"user_answer":    map[string]any{"type": []any{"integer", "null"}},
		"is_correct":     map[string]any{"type": []any{"boolean", "null"}},
	},
)

// Response schemas, one per backend call that returns a body the client
// depends on.
var (
	uploadSchema = &Schema{
		Name: "upload-result",
		Definition: object([]any{"document_id"}, map[string]any{
			"status":      str(),
			"document_id": str(),
			"message":     str(),
		}),
	}

	roadmapSchema = &Schema{
		Name: "roadmap-result",
		Definition: object([]any{"roadmap"}, map[string]any{
			"success":     boolean(),
			"roadmap":     nullStr(),
			"roadmap_svg": nullStr(),
			"skill_id":    str(),
		}),
	}

	mentorSchema = &Schema{
		Name: "mentor-reply",
		Definition: object([]any{"response"}, map[string]any{
			"chat_id":  nullStr(),
			"response": str(),
			"mode":     str(),
			"sources": map[string]any{
				"type": []any{"array", "null"},
				"items": object([]any{"content"}, map[string]any{
					"content": str(),
					"title":   nullStr(),
				}),
			},
		}),
	}

	quizSchema = &Schema{
		Name: "quiz-questions",
		Definition: object([]any{"questions"}, map[string]any{
			"questions": arrayOf(quizQuestionDef),
		}),
	}

	quizHistorySchema = &Schema{
		Name: "quiz-history",
		Definition: object([]any{"quizzes"}, map[string]any{
			"quizzes": arrayOf(object([]any{"id", "score", "total_questions"}, map[string]any{
				"id":              str(),
				"score":           integer(),
				"total_questions": integer(),
				"created_at":      nullStr(),
				"questions":       arrayOf(questionResultDef),
			})),
		}),
	}

	codingQuestionSchema = &Schema{
		Name: "coding-question",
		Definition: object([]any{"question"}, map[string]any{
			"status": str(),
			"question": object([]any{"id", "title", "description"}, map[string]any{
				"id":          str(),
				"title":       str(),
				"description": str(),
				"difficulty":  nullStr(),
			}),
		}),
	}

	submitSchema = &Schema{
		Name: "submit-result",
		Definition: object([]any{"passed_count", "total_count", "results"}, map[string]any{
			"status":       str(),
			"passed_count": integer(),
			"total_count":  integer(),
			"results": arrayOf(object([]any{"passed"}, map[string]any{
				"passed":    boolean(),
				"is_hidden": boolean(),
			})),
		}),
	}

	analyticsSchema = &Schema{
		Name: "skill-analytics",
		Definition: object([]any{"summary"}, map[string]any{
			"summary": object(
				[]any{"total_quizzes", "code_challenges_solved", "combined_avg_score"},
				map[string]any{
					"total_quizzes":          integer(),
					"avg_quiz_score":         number(),
					"code_challenges_solved": integer(),
					"avg_code_score":         number(),
					"combined_avg_score":     number(),
				},
			),
			"history": map[string]any{"type": []any{"array", "null"}},
		}),
	}

	runSchema = &Schema{
		Name: "run-result",
		Definition: object([]any{"output", "status"}, map[string]any{
			"output": str(),
			"status": str(),
		}),
	}
)
