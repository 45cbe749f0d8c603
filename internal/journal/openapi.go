package journal

import "github.com/JaimeStill/pdf-lab/pkg/openapi"

type spec struct {
	List *openapi.Operation
	Find *openapi.Operation
}

func queryParam(name, typ, description string) *openapi.Parameter {
	return &openapi.Parameter{
		Name:        name,
		In:          "query",
		Description: description,
		Schema:      &openapi.Schema{Type: typ},
	}
}

// Spec provides OpenAPI specifications for the journal endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List recorded operations",
		Description: "Page through the operation journal, newest first by default.",
		Parameters: []*openapi.Parameter{
			queryParam("page", "integer", "1-based page number"),
			queryParam("page_size", "integer", "Entries per page"),
			queryParam("sort", "string", "Comma-separated fields, '-' prefix for descending (e.g. -CreatedAt)"),
			queryParam("operation", "string", "Exact operation name such as merge"),
			queryParam("status", "integer", "Exact HTTP status"),
			queryParam("failed", "boolean", "true for status >= 400, false for successes"),
			queryParam("since", "string", "RFC 3339 lower bound on created_at"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of journal entries", "JournalPage"),
			500: openapi.ResponseRef("InternalError"),
			503: openapi.ResponseRef("Unavailable"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Get a recorded operation",
		Parameters: []*openapi.Parameter{
			{Name: "id", In: "path", Required: true, Description: "Entry UUID", Schema: &openapi.Schema{Type: "string", Format: "uuid"}},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Journal entry", "JournalEntry"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			500: openapi.ResponseRef("InternalError"),
			503: openapi.ResponseRef("Unavailable"),
		},
	},
}

// Schemas returns OpenAPI schemas for journal responses.
func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"JournalEntry": {
			Type: "object",
			Properties: map[string]*openapi.Property{
				"id":           {Type: "string", Format: "uuid"},
				"operation":    {Type: "string", Example: "merge"},
				"file_count":   {Type: "integer"},
				"input_bytes":  {Type: "integer", Format: "int64"},
				"output_bytes": {Type: "integer", Format: "int64"},
				"status":       {Type: "integer", Example: 200},
				"error_code":   {Type: "string"},
				"duration_ms":  {Type: "integer", Format: "int64"},
				"request_id":   {Type: "string"},
				"created_at":   {Type: "string", Format: "date-time"},
			},
		},
		"JournalPage": {
			Type: "object",
			Properties: map[string]*openapi.Property{
				"data":        {Type: "array", Items: &openapi.Property{Type: "object", Description: "JournalEntry"}},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
