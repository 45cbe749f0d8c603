package openapi

import "maps"

// NewComponents returns the components shared by every operation: the error
// envelope schema and one response per error status.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type: "object",
				Properties: map[string]*Property{
					"status":     {Type: "string", Example: "error"},
					"message":    {Type: "string"},
					"error_code": {Type: "string", Example: "INVALID_FILE"},
					"details":    {Type: "object"},
					"timestamp":  {Type: "string", Format: "date-time"},
				},
				Required: []string{"status", "message", "error_code", "timestamp"},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":         ResponseJSON("Invalid file or parameter", "Error"),
			"Unauthorized":       ResponseJSON("Incorrect password", "Error"),
			"NotFound":           ResponseJSON("Resource not found", "Error"),
			"PayloadTooLarge":    ResponseJSON("File exceeds the size limit", "Error"),
			"UnprocessableInput": ResponseJSON("Document could not be processed", "Error"),
			"InternalError":      ResponseJSON("Unexpected failure", "Error"),
			"Unavailable":        ResponseJSON("Required capability is not installed", "Error"),
		},
	}
}

// AddSchemas merges schemas into the component set.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}
