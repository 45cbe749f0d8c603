package tools

import (
	"github.com/JaimeStill/pdf-lab/internal/validation"
	"github.com/JaimeStill/pdf-lab/pkg/openapi"
)

// spec defines OpenAPI operations for the PDF tools.
type spec struct {
	Merge       *openapi.Operation
	Split       *openapi.Operation
	Reorder     *openapi.Operation
	Rotate      *openapi.Operation
	ExtractText *openapi.Operation
	Watermark   *openapi.Operation
	NumberPages *openapi.Operation
	Protect     *openapi.Operation
	Unlock      *openapi.Operation
	ImagesToPDF *openapi.Operation
	PDFToImages *openapi.Operation
	Compress    *openapi.Operation
	Metadata    *openapi.Operation
}

func multipartBody(required []string, fields map[string]*openapi.Property) *openapi.RequestBody {
	return openapi.RequestBodyMultipart(&openapi.Schema{
		Type:       "object",
		Properties: fields,
		Required:   required,
	})
}

func errorResponses(extra map[int]*openapi.Response) map[int]*openapi.Response {
	responses := map[int]*openapi.Response{
		400: openapi.ResponseRef("BadRequest"),
		413: openapi.ResponseRef("PayloadTooLarge"),
		422: openapi.ResponseRef("UnprocessableInput"),
		500: openapi.ResponseRef("InternalError"),
	}
	for status, r := range extra {
		responses[status] = r
	}
	return responses
}

func pdfFile() *openapi.Property {
	return openapi.FileField("PDF document")
}

// Spec provides OpenAPI specifications for all tool endpoints.
var Spec = spec{
	Merge: &openapi.Operation{
		Summary:     "Merge PDFs",
		Description: "Concatenate the uploaded PDFs in upload order.",
		RequestBody: multipartBody([]string{"files"}, map[string]*openapi.Property{
			"files": openapi.FilesField("PDF documents in merge order"),
		}),
		Responses: errorResponses(map[int]*openapi.Response{
			200: openapi.ResponseFile("merged.pdf", ContentTypePDF),
		}),
	},
	Split: &openapi.Operation{
		Summary:     "Split a PDF",
		Description: "Extract each page range into its own PDF. One range returns split.pdf; several return split.zip of part_N.pdf.",
		RequestBody: multipartBody([]string{"file"}, map[string]*openapi.Property{
			"file":   pdfFile(),
			"ranges": {Type: "string", Description: "Comma-separated ranges such as 1-3,5,7-. Blank selects every page.", Example: "1-3,5,7-"},
		}),
		Responses: errorResponses(map[int]*openapi.Response{
			200: openapi.ResponseFile("split.pdf or split.zip", ContentTypeZip),
		}),
	},
	Reorder: &openapi.Operation{
		Summary:     "Reorder pages",
		Description: "Rebuild the document in the given page order. Pages may repeat.",
		RequestBody: multipartBody([]string{"file", "order"}, map[string]*openapi.Property{
			"file":  pdfFile(),
			"order": {Type: "string", Description: "Comma-separated 1-based page numbers", Example: "3,1,2"},
		}),
		Responses: errorResponses(map[int]*openapi.Response{
			200: openapi.ResponseFile("reordered.pdf", ContentTypePDF),
		}),
	},
	Rotate: &openapi.Operation{
		Summary:     "Rotate pages",
		Description: "Rotate pages clockwise. Without pages every page is rotated.",
		RequestBody: multipartBody([]string{"file", "angle"}, map[string]*openapi.Property{
			"file":  pdfFile(),
			"angle": {Type: "integer", Description: "Rotation in degrees", Enum: []string{"90", "180", "270"}},
			"pages": {Type: "string", Description: "Optional page ranges to rotate", Example: "1-2,4"},
		}),
		Responses: errorResponses(map[int]*openapi.Response{
			200: openapi.ResponseFile("rotated.pdf", ContentTypePDF),
		}),
	},
	ExtractText: &openapi.Operation{
		Summary:     "Extract text",
		Description: "Read the text layer of every page. Pages without text fall back to OCR when it is installed.",
		RequestBody: multipartBody([]string{"file"}, map[string]*openapi.Property{
			"file": pdfFile(),
			"ocr":  {Type: "boolean", Description: "Allow the OCR fallback", Default: true},
		}),
		Responses: errorResponses(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Extracted text", "TextResult"),
		}),
	},
	Watermark: &openapi.Operation{
		Summary:     "Add a watermark",
		Description: "Stamp text over every page.",
		RequestBody: multipartBody([]string{"file", "watermark_text"}, map[string]*openapi.Property{
			"file":           pdfFile(),
			"watermark_text": {Type: "string", Description: "Watermark text, at most 200 characters"},
			"opacity":        {Type: "number", Description: "Opacity between 0.0 and 1.0", Default: DefaultOpacity},
			"position":       {Type: "string", Enum: validation.WatermarkPositions, Default: validation.WatermarkPositions[0]},
		}),
		Responses: errorResponses(map[int]*openapi.Response{
			200: openapi.ResponseFile("watermarked.pdf", ContentTypePDF),
		}),
	},
	NumberPages: &openapi.Operation{
		Summary:     "Number pages",
		Description: "Stamp n/total on every page.",
		RequestBody: multipartBody([]string{"file"}, map[string]*openapi.Property{
			"file":     pdfFile(),
			"position": {Type: "string", Enum: validation.PageNumberPositions, Default: validation.PageNumberPositions[0]},
		}),
		Responses: errorResponses(map[int]*openapi.Response{
			200: openapi.ResponseFile("numbered.pdf", ContentTypePDF),
		}),
	},
	Protect: &openapi.Operation{
		Summary:     "Password-protect a PDF",
		Description: "Encrypt the document with AES-256. The password is used for both opening and permissions.",
		RequestBody: multipartBody([]string{"file", "password"}, map[string]*openapi.Property{
			"file":     pdfFile(),
			"password": {Type: "string", Format: "password"},
		}),
		Responses: errorResponses(map[int]*openapi.Response{
			200: openapi.ResponseFile("protected.pdf", ContentTypePDF),
		}),
	},
	Unlock: &openapi.Operation{
		Summary:     "Remove a password",
		Description: "Decrypt a protected document. Unprotected documents are returned unchanged.",
		RequestBody: multipartBody([]string{"file", "password"}, map[string]*openapi.Property{
			"file":     pdfFile(),
			"password": {Type: "string", Format: "password"},
		}),
		Responses: errorResponses(map[int]*openapi.Response{
			200: openapi.ResponseFile("unlocked.pdf", ContentTypePDF),
			401: openapi.ResponseRef("Unauthorized"),
		}),
	},
	ImagesToPDF: &openapi.Operation{
		Summary:     "Convert images to PDF",
		Description: "Place each image on its own page, in upload order.",
		RequestBody: multipartBody([]string{"files"}, map[string]*openapi.Property{
			"files": openapi.FilesField("JPEG, PNG, BMP, TIFF, GIF or WebP images"),
		}),
		Responses: errorResponses(map[int]*openapi.Response{
			200: openapi.ResponseFile("images.pdf", ContentTypePDF),
		}),
	},
	PDFToImages: &openapi.Operation{
		Summary:     "Convert PDF pages to images",
		Description: "Render every page and return images.zip of page_N images. Requires ImageMagick.",
		RequestBody: multipartBody([]string{"file"}, map[string]*openapi.Property{
			"file":   pdfFile(),
			"dpi":    {Type: "integer", Description: "Resolution between 72 and 600"},
			"format": {Type: "string", Enum: []string{"png", "jpg"}, Default: "png"},
		}),
		Responses: errorResponses(map[int]*openapi.Response{
			200: openapi.ResponseFile("images.zip", ContentTypeZip),
			503: openapi.ResponseRef("Unavailable"),
		}),
	},
	Compress: &openapi.Operation{
		Summary:     "Compress a PDF",
		Description: "Optimize the document. Sizes and ratio are reported in X-Original-Size, X-Compressed-Size and X-Compression-Ratio.",
		RequestBody: multipartBody([]string{"file"}, map[string]*openapi.Property{
			"file":  pdfFile(),
			"level": {Type: "string", Enum: []string{"low", "medium", "high"}},
		}),
		Responses: errorResponses(map[int]*openapi.Response{
			200: openapi.ResponseFile("compressed.pdf", ContentTypePDF),
		}),
	},
	Metadata: &openapi.Operation{
		Summary:     "Read or edit metadata",
		Description: "With title, author or subject the document is updated and returned as metadata.pdf. Without them the metadata is returned as JSON.",
		RequestBody: multipartBody([]string{"file"}, map[string]*openapi.Property{
			"file":    pdfFile(),
			"title":   {Type: "string"},
			"author":  {Type: "string"},
			"subject": {Type: "string"},
		}),
		Responses: errorResponses(map[int]*openapi.Response{
			200: {
				Description: "metadata.pdf, or the metadata as JSON",
				Content: map[string]*openapi.MediaType{
					ContentTypePDF:     {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
					"application/json": {Schema: openapi.SchemaRef("Metadata")},
				},
			},
		}),
	},
}

// Schemas returns OpenAPI schemas for the JSON tool responses.
func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"TextResult": {
			Type: "object",
			Properties: map[string]*openapi.Property{
				"text":              {Type: "string", Description: "Page texts joined by blank lines"},
				"filename":          {Type: "string"},
				"pages_processed":   {Type: "integer"},
				"extraction_method": {Type: "string", Enum: []string{"direct", "ocr", "mixed"}},
				"degraded_pages":    {Type: "array", Description: "Pages with no text after the OCR fallback", Items: &openapi.Property{Type: "integer"}},
			},
		},
		"Metadata": {
			Type: "object",
			Properties: map[string]*openapi.Property{
				"filename":          {Type: "string"},
				"pages":             {Type: "integer"},
				"title":             {Type: "string"},
				"author":            {Type: "string"},
				"subject":           {Type: "string"},
				"creator":           {Type: "string"},
				"producer":          {Type: "string"},
				"creation_date":     {Type: "string"},
				"modification_date": {Type: "string"},
				"is_encrypted":      {Type: "boolean"},
				"file_size":         {Type: "integer", Format: "int64"},
			},
		},
	}
}
