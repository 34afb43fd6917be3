// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/abstracts/bulk-update": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["review"],
                "summary": "Abstract status snapshot, or service health when no id is given",
                "parameters": [{"type": "integer", "description": "Abstract ID", "name": "id", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Handled failures return 200 with success=false; only malformed input is rejected with 400.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["review"],
                "summary": "Transition many abstracts in one transaction",
                "parameters": [{"description": "Batch", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.BulkUpdateRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/abstracts/email": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["email"],
                "summary": "Send review notification emails",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/abstracts/{id}/withdraw": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["abstracts"],
                "summary": "Withdraw a reviewed abstract back to pending",
                "parameters": [{"type": "integer", "description": "Abstract ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            }
        },
        "/admin/abstracts/{id}/status": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["review"],
                "summary": "Review a single abstract",
                "parameters": [{"type": "integer", "description": "Abstract ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            }
        },
        "/admin/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Get review statistics",
                "responses": {"200": {"description": "Aggregate statistics"}}
            }
        }
    },
    "definitions": {
        "handler.BulkUpdateRequest": {
            "type": "object",
            "properties": {
                "abstractIds": {"type": "array", "items": {"type": "string"}, "example": ["12", "13"]},
                "status": {"type": "string", "example": "rejected"},
                "comments": {"type": "string", "example": "needs revision"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Abstract Review API",
	Description:      "Abstract submission, review and notification service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
