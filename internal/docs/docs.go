// Package docs registers the OpenAPI description of the REST tool API.
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
        "/api/sessions/{id}": {
            "get": {
                "description": "Returns the most recent tool invocations of a session, oldest first.",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Session history",
                "parameters": [
                    {"type": "string", "description": "Session id", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Maximum number of entries", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rpc.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rpc.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/rpc.APIResponse"}}
                }
            }
        },
        "/api/tools": {
            "get": {
                "description": "Returns every registered tool with its input schema.",
                "produces": ["application/json"],
                "tags": ["tools"],
                "summary": "List tools",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rpc.APIResponse"}}
                }
            }
        },
        "/api/tools/{name}": {
            "post": {
                "description": "Runs search_model, generate_summary or generate_installation_instructions.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tools"],
                "summary": "Call a tool",
                "parameters": [
                    {"type": "string", "description": "Tool name", "name": "name", "in": "path", "required": true},
                    {"type": "string", "description": "Chat session id", "name": "X-Session-ID", "in": "header"},
                    {"description": "Tool arguments", "name": "args", "in": "body", "required": true, "schema": {"$ref": "#/definitions/tools.Args"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rpc.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rpc.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rpc.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "rpc.APIResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
            }
        },
        "tools.Args": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "query": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "ModelScout tool API",
	Description:      "Hugging Face model discovery, README summaries and installation guides exposed as callable tools.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
