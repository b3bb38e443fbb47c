// Package docs registers the OpenAPI description served at /swagger.
// Regenerate the paths with `swag init -g cmd/api/main.go` after changing
// handler annotations.
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
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/v1/projects/{project_id}/check-in": {"post": {"security": [{"BearerAuth": []}], "tags": ["presence"], "summary": "Mark attendance with a GPS fix", "parameters": [{"type": "string", "name": "project_id", "in": "path", "required": true}], "responses": {"200": {"description": "already verified today"}, "201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}, "422": {"description": "out of range or location unavailable"}}}},
        "/v1/projects/{project_id}/presence": {"get": {"security": [{"BearerAuth": []}], "tags": ["presence"], "summary": "Today's presence for a project", "parameters": [{"type": "string", "name": "project_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/v1/check-ins/batch": {"post": {"security": [{"BearerAuth": []}], "tags": ["presence"], "summary": "Upload check-ins captured offline", "responses": {"202": {"description": "Accepted"}, "400": {"description": "Bad Request"}, "503": {"description": "Service Unavailable"}}}},
        "/v1/projects/{project_id}/dpr": {"post": {"security": [{"BearerAuth": []}], "tags": ["dpr"], "summary": "Submit today's daily progress report", "parameters": [{"type": "string", "name": "project_id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}},
        "/v1/projects/{project_id}/risk": {"get": {"security": [{"BearerAuth": []}], "tags": ["risk"], "summary": "Risk assessment of one project", "parameters": [{"type": "string", "name": "project_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/v1/radar": {"get": {"security": [{"BearerAuth": []}], "tags": ["risk"], "summary": "Attention radar over the caller's projects", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Site Presence API",
	Description:      "GPS attendance verification and project risk radar for construction sites.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
