// Package docs registers the OpenAPI description served under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/auth/google/login": {
            "get": {"tags": ["auth"], "summary": "Redirect to the identity provider", "responses": {"307": {"description": "Temporary Redirect"}}}
        },
        "/auth/google/callback": {
            "get": {
                "tags": ["auth"],
                "summary": "Finish the provider login and start a session",
                "parameters": [
                    {"type": "string", "name": "code", "in": "query", "required": true},
                    {"type": "string", "name": "state", "in": "query", "required": true}
                ],
                "responses": {"302": {"description": "Found"}, "400": {"description": "Bad Request"}}
            }
        },
        "/auth/me": {
            "get": {"tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}}}}
        },
        "/auth/logout": {
            "post": {"tags": ["auth"], "summary": "End the session", "parameters": [{"type": "string", "name": "X-CSRFToken", "in": "header", "description": "Required when the session comes from the cookie"}], "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthorized"}, "403": {"description": "CSRF token missing or invalid"}}}
        },
        "/streaks": {
            "get": {"tags": ["streaks"], "summary": "List the caller's streaks with their completions", "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Streak"}}}}},
            "post": {
                "tags": ["streaks"],
                "summary": "Create a streak",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStreak"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Streak"}}, "400": {"description": "Bad Request"}, "409": {"description": "Color already used"}}
            }
        },
        "/streaks/{id}": {
            "get": {"tags": ["streaks"], "summary": "Get a streak", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Streak"}}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["streaks"], "summary": "Update a streak", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Streak"}}}},
            "delete": {"tags": ["streaks"], "summary": "Delete a streak and its completions", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/streaks/{id}/grid": {
            "get": {
                "tags": ["streaks"],
                "summary": "Project a streak onto a contribution grid",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 7, "name": "size_x", "in": "query"},
                    {"type": "integer", "default": 7, "name": "size_y", "in": "query"},
                    {"type": "string", "name": "date", "in": "query", "description": "YYYY-MM-DD"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/colors": {
            "get": {"tags": ["streaks"], "summary": "List the palette a streak can use", "responses": {"200": {"description": "OK"}}}
        },
        "/completions": {
            "get": {"tags": ["completions"], "summary": "List a streak's completions", "parameters": [{"type": "string", "name": "streak_id", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["completions"], "summary": "Mark a streak as done on a day", "responses": {"201": {"description": "Created"}, "409": {"description": "Already completed that day"}}}
        },
        "/completions/{id}": {
            "delete": {"tags": ["completions"], "summary": "Delete a completion", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/stats": {
            "get": {
                "tags": ["stats"],
                "summary": "Aggregate statistics over all of the caller's streaks",
                "parameters": [{"type": "string", "name": "date", "in": "query", "description": "YYYY-MM-DD"}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "User": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "email": {"type": "string"}, "name": {"type": "string"}, "provider": {"type": "string"}}
        },
        "CreateStreak": {
            "type": "object",
            "required": ["name", "color"],
            "properties": {"name": {"type": "string"}, "color": {"type": "string"}, "start_date": {"type": "string", "example": "2024-03-01"}}
        },
        "Streak": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "color": {"type": "string"},
                "is_active": {"type": "boolean"},
                "start_date": {"type": "string"},
                "current_streak": {"type": "integer"},
                "longest_streak": {"type": "integer"},
                "days_completed": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Kanso Streaks API",
	Description:      "Streak tracking: completions, contribution grids and aggregate statistics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
