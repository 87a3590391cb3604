// Package docs holds the OpenAPI description served under /swagger/.
// Regenerate with: swag init -g cmd/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "The four most recently completed requests and the number of requests in progress.",
                "produces": ["application/json"],
                "tags": ["requests"],
                "summary": "Landing page",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/accounts/login/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Login page context",
                "parameters": [
                    {"type": "string", "description": "Path to return to after login", "name": "next", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Authenticate and start a session",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true},
                    {"type": "string", "description": "Path to return to", "name": "next", "in": "formData"}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "400": {"description": "Invalid credentials", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/accounts/logout/": {
            "post": {
                "tags": ["accounts"],
                "summary": "End the current session",
                "responses": {"303": {"description": "See Other"}}
            }
        },
        "/accounts/profile/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Current user's profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/accounts/profile/change/": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Update username, email and display name",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Email", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "Display name", "name": "display_name", "in": "formData"}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "400": {"description": "Validation errors", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/accounts/register/": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Create an account",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Email", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "Display name", "name": "display_name", "in": "formData"},
                    {"type": "string", "description": "Password", "name": "password1", "in": "formData", "required": true},
                    {"type": "string", "description": "Password confirmation", "name": "password2", "in": "formData", "required": true}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "400": {"description": "Validation errors", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/requests/create/": {
            "post": {
                "description": "Owner and status are set by the server; status is always \"new\".",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["requests"],
                "summary": "Submit a service request",
                "parameters": [
                    {"type": "string", "description": "Title", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "description": "Description", "name": "description", "in": "formData", "required": true},
                    {"type": "integer", "description": "Category id", "name": "category", "in": "formData"},
                    {"type": "file", "description": "JPEG, PNG or BMP up to 2 MB", "name": "photo", "in": "formData"}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "400": {"description": "Validation errors", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/requests/my/": {
            "get": {
                "description": "Administrators see every request, other users only their own. Newest first.",
                "produces": ["application/json"],
                "tags": ["requests"],
                "summary": "List requests",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/requests/{id}/delete/": {
            "post": {
                "tags": ["requests"],
                "summary": "Delete a request",
                "parameters": [
                    {"type": "integer", "description": "Request id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "302": {"description": "Not an administrator"},
                    "303": {"description": "See Other"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/requests/{id}/change-status/": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["requests"],
                "summary": "Change a request's status",
                "parameters": [
                    {"type": "integer", "description": "Request id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "new, inprogress or completed", "name": "status", "in": "formData", "required": true}
                ],
                "responses": {
                    "302": {"description": "Not an administrator"},
                    "303": {"description": "See Other"},
                    "400": {"description": "Unknown status", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/categories/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "List categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/categories/create/": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["categories"],
                "summary": "Create a category",
                "parameters": [
                    {"type": "string", "description": "Category name", "name": "name", "in": "formData", "required": true}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "400": {"description": "Validation errors", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/categories/{id}/edit/": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["categories"],
                "summary": "Rename a category",
                "parameters": [
                    {"type": "integer", "description": "Category id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Category name", "name": "name", "in": "formData", "required": true}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "400": {"description": "Validation errors", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/categories/{id}/delete/": {
            "post": {
                "description": "Requests that used the category keep existing without one.",
                "tags": ["categories"],
                "summary": "Delete a category",
                "parameters": [
                    {"type": "integer", "description": "Category id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "get the status of server",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Show the status of server",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "common.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Service Desk API",
	Description:      "Request tracking: users submit service requests, administrators triage them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
