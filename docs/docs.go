// Package docs registers the OpenAPI document served at /swagger.
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
        "/users/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "Registration details",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.registerRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/users/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Log in",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/users/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Log out",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/users/refresh-token": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Refresh the session tokens",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/users/check-auth": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Check authentication",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/tasks": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Create and assign a task (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "name": "description", "in": "formData", "required": true},
                    {"type": "string", "name": "dueDate", "in": "formData"},
                    {"type": "string", "name": "priority", "in": "formData"},
                    {"type": "string", "name": "assignedTo", "in": "formData", "required": true},
                    {"type": "file", "name": "doc1", "in": "formData"},
                    {"type": "file", "name": "doc2", "in": "formData"},
                    {"type": "file", "name": "doc3", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/tasks/user-tasks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "List own tasks",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/tasks/filter": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Filter own tasks",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "description": "Filter criteria, all optional",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.filterTasksRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/tasks/{taskId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Get a task by id",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "name": "taskId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Update task content (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "name": "taskId", "in": "path", "required": true},
                    {
                        "description": "Fields to update, at least one",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.updateTaskRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Delete a task (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "name": "taskId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/tasks/{taskId}/status": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Update task status (assignee)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "name": "taskId", "in": "path", "required": true},
                    {
                        "description": "New status",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.updateStatusRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/admin": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List all users (admin)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/admin/tasks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List all tasks (admin)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/admin/{userId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Get a user with their tasks (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "name": "userId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Delete a user and their tasks (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "name": "userId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "handler.registerRequest": {
            "type": "object",
            "required": ["name", "email", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 8}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.filterTasksRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["pending", "completed"]},
                "priority": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH"]},
                "dueDate": {"type": "string"}
            }
        },
        "handler.updateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["pending", "completed"]}
            }
        },
        "handler.updateTaskRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "dueDate": {"type": "string"},
                "priority": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH"]}
            }
        },
        "respond.Envelope": {
            "type": "object",
            "properties": {
                "statusCode": {"type": "integer"},
                "data": {},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Task Assignment API",
	Description:      "Task assignment service: admins create and assign tasks, users track and complete them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
