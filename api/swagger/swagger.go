package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ARMS API",
        "description": "Academic resource management dashboard: timetable editing, conflict detection, substitutes, derived views and exports",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedules", "description": "Section schedule editor"},
        {"name": "Candidates", "description": "Conflict-free room and professor suggestions"},
        {"name": "Substitutes", "description": "Substitute overlays and archived stints"},
        {"name": "Views", "description": "Derived room and professor week views"},
        {"name": "Export", "description": "CSV/PDF schedule exports"},
        {"name": "Faculty", "description": "Professor roster"},
        {"name": "Rooms", "description": "Room inventory"},
        {"name": "Curricula", "description": "Program curricula and subjects"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List section schedules",
                "parameters": [
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "schoolYear", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Open a new draft schedule",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules/{id}/entries": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Place or move a subject block",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Placement rejected", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/v1/schedules/{id}/submit": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Submit a draft schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Blocks missing professors", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/v1/views/rooms": {
            "get": {
                "tags": ["Views"],
                "summary": "Room occupancy for one term",
                "parameters": [
                    {"name": "semester", "in": "query", "required": true, "type": "string"},
                    {"name": "schoolYear", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/export": {
            "post": {
                "tags": ["Export"],
                "summary": "Queue a schedule export",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
