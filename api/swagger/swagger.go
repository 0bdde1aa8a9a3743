package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CampusGrid Timetable API",
        "description": "Timetable scheduling and versioning engine",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "PeriodTemplates", "description": "Period template store and activation"},
        {"name": "Timetables", "description": "Version lifecycle, grid views and exports"},
        {"name": "Events", "description": "Conflict-checked event placement"},
        {"name": "Rooms", "description": "Room registry"}
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
        "/period-templates": {
            "get": {
                "tags": ["PeriodTemplates"],
                "summary": "List period templates",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["PeriodTemplates"],
                "summary": "Create period template",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTemplateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/period-templates/active": {
            "get": {
                "tags": ["PeriodTemplates"],
                "summary": "Get the active period template and its slots",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "No active template"}
                }
            }
        },
        "/period-templates/{id}": {
            "get": {
                "tags": ["PeriodTemplates"],
                "summary": "Get period template",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["PeriodTemplates"],
                "summary": "Delete period template",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Template is active"}
                }
            }
        },
        "/period-templates/{id}/activate": {
            "post": {
                "tags": ["PeriodTemplates"],
                "summary": "Mark template as active",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/period-templates/{id}/duplicate": {
            "post": {
                "tags": ["PeriodTemplates"],
                "summary": "Duplicate template",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DuplicateTemplateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/period-templates/{id}/slots": {
            "put": {
                "tags": ["PeriodTemplates"],
                "summary": "Replace template slot list",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceSlotsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batches/{batchId}/workspace": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get draft and published version ids",
                "parameters": [
                    {"name": "batchId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batches/{batchId}/publish": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Publish a draft version",
                "parameters": [
                    {"name": "batchId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PublishRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Version not ready"}
                }
            }
        },
        "/batches/{batchId}/offerings": {
            "get": {
                "tags": ["Timetables"],
                "summary": "List offerings with placement status",
                "parameters": [
                    {"name": "batchId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batches/{batchId}/grid": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get the published grid",
                "parameters": [
                    {"name": "batchId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No published timetable"}
                }
            }
        },
        "/batches/{batchId}/export/pdf": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Download the published timetable as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "batchId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        },
        "/batches/{batchId}/export/csv": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Download the published timetable as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "batchId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV document"}
                }
            }
        },
        "/versions/{id}/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List committed events",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Events"],
                "summary": "Place an offering into a cell",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PlaceEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Placement conflict"},
                    "422": {"description": "Invalid or break slot"}
                }
            }
        },
        "/versions/{id}/events/{eventId}": {
            "delete": {
                "tags": ["Events"],
                "summary": "Remove an event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "eventId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/versions/{id}/events/{eventId}/room": {
            "patch": {
                "tags": ["Events"],
                "summary": "Reassign event room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "eventId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateEventRoomRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Room conflict"}
                }
            }
        },
        "/rooms": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List rooms",
                "parameters": [
                    {"name": "departmentId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms/{id}": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Get room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Slot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "period_number": {"type": "integer"},
                "name": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "is_break": {"type": "boolean"}
            }
        },
        "PeriodTemplate": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "is_active": {"type": "boolean"},
                "slots": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Slot"}
                },
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "TimetableVersion": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "batch_id": {"type": "string"},
                "status": {"type": "string", "enum": ["draft", "published", "archived"]},
                "name": {"type": "string"},
                "created_at": {"type": "string"},
                "published_at": {"type": "string"}
            }
        },
        "EventDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "version_id": {"type": "string"},
                "offering_id": {"type": "string"},
                "day_of_week": {"type": "integer"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "room_id": {"type": "string"},
                "subject_code": {"type": "string"},
                "subject_name": {"type": "string"},
                "subject_type": {"type": "string"},
                "faculty_name": {"type": "string"},
                "room_number": {"type": "string"}
            }
        },
        "CreateTemplateRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "slots": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Slot"}
                }
            },
            "required": ["name"]
        },
        "DuplicateTemplateRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}
            },
            "required": ["name"]
        },
        "ReplaceSlotsRequest": {
            "type": "object",
            "properties": {
                "slots": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Slot"}
                }
            },
            "required": ["slots"]
        },
        "PublishRequest": {
            "type": "object",
            "properties": {
                "version_id": {"type": "string"}
            },
            "required": ["version_id"]
        },
        "PlaceEventRequest": {
            "type": "object",
            "properties": {
                "offering_id": {"type": "string"},
                "day_of_week": {"type": "integer"},
                "start_time": {"type": "string"},
                "room_id": {"type": "string"}
            },
            "required": ["offering_id", "start_time"]
        },
        "UpdateEventRoomRequest": {
            "type": "object",
            "properties": {
                "room_id": {"type": "string"}
            }
        },
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
