package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Twill API",
        "description": "Personal attendance tracker for the 75% minimum-attendance rule",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Account registration and login"},
        {"name": "Semester", "description": "Semester definition"},
        {"name": "Holidays", "description": "Custom holidays and auto-holiday exclusions"},
        {"name": "Schedule", "description": "Derived schedule, statistics and exports"},
        {"name": "Attendance", "description": "Attendance, planned skips and home days"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semester": {
            "get": {
                "tags": ["Semester"],
                "summary": "Get semester definition",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No semester defined"}
                }
            },
            "post": {
                "tags": ["Semester"],
                "summary": "Create semester",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSemesterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/holidays": {
            "post": {
                "tags": ["Holidays"],
                "summary": "Add custom holiday",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CustomHolidayRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/holidays/{id}": {
            "delete": {
                "tags": ["Holidays"],
                "summary": "Remove custom holiday",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/holidays/exclusions": {
            "post": {
                "tags": ["Holidays"],
                "summary": "Exclude automatic holiday",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/HolidayDateRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/holidays/exclusions/{date}": {
            "delete": {
                "tags": ["Holidays"],
                "summary": "Restore automatic holiday",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Get schedule",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/stats": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Get attendance statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/stats/export": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Export attendance statistics",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/attendance/{sessionId}": {
            "put": {
                "tags": ["Attendance"],
                "summary": "Mark attendance",
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetAttendanceRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/planned-skips": {
            "put": {
                "tags": ["Attendance"],
                "summary": "Plan several skips",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchPlannedSkipsRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/planned-skips/{sessionId}": {
            "put": {
                "tags": ["Attendance"],
                "summary": "Plan a skip",
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetPlannedSkipRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/home-days/{date}": {
            "put": {
                "tags": ["Attendance"],
                "summary": "Flag home day",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetHomeDayRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["email", "password", "full_name"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "full_name": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateSemesterRequest": {
            "type": "object",
            "required": ["start_date", "end_date", "subjects"],
            "properties": {
                "start_date": {"type": "string", "example": "2025-01-06"},
                "end_date": {"type": "string", "example": "2025-05-30"},
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/SubjectInput"}},
                "holidays": {"type": "array", "items": {"type": "string"}},
                "target_ratios": {"type": "object"}
            }
        },
        "SubjectInput": {
            "type": "object",
            "required": ["name", "slots"],
            "properties": {
                "name": {"type": "string"},
                "slots": {"type": "array", "items": {"$ref": "#/definitions/SlotInput"}}
            }
        },
        "SlotInput": {
            "type": "object",
            "required": ["day", "slot_numbers", "duration"],
            "properties": {
                "day": {"type": "string", "enum": ["MON", "TUE", "WED", "THU", "FRI", "SAT"]},
                "slot_numbers": {"type": "array", "items": {"type": "integer"}},
                "duration": {"type": "number"}
            }
        },
        "CustomHolidayRequest": {
            "type": "object",
            "required": ["date", "name"],
            "properties": {
                "date": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "HolidayDateRequest": {
            "type": "object",
            "required": ["date"],
            "properties": {
                "date": {"type": "string"}
            }
        },
        "SetAttendanceRequest": {
            "type": "object",
            "required": ["attended"],
            "properties": {
                "attended": {"type": "boolean"}
            }
        },
        "SetPlannedSkipRequest": {
            "type": "object",
            "required": ["skip"],
            "properties": {
                "skip": {"type": "boolean"}
            }
        },
        "BatchPlannedSkipsRequest": {
            "type": "object",
            "required": ["sessions"],
            "properties": {
                "sessions": {"type": "object", "additionalProperties": {"type": "boolean"}}
            }
        },
        "SetHomeDayRequest": {
            "type": "object",
            "required": ["is_home_day"],
            "properties": {
                "is_home_day": {"type": "boolean"}
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
