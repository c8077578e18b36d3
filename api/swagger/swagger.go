package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Talleres API",
        "description": "Workshop enrollment capture, confirmation and listing",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Catalog", "description": "Workshops, schedules and enrollment types"},
        {"name": "Students", "description": "Capture form prefill"},
        {"name": "Enrollments", "description": "Capture flow and search"},
        {"name": "Confirmation", "description": "QR, printable confirmation and share link"},
        {"name": "Listings", "description": "Listing snapshots"},
        {"name": "Exports", "description": "Asynchronous listing exports"}
    ],
    "paths": {
        "/workshops": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List workshops",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/workshops/{id}/schedules": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List schedules of a workshop",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown workshop", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollment-types": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List enrollment types",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{dni}": {
            "get": {
                "tags": ["Students"],
                "summary": "Look up a student by DNI",
                "parameters": [
                    {"name": "dni", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found, enter the data manually", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Search enrollments",
                "parameters": [
                    {"name": "dni", "in": "query", "type": "string"},
                    {"name": "nombreCompleto", "in": "query", "type": "string"},
                    {"name": "idTipoMatricula", "in": "query", "type": "string", "description": "Enrollment type or 'all'"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Register an enrollment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Schedule without capacity", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Storage unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{id}": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Get an enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{id}/confirmation": {
            "get": {
                "tags": ["Confirmation"],
                "summary": "Confirmation details",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{id}/qr.png": {
            "get": {
                "tags": ["Confirmation"],
                "summary": "QR code image",
                "produces": ["image/png"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PNG image"}
                }
            }
        },
        "/enrollments/{id}/confirmation.pdf": {
            "get": {
                "tags": ["Confirmation"],
                "summary": "Printable confirmation",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF attachment matricula_<dni>.pdf"}
                }
            }
        },
        "/enrollments/{id}/share": {
            "get": {
                "tags": ["Confirmation"],
                "summary": "Redirect to the pre-filled share link",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "302": {"description": "Redirect"}
                }
            }
        },
        "/listings": {
            "post": {
                "tags": ["Listings"],
                "summary": "Load the collection into a new listing snapshot",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/listings/{id}": {
            "get": {
                "tags": ["Listings"],
                "summary": "Current snapshot results",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Listings"],
                "summary": "Discard a snapshot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/listings/{id}/search": {
            "post": {
                "tags": ["Listings"],
                "summary": "Re-run the filter against the live store",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/EnrollmentQuery"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/listings/{id}/reload": {
            "post": {
                "tags": ["Listings"],
                "summary": "Reload the collection and reapply the filter",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/listings/{id}/clear": {
            "post": {
                "tags": ["Listings"],
                "summary": "Drop the filter",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a listing export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/download/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "403": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "StudentInput": {
            "type": "object",
            "required": ["dni", "nombre", "apellidoPaterno"],
            "properties": {
                "dni": {"type": "string", "maxLength": 8},
                "nombre": {"type": "string"},
                "apellidoPaterno": {"type": "string"},
                "apellidoMaterno": {"type": "string"}
            }
        },
        "GuardianInput": {
            "type": "object",
            "properties": {
                "dni": {"type": "string", "maxLength": 8},
                "nombre": {"type": "string"},
                "apellidos": {"type": "string"},
                "celular": {"type": "string", "maxLength": 9},
                "celular2": {"type": "string", "maxLength": 9},
                "correo": {"type": "string", "format": "email"}
            }
        },
        "EnrollRequest": {
            "type": "object",
            "required": ["idTipoMatricula", "student", "workshopId", "scheduleId"],
            "properties": {
                "idTipoMatricula": {"type": "string", "enum": ["TALLER", "REGULAR", "VACACIONAL"]},
                "student": {"$ref": "#/definitions/StudentInput"},
                "guardian": {"$ref": "#/definitions/GuardianInput"},
                "workshopId": {"type": "string"},
                "scheduleId": {"type": "string"}
            }
        },
        "EnrollmentQuery": {
            "type": "object",
            "properties": {
                "dni": {"type": "string"},
                "nombreCompleto": {"type": "string"},
                "idTipoMatricula": {"type": "string"}
            }
        },
        "ExportRequest": {
            "type": "object",
            "required": ["format"],
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "dni": {"type": "string"},
                "nombreCompleto": {"type": "string"},
                "idTipoMatricula": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
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
