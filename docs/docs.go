// Package docs registers the OpenAPI description of the box office API
// served at /swagger/index.html.
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
        "/shows": {
            "get": {"tags": ["shows"], "summary": "List shows", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/shows/{id}": {
            "get": {"tags": ["shows"], "summary": "Show details with tour stops", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown show"}}}
        },
        "/shows/{id}/context": {
            "get": {"tags": ["shows"], "summary": "Resolve a show context key", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "stop", "in": "query"},
                    {"type": "string", "name": "performance", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown stop or performance"}}}
        },
        "/layouts/{context}": {
            "get": {"tags": ["layouts"], "summary": "Seat layout of a show context", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "context", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown show context"}}}
        },
        "/occupancy/{context}": {
            "get": {"tags": ["reservations"], "summary": "Sold and held seats", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "context", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/holds": {
            "post": {"tags": ["reservations"], "summary": "Hold seats", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "Held"}, "409": {"description": "Seats taken"}}},
            "delete": {"tags": ["reservations"], "summary": "Release held seats", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "Released"}}}
        },
        "/orders": {
            "post": {"tags": ["reservations"], "summary": "Create an order", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Seats taken"}, "503": {"description": "Order could not be stored"}}}
        },
        "/orders/{id}": {
            "get": {"tags": ["reservations"], "summary": "Order details", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/orders/{id}/status": {
            "patch": {"tags": ["reservations"], "summary": "Move an order through its lifecycle", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Invalid transition"}}}
        },
        "/orders/{id}/ticket.pdf": {
            "get": {"tags": ["tickets"], "summary": "Printable ticket", "produces": ["application/pdf"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Rendering failed"}}}
        },
        "/orders/{id}/qr.png": {
            "get": {"tags": ["tickets"], "summary": "Ticket QR code", "produces": ["image/png"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/tickets/validate": {
            "get": {"tags": ["tickets"], "summary": "Check a scanned ticket", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "code", "in": "query", "required": true}],
                "responses": {"200": {"description": "Verdict"}}}
        },
        "/tickets/redeem": {
            "post": {"tags": ["tickets"], "summary": "Admit a ticket holder", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "Admitted"}, "409": {"description": "Used or invalid"}}}
        },
        "/checkout/sessions": {
            "post": {"tags": ["checkout"], "summary": "Open a checkout session", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}}}
        },
        "/checkout/sessions/{id}": {
            "get": {"tags": ["checkout"], "summary": "Seat map and checkout state", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Session expired"}}},
            "delete": {"tags": ["checkout"], "summary": "Close a session and release its hold", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Closed"}}}
        },
        "/checkout/sessions/{id}/proceed": {
            "post": {"tags": ["checkout"], "summary": "Hold the selection and assign ticket types", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Held"}, "409": {"description": "Seats taken"}}}
        },
        "/checkout/sessions/{id}/assignment": {
            "put": {"tags": ["checkout"], "summary": "Set ticket types", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Counts do not match the seats"}}}
        },
        "/checkout/sessions/{id}/pay": {
            "post": {"tags": ["checkout"], "summary": "Pay and place the order", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Confirmed"}, "504": {"description": "Request timed out"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Circus Box Office API",
	Description:      "Seat maps, holds, checkout and tickets for touring circus performances.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
