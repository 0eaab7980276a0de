package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>mobyapp-airtable — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the user endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "mobyapp-airtable", "version": "v0.1.0" },
  "paths": {
    "/api/airtable/records/migrateUser": {
      "post": {
        "summary": "Migrate a person from the payroll table into the app users table",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"name":{"type":"string"},"lastName":{"type":"string"},"pictureUrl":{"type":"string"}}}}}},
        "responses": { "201": { "description": "user created, projects linked" }, "400": { "description": "missing required fields" }, "404": { "description": "email not in payroll" } }
      }
    },
    "/api/airtable/records/user": {
      "get": { "summary": "Check user existence by email", "parameters": [{"name":"email","in":"query","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "raw record" }, "404": { "description": "not found" } } },
      "put": { "summary": "Partially update a user by email", "parameters": [{"name":"email","in":"query","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "updated, denormalized record" }, "400": { "description": "no valid fields" }, "404": { "description": "not found" } } }
    },
    "/api/airtable/records/user/profile": {
      "get": { "summary": "Full user DTO with denormalized links", "parameters": [{"name":"email","in":"query","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "profile" }, "404": { "description": "not found" } } }
    },
    "/api/airtable/user/fullName": {
      "get": { "summary": "Full name by email", "parameters": [{"name":"email","in":"query","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "fullName" }, "404": { "description": "not found" } } }
    },
    "/api/airtable/checkEmail": {
      "get": { "summary": "Check email in the active payroll", "parameters": [{"name":"email","in":"query","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "boolean body" } } }
    },
    "/api/airtable/getalluser": { "get": { "summary": "List all users", "responses": { "200": { "description": "light DTOs" }, "404": { "description": "empty table" } } } },
    "/api/airtable/getallreferent": { "get": { "summary": "List referents", "responses": { "200": { "description": "light DTOs" } } } },
    "/api/airtable/getallpartner": { "get": { "summary": "List talent partners", "responses": { "200": { "description": "light DTOs" } } } },
    "/api/airtable/tecno": {
      "get": { "summary": "Search users by technology (substring, case-insensitive)", "parameters": [{"name":"tec","in":"query","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "light DTOs" }, "404": { "description": "no matches" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
