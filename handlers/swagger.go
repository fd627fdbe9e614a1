package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers Swagger/OpenAPI endpoints for the REST surface.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>meetink-api Swagger</title>
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

// OpenAPI document for the REST surface. The content API is GraphQL and is
// described by its own introspection.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "meetink-api", "version": "v1.0.0" },
  "paths": {
    "/auth/login/google": {
      "get": { "summary": "Redirect to Google consent screen", "responses": { "302": { "description": "redirect to provider" }, "500": { "description": "OAuth not configured" } } }
    },
    "/auth/callback/google": {
      "get": {
        "summary": "Complete Google login and set the access_token cookie",
        "parameters": [
          { "name": "code", "in": "query", "schema": { "type": "string" } },
          { "name": "state", "in": "query", "schema": { "type": "string" } },
          { "name": "error", "in": "query", "schema": { "type": "string" } }
        ],
        "responses": { "302": { "description": "redirect to /auth/success or /auth/error?error=oauth_expired|access_denied|oauth_failed|server_error" } }
      }
    },
    "/auth/me": {
      "get": { "summary": "Current user profile", "responses": { "200": { "description": "profile" }, "401": { "description": "missing or invalid session" }, "404": { "description": "user deleted" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Revoke the session and clear the cookie", "responses": { "200": { "description": "logged out" } } }
    },
    "/graphql": { "post": { "summary": "GraphQL content API", "responses": { "200": { "description": "GraphQL response" } } } },
    "/": { "get": { "summary": "Service info", "responses": { "200": { "description": "info" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ping": { "get": { "summary": "Ping", "responses": { "200": { "description": "pong with server time" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
