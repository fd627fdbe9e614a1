package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
)

// RegisterGraphQL mounts the content API. GET serves GraphiQL to browsers
// and executes queries passed in the query string otherwise.
func RegisterGraphQL(r gin.IRouter, schema graphql.Schema) {
	h := gin.WrapH(handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   true,
		GraphiQL: true,
	}))
	r.POST("/graphql", h)
	r.GET("/graphql", h)
}
