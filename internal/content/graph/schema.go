package graph

import (
	"errors"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/meetink/meetink/backend/go-services/internal/content"
	"github.com/meetink/meetink/backend/go-services/internal/content/service"
	"github.com/meetink/meetink/backend/go-services/pkg/logger"
)

var commentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Comment",
	Fields: graphql.Fields{
		"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"content":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"gender":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"anonymousName": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"avatarSeed":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"confessionId":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"createdAt":     &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
	},
})

var confessionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Confession",
	Fields: graphql.Fields{
		"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"content":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"category":      &graphql.Field{Type: graphql.String},
		"likes":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"isApproved":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"gender":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"anonymousName": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"avatarSeed":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"createdAt":     &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		"updatedAt":     &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		"comments":      &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(commentType))},
	},
})

var earlyAccessType = graphql.NewObject(graphql.ObjectConfig{
	Name: "EarlyAccess",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
	},
})

var healthStatusType = graphql.NewObject(graphql.ObjectConfig{
	Name: "HealthStatus",
	Fields: graphql.Fields{
		"status": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"time":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
	},
})

func nonNullString() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
}

// NewSchema builds the content API schema over svc.
func NewSchema(svc *service.Service) (graphql.Schema, error) {
	r := &resolver{svc: svc}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) { return "Hello World", nil },
			},
			"health": &graphql.Field{
				Type: graphql.NewNonNull(healthStatusType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return map[string]interface{}{"status": "ok", "time": time.Now().UTC()}, nil
				},
			},
			"confessions": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(confessionType))),
				Resolve: r.confessions,
			},
			"confessionsByCategory": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(confessionType))),
				Args:    graphql.FieldConfigArgument{"category": nonNullString()},
				Resolve: r.confessionsByCategory,
			},
			"confession": &graphql.Field{
				Type:    confessionType,
				Args:    graphql.FieldConfigArgument{"confessionId": nonNullString()},
				Resolve: r.confession,
			},
			"comments": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(commentType))),
				Resolve: r.comments,
			},
			"comment": &graphql.Field{
				Type:    commentType,
				Args:    graphql.FieldConfigArgument{"commentId": nonNullString()},
				Resolve: r.comment,
			},
			"commentsByConfession": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(commentType))),
				Args:    graphql.FieldConfigArgument{"confessionId": nonNullString()},
				Resolve: r.commentsByConfession,
			},
			"earlyAccess": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(earlyAccessType))),
				Resolve: r.earlyAccess,
			},
			"earlyAccessById": &graphql.Field{
				Type:    earlyAccessType,
				Args:    graphql.FieldConfigArgument{"earlyAccessId": nonNullString()},
				Resolve: r.earlyAccessByID,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createConfession": &graphql.Field{
				Type: graphql.NewNonNull(confessionType),
				Args: graphql.FieldConfigArgument{
					"content":       nonNullString(),
					"category":      &graphql.ArgumentConfig{Type: graphql.String},
					"gender":        nonNullString(),
					"anonymousName": nonNullString(),
					"avatarSeed":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.createConfession,
			},
			"createComment": &graphql.Field{
				Type: graphql.NewNonNull(commentType),
				Args: graphql.FieldConfigArgument{
					"confessionId":  nonNullString(),
					"content":       nonNullString(),
					"gender":        nonNullString(),
					"anonymousName": nonNullString(),
					"avatarSeed":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.createComment,
			},
			"likeConfession": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Int),
				Args:    graphql.FieldConfigArgument{"confessionId": nonNullString()},
				Resolve: r.likeConfession,
			},
			"createEarlyAccess": &graphql.Field{
				Type: graphql.NewNonNull(earlyAccessType),
				Args: graphql.FieldConfigArgument{
					"email": nonNullString(),
					"name":  nonNullString(),
				},
				Resolve: r.createEarlyAccess,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

type resolver struct {
	svc *service.Service
}

func (r *resolver) confessions(p graphql.ResolveParams) (interface{}, error) {
	list, err := r.svc.Confessions(p.Context)
	if err != nil {
		return nil, internal("confessions", err)
	}
	return confessionViews(list), nil
}

func (r *resolver) confessionsByCategory(p graphql.ResolveParams) (interface{}, error) {
	category, _ := p.Args["category"].(string)
	list, err := r.svc.ConfessionsByCategory(p.Context, category)
	if err != nil {
		return nil, internal("confessionsByCategory", err)
	}
	return confessionViews(list), nil
}

func (r *resolver) confession(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["confessionId"].(string)
	c, err := r.svc.Confession(p.Context, id)
	if errors.Is(err, service.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, clientErr("confession", err)
	}
	return confessionView(c), nil
}

func (r *resolver) comments(p graphql.ResolveParams) (interface{}, error) {
	list, err := r.svc.Comments(p.Context)
	if err != nil {
		return nil, internal("comments", err)
	}
	return commentViews(list), nil
}

func (r *resolver) comment(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["commentId"].(string)
	c, err := r.svc.Comment(p.Context, id)
	if errors.Is(err, service.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, clientErr("comment", err)
	}
	return commentView(c), nil
}

func (r *resolver) commentsByConfession(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["confessionId"].(string)
	list, err := r.svc.CommentsByConfession(p.Context, id)
	if err != nil {
		return nil, clientErr("commentsByConfession", err)
	}
	return commentViews(list), nil
}

func (r *resolver) earlyAccess(p graphql.ResolveParams) (interface{}, error) {
	list, err := r.svc.EarlyAccess(p.Context)
	if err != nil {
		return nil, internal("earlyAccess", err)
	}
	out := make([]map[string]interface{}, 0, len(list))
	for _, e := range list {
		out = append(out, earlyAccessView(e))
	}
	return out, nil
}

func (r *resolver) earlyAccessByID(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["earlyAccessId"].(string)
	e, err := r.svc.EarlyAccessByID(p.Context, id)
	if errors.Is(err, service.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, clientErr("earlyAccessById", err)
	}
	return earlyAccessView(e), nil
}

func (r *resolver) createConfession(p graphql.ResolveParams) (interface{}, error) {
	in := service.NewConfession{
		Content:       stringArg(p, "content"),
		Gender:        stringArg(p, "gender"),
		AnonymousName: stringArg(p, "anonymousName"),
		AvatarSeed:    intArg(p, "avatarSeed"),
	}
	if cat, ok := p.Args["category"].(string); ok {
		in.Category = &cat
	}
	c, err := r.svc.CreateConfession(p.Context, in)
	if err != nil {
		return nil, clientErr("createConfession", err)
	}
	return confessionView(c), nil
}

func (r *resolver) createComment(p graphql.ResolveParams) (interface{}, error) {
	c, err := r.svc.CreateComment(p.Context, service.NewComment{
		ConfessionID:  stringArg(p, "confessionId"),
		Content:       stringArg(p, "content"),
		Gender:        stringArg(p, "gender"),
		AnonymousName: stringArg(p, "anonymousName"),
		AvatarSeed:    intArg(p, "avatarSeed"),
	})
	if err != nil {
		return nil, clientErr("createComment", err)
	}
	return commentView(c), nil
}

func (r *resolver) likeConfession(p graphql.ResolveParams) (interface{}, error) {
	n, err := r.svc.LikeConfession(p.Context, stringArg(p, "confessionId"))
	if err != nil {
		return nil, clientErr("likeConfession", err)
	}
	return n, nil
}

func (r *resolver) createEarlyAccess(p graphql.ResolveParams) (interface{}, error) {
	e, err := r.svc.CreateEarlyAccess(p.Context, stringArg(p, "email"), stringArg(p, "name"))
	if err != nil {
		return nil, clientErr("createEarlyAccess", err)
	}
	return earlyAccessView(e), nil
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func intArg(p graphql.ResolveParams, name string) int {
	n, _ := p.Args[name].(int)
	return n
}

var errInternal = errors.New("internal error")

// clientErr passes validation and lookup errors through; store failures
// are logged and replaced by a generic message.
func clientErr(field string, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidID), errors.Is(err, service.ErrInvalidInput):
		return err
	case errors.Is(err, service.ErrNotFound):
		return errors.New("confession not found")
	}
	return internal(field, err)
}

func internal(field string, err error) error {
	logger.Errorw("graphql resolver failed", "field", field, "error", err)
	return errInternal
}

func confessionViews(list []*content.Confession) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(list))
	for _, c := range list {
		out = append(out, confessionView(c))
	}
	return out
}

func confessionView(c *content.Confession) map[string]interface{} {
	var category interface{}
	if c.Category != nil {
		category = *c.Category
	}
	var comments interface{}
	if len(c.Comments) > 0 {
		comments = commentViews(c.Comments)
	}
	return map[string]interface{}{
		"id":            c.ID.Hex(),
		"content":       c.Content,
		"category":      category,
		"likes":         c.Likes,
		"isApproved":    c.IsApproved,
		"gender":        c.Gender,
		"anonymousName": c.AnonymousName,
		"avatarSeed":    c.AvatarSeed,
		"createdAt":     c.CreatedAt,
		"updatedAt":     c.UpdatedAt,
		"comments":      comments,
	}
}

func commentViews(list []*content.Comment) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(list))
	for _, c := range list {
		out = append(out, commentView(c))
	}
	return out
}

func commentView(c *content.Comment) map[string]interface{} {
	return map[string]interface{}{
		"id":            c.ID.Hex(),
		"content":       c.Content,
		"gender":        c.Gender,
		"anonymousName": c.AnonymousName,
		"avatarSeed":    c.AvatarSeed,
		"confessionId":  c.ConfessionID.Hex(),
		"createdAt":     c.CreatedAt,
	}
}

func earlyAccessView(e *content.EarlyAccess) map[string]interface{} {
	return map[string]interface{}{
		"id":        e.ID.Hex(),
		"email":     e.Email,
		"name":      e.Name,
		"createdAt": e.CreatedAt,
	}
}
