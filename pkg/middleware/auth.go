package middleware

import (
	"github.com/gin-gonic/gin"
)

// SubjectKey is the gin context key holding the session subject (user id).
const SubjectKey = "session_subject"

// SubjectVerifier checks a raw session token and returns its subject.
type SubjectVerifier interface {
	VerifySubject(raw string) (string, error)
}

// VerifierFunc adapts a function to SubjectVerifier.
type VerifierFunc func(raw string) (string, error)

func (f VerifierFunc) VerifySubject(raw string) (string, error) { return f(raw) }

// SessionSubject records the subject of a valid session cookie on the
// context. It never rejects a request: handlers that need a session check
// it themselves, everyone else is keyed by IP downstream.
func SessionSubject(ver SubjectVerifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cookieName)
		if err == nil && raw != "" {
			if sub, err := ver.VerifySubject(raw); err == nil && sub != "" {
				c.Set(SubjectKey, sub)
			}
		}
		c.Next()
	}
}

// Subject returns the subject set by SessionSubject, if any.
func Subject(c *gin.Context) (string, bool) {
	sub := c.GetString(SubjectKey)
	return sub, sub != ""
}

// limitKey prefers the session subject and falls back to the client IP.
func limitKey(c *gin.Context) string {
	if sub, ok := Subject(c); ok {
		return "sub:" + sub
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
