package middleware

import (
	"net/http"

	"github.com/dtroode/blog-server/internal/api/rest/response"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/metrics"
	"github.com/dtroode/blog-server/internal/model"
)

// RequireRole is the authorization gate. It must run after an Authenticate
// middleware and only checks the role carried by the principal.
type RequireRole struct {
	role           model.Role
	contextManager model.ContextManager
	recorder       AuthRecorder
	logger         *logger.Logger
}

// NewRequireRole creates a gate admitting principals with role.
func NewRequireRole(role model.Role, contextManager model.ContextManager, recorder AuthRecorder, logger *logger.Logger) *RequireRole {
	return &RequireRole{
		role:           role,
		contextManager: contextManager,
		recorder:       recorder,
		logger:         logger,
	}
}

// Handle wraps next with the gate.
func (m *RequireRole) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := m.contextManager.GetPrincipalFromContext(r.Context())
		if !ok {
			response.Error(w, m.logger, model.ErrTokenMissing)
			return
		}

		if principal.Role != m.role {
			m.recorder.RecordAuth("role", metrics.OutcomeForbidden)
			m.logger.Info("RequireRole middleware: access denied",
				"author_id", principal.AuthorID,
				"role", principal.Role,
				"required_role", m.role,
				"path", r.URL.Path)
			response.Error(w, m.logger, model.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
