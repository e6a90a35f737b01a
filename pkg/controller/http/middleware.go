package http

import (
	"context"
	"net/http"

	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/service/agent"
	"github.com/hashcare/hashcare/pkg/usecase"
)

type ctxEngineKey struct{}

// roleHeader selects the agent persona when the role query parameter is absent
const roleHeader = "X-HashCare-Role"

// agentMiddleware resolves the narration engine for the requested role.
// Requests without a role talk to the patient engine.
func agentMiddleware(uc *usecase.UseCases) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := r.URL.Query().Get("role")
			if role == "" {
				role = r.Header.Get(roleHeader)
			}
			if role == "" {
				role = string(types.RolePatient)
			}

			engine, err := uc.Agent(types.UserRole(role))
			if err != nil {
				writeError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxEngineKey{}, engine)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func engineFrom(ctx context.Context) *agent.Engine {
	return ctx.Value(ctxEngineKey{}).(*agent.Engine)
}
