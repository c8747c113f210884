// AdmissionMiddleware — допусковый фильтр перед бизнес-логикой.
//
// Роль берётся из контекста (её кладёт SessionMiddleware), по роли
// строится правило скользящего окна, решение принимает admission.Decider.
// Отказы различаются по категориям: бот и атакующая сигнатура — 403,
// превышение лимита — 429. Внутренний сбой механизма — 500, запрос
// дальше не идёт (fail-closed).
package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/auth-gateway/internal/admission"
	"github.com/magabrotheeeer/auth-gateway/internal/config"
	"github.com/magabrotheeeer/auth-gateway/internal/http/response"
	"github.com/magabrotheeeer/auth-gateway/internal/lib/sl"
)

// AdmissionMiddleware возвращает middleware допускового контроля.
func AdmissionMiddleware(decider admission.Decider, limits config.Admission, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdmissionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			role := RoleFromContext(r.Context())
			rule := admission.RuleForRole(limits, role)
			probe := admission.Probe{
				IP:        clientIP(r),
				UserAgent: r.UserAgent(),
				Method:    r.Method,
				Path:      r.URL.Path,
				Query:     r.URL.RawQuery,
			}

			decision, err := decider.Decide(r.Context(), probe, rule)
			if err != nil {
				log.Error("admission decider failed", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}

			admission.ObserveDecision(decision.Kind, rule.Role)

			switch decision.Kind {
			case admission.DenyBot:
				log.Warn("bot request denied",
					slog.String("ip", probe.IP),
					slog.String("user_agent", probe.UserAgent),
					slog.String("path", probe.Path),
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(decision.Message))
				return
			case admission.DenyShield:
				log.Warn("request denied by shield",
					slog.String("ip", probe.IP),
					slog.String("user_agent", probe.UserAgent),
					slog.String("path", probe.Path),
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(decision.Message))
				return
			case admission.DenyRateLimit:
				log.Warn("rate limit exceeded",
					slog.String("ip", probe.IP),
					slog.String("user_agent", probe.UserAgent),
					slog.String("path", probe.Path),
					slog.String("method", probe.Method),
					slog.String("role", rule.Role),
				)
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error(decision.Message))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
