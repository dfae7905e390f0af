package api

import (
	"net/http"
	"time"

	"syntax/internal/api/handler"
	"syntax/internal/app/service"
	"syntax/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	challengeService *service.ChallengeService,
	judgeService *service.JudgeService,
	badgeService *service.BadgeService,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(120 * time.Second))

	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		challengeHandler := handler.NewChallengeHandler(challengeService)
		v1.Route("/challenges", challengeHandler.RegisterRoutes)

		submissionHandler := handler.NewSubmissionHandler(judgeService)
		v1.Route("/submissions", submissionHandler.RegisterRoutes)

		profileHandler := handler.NewProfileHandler(authService, badgeService)
		v1.Route("/profile", profileHandler.RegisterRoutes)
	})

	return r
}
