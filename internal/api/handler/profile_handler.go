package handler

import (
	"net/http"

	"syntax/internal/api/middleware"
	"syntax/internal/app/service"
	"syntax/internal/common"

	"github.com/go-chi/chi/v5"
)

type ProfileHandler struct {
	authService  *service.AuthService
	badgeService *service.BadgeService
}

func NewProfileHandler(authService *service.AuthService, badgeService *service.BadgeService) *ProfileHandler {
	return &ProfileHandler{authService: authService, badgeService: badgeService}
}

func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.getProfile)
	r.Get("/badges", h.listBadges)
}

func (h *ProfileHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	user, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) listBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	badges, err := h.badgeService.ListUserBadges(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, badges)
}
