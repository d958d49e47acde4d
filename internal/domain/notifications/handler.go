package notifications

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-rescue/internal/middleware"
	"pet-rescue/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/me/notifications", func(nr chi.Router) {
		nr.Get("/", listHandler(svc))
		nr.Get("/unread-count", unreadCountHandler(svc))
		nr.Post("/read-all", markAllReadHandler(svc))
	})
	r.Post("/notifications/{notificationID}/read", markReadHandler(svc))
}

// notificationResponse es una notificación in-app.
type notificationResponse struct {
	ID              string     `json:"id"`
	Category        Category   `json:"category"`
	Title           string     `json:"title"`
	Body            string     `json:"body"`
	IsRead          bool       `json:"is_read"`
	ReadAt          *time.Time `json:"read_at,omitempty"`
	RelatedReportID string     `json:"related_report_id,omitempty"`
	RelatedClaimID  string     `json:"related_claim_id,omitempty"`
	ActionURL       string     `json:"action_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type countResponse struct {
	Count int `json:"count"`
}

// listHandler godoc
// @Summary Mis notificaciones
// @Description Notificaciones del usuario autenticado (por user id o email), más nuevas primero.
// @Tags notifications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param unread query bool false "Solo no leídas"
// @Param limit query int false "Default 50, máx 200"
// @Success 200 {array} notificationResponse
// @Failure 401 {object} map[string]any
// @Router /me/notifications [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.GetActor(r.Context())
		if actor.IsAnonymous() {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var f ListFilter
		if v := strings.TrimSpace(r.URL.Query().Get("unread")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, "unread must be true/false")
				return
			}
			f.UnreadOnly = b
		}
		if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, "limit must be a number")
				return
			}
			f.Limit = n
		}

		items, err := svc.List(r.Context(), actor, f)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]notificationResponse, 0, len(items))
		for _, n := range items {
			out = append(out, toNotificationResponse(n))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func unreadCountHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.GetActor(r.Context())
		if actor.IsAnonymous() {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		n, err := svc.UnreadCount(r.Context(), actor)
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, countResponse{Count: n})
	}
}

// markReadHandler godoc
// @Summary Marcar notificación como leída
// @Description Solo el destinatario. Idempotente.
// @Tags notifications
// @Produce json
// @Param notificationID path string true "ID de la notificación"
// @Success 200 {object} notificationResponse
// @Failure 403 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /notifications/{notificationID}/read [post]
func markReadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.GetActor(r.Context())
		if actor.IsAnonymous() {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		n, err := svc.MarkRead(r.Context(), chi.URLParam(r, "notificationID"), actor)
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toNotificationResponse(n))
	}
}

func markAllReadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.GetActor(r.Context())
		if actor.IsAnonymous() {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		n, err := svc.MarkAllRead(r.Context(), actor)
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, countResponse{Count: n})
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Validation(w, err)
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "notification not found")
	case errors.Is(err, ErrForbidden):
		respond.Forbidden(w, "/me/notifications")
	default:
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toNotificationResponse(n Notification) notificationResponse {
	return notificationResponse{
		ID:              n.ID,
		Category:        n.Category,
		Title:           n.Title,
		Body:            n.Body,
		IsRead:          n.IsRead,
		ReadAt:          n.ReadAt,
		RelatedReportID: n.RelatedReportID,
		RelatedClaimID:  n.RelatedClaimID,
		ActionURL:       n.ActionURL,
		CreatedAt:       n.CreatedAt,
	}
}
