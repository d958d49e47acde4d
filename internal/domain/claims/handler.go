package claims

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-rescue/internal/domain/reports"
	"pet-rescue/internal/middleware"
	"pet-rescue/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/reports/{ref}/claims", fileClaimHandler(svc))
	r.Post("/report/{ref}/claim", fileClaimHandler(svc)) // ruta vieja del portal
	r.Get("/reports/{ref}/claims", listByReportHandler(svc))
	r.Get("/claims/{claimID}", getClaimHandler(svc))
	r.Get("/me/claims", myClaimsHandler(svc))
	r.Get("/stats", publicStatsHandler(svc))

	// Staff
	r.Get("/admin/stats", adminStatsHandler(svc))
	r.Get("/admin/claims", listForReviewHandler(svc))
	r.Post("/admin/claims/{claimID}/review", reviewHandler(svc))
}

// fileClaimRequest es el formulario de claim / solicitud de adopción / avistaje.
type fileClaimRequest struct {
	Type    string `json:"type" enums:"claim,adopt,sighting"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Proof   string `json:"proof"`
}

type reviewRequest struct {
	Decision string `json:"decision" enums:"approve,reject"`
	Notes    string `json:"notes"`
}

// claimResponse es un claim tal como lo ve el claimant o el staff.
type claimResponse struct {
	ID            string     `json:"id"`
	ReportID      string     `json:"report_id"`
	Type          Type       `json:"type"`
	ClaimantName  string     `json:"claimant_name"`
	ClaimantEmail string     `json:"claimant_email"`
	ClaimantPhone string     `json:"claimant_phone,omitempty"`
	Message       string     `json:"message"`
	Proof         string     `json:"proof,omitempty"`
	Status        Status     `json:"status"`
	ReviewedBy    string     `json:"reviewed_by,omitempty"`
	ReviewNotes   string     `json:"review_notes,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// publicStatsResponse son los contadores de la home.
type publicStatsResponse struct {
	Published       int `json:"published"`
	Claimed         int `json:"claimed"`
	Reunited        int `json:"reunited"`
	Adopted         int `json:"adopted"`
	PendingRequests int `json:"pending_requests"`
}

type adminStatsResponse struct {
	TotalReports        int            `json:"total_reports"`
	PendingVerification int            `json:"pending_verification"`
	PendingRequests     int            `json:"pending_requests"`
	ReportsByStatus     map[string]int `json:"reports_by_status"`
	ReportsByType       map[string]int `json:"reports_by_type"`
	ClaimsByStatus      map[string]int `json:"claims_by_status"`
}

// fileClaimHandler godoc
// @Summary Hacer un claim sobre un reporte
// @Description Claim de dueño, solicitud de adopción o avistaje. Un solo claim por (reporte, email). Avisa a quien cargó el reporte.
// @Tags claims
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param ref path string true "ID o código de referencia del reporte"
// @Param body body fileClaimRequest true "Datos del claim"
// @Success 201 {object} claimResponse
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /reports/{ref}/claims [post]
func fileClaimHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fileClaimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		c, err := svc.File(r.Context(), chi.URLParam(r, "ref"), middleware.GetActor(r.Context()), FileInput{
			Type:    req.Type,
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Message: req.Message,
			Proof:   req.Proof,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toClaimResponse(c))
	}
}

func listByReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByReport(r.Context(), chi.URLParam(r, "ref"), middleware.GetActor(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toClaimList(items))
	}
}

func getClaimHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.Get(r.Context(), chi.URLParam(r, "claimID"), middleware.GetActor(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toClaimResponse(c))
	}
}

// myClaimsHandler godoc
// @Summary Mis solicitudes
// @Description Claims hechos con el usuario o con su email.
// @Tags claims
// @Produce json
// @Success 200 {array} claimResponse
// @Failure 401 {object} map[string]any
// @Router /me/claims [get]
func myClaimsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.GetActor(r.Context())
		if actor.IsAnonymous() {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		items, err := svc.ListByClaimant(r.Context(), actor)
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toClaimList(items))
	}
}

// publicStatsHandler godoc
// @Summary Contadores de la home
// @Tags reports
// @Produce json
// @Success 200 {object} publicStatsResponse
// @Router /stats [get]
func publicStatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.PublicStats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		by := st.Reports.ByStatus
		respond.JSON(w, http.StatusOK, publicStatsResponse{
			Published:       by[reports.StatusPublished],
			Claimed:         by[reports.StatusClaimed],
			Reunited:        by[reports.StatusReunited],
			Adopted:         by[reports.StatusAdopted],
			PendingRequests: st.Claims[StatusPending],
		})
	}
}

// adminStatsHandler godoc
// @Summary Tablero de staff
// @Description Requiere `reports:verify` o `claims:review`.
// @Tags admin
// @Produce json
// @Success 200 {object} adminStatsResponse
// @Failure 403 {object} map[string]any
// @Router /admin/stats [get]
func adminStatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Stats(r.Context(), middleware.GetActor(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		resp := adminStatsResponse{
			TotalReports:        st.Reports.Total,
			PendingVerification: st.Reports.Unverified,
			PendingRequests:     st.Claims[StatusPending],
			ReportsByStatus:     map[string]int{},
			ReportsByType:       map[string]int{},
			ClaimsByStatus:      map[string]int{},
		}
		for k, n := range st.Reports.ByStatus {
			resp.ReportsByStatus[string(k)] = n
		}
		for k, n := range st.Reports.ByType {
			resp.ReportsByType[string(k)] = n
		}
		for k, n := range st.Claims {
			resp.ClaimsByStatus[string(k)] = n
		}
		respond.JSON(w, http.StatusOK, resp)
	}
}

// listForReviewHandler godoc
// @Summary Cola de revisión de claims (staff)
// @Description Requiere capability `claims:review`.
// @Tags admin
// @Produce json
// @Param status query string false "pending (default) | approved | rejected"
// @Param limit query int false "Default 50, máx 200"
// @Success 200 {array} claimResponse
// @Failure 403 {object} map[string]any
// @Router /admin/claims [get]
func listForReviewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, "limit must be a number")
				return
			}
			limit = n
		}

		status := Status(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))))
		items, err := svc.ListByStatus(r.Context(), status, limit, middleware.GetActor(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toClaimList(items))
	}
}

// reviewHandler godoc
// @Summary Aprobar o rechazar un claim (staff)
// @Description Requiere capability `claims:review`. Al aprobar, el reporte pasa a claimed/adopted/matched según el tipo de claim. Un claim ya revisado devuelve 409.
// @Tags admin
// @Accept json
// @Produce json
// @Param claimID path string true "ID del claim"
// @Param body body reviewRequest true "approve | reject"
// @Success 200 {object} claimResponse
// @Failure 403 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /admin/claims/{claimID}/review [post]
func reviewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		var d Decision
		switch strings.ToLower(strings.TrimSpace(req.Decision)) {
		case "approve", "approved":
			d.Approve = true
		case "reject", "rejected":
			d.Approve = false
		default:
			respond.ErrorFields(w, http.StatusBadRequest, "validation failed", map[string][]string{
				"decision": {"must be approve or reject"},
			})
			return
		}
		d.Notes = req.Notes

		c, err := svc.Review(r.Context(), chi.URLParam(r, "claimID"), d, middleware.GetActor(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toClaimResponse(c))
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Validation(w, err)
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "claim not found")
	case errors.Is(err, reports.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "report not found")
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, reports.ErrPermissionDenied):
		respond.Forbidden(w, "/")
	case errors.Is(err, ErrDuplicateClaim):
		respond.ErrorFields(w, http.StatusConflict, "duplicate claim", map[string][]string{
			"email": {ErrDuplicateClaim.Error()},
		})
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, reports.ErrInvalidTransition),
		errors.Is(err, reports.ErrStatusConflict):
		respond.Error(w, http.StatusConflict, err.Error())
	default:
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toClaimList(items []Claim) []claimResponse {
	out := make([]claimResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toClaimResponse(c))
	}
	return out
}

func toClaimResponse(c Claim) claimResponse {
	return claimResponse{
		ID:            c.ID,
		ReportID:      c.ReportID,
		Type:          c.Type,
		ClaimantName:  c.ClaimantName,
		ClaimantEmail: c.ClaimantEmail,
		ClaimantPhone: c.ClaimantPhone,
		Message:       c.Message,
		Proof:         c.Proof,
		Status:        c.Status,
		ReviewedBy:    c.ReviewedBy,
		ReviewNotes:   c.ReviewNotes,
		ReviewedAt:    c.ReviewedAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
