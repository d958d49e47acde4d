package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-rescue/internal/middleware"
	"pet-rescue/internal/platform/imaging"
	"pet-rescue/internal/platform/refcode"
	"pet-rescue/internal/platform/respond"
	"pet-rescue/internal/platform/validation"
	"pet-rescue/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/", homeHandler(svc))
	r.Get("/search", searchHandler(svc))

	r.Post("/reports", submitHandler(svc))
	r.Post("/report/new", submitHandler(svc)) // ruta vieja del portal
	r.Get("/reports/{ref}", getReportHandler(svc))
	r.Get("/me/reports", myReportsHandler(svc))
	r.Post("/reports/{ref}/photo", uploadPhotoHandler(svc))

	// Staff
	r.Post("/admin/reports/{ref}/verify", verifyHandler(svc))
	r.Post("/admin/reports/{ref}/status", transitionHandler(svc))
	r.Delete("/admin/reports/{ref}", deleteHandler(svc))
}

// submitRequest es el formulario de alta de un reporte.
type submitRequest struct {
	Type         string `json:"type" enums:"found,lost"`
	Name         string `json:"name"`
	Species      string `json:"species" enums:"dog,cat,bird,rabbit,hamster,other"`
	Breed        string `json:"breed"`
	Color        string `json:"color"`
	Size         string `json:"size" enums:"small,medium,large"`
	Gender       string `json:"gender" enums:"male,female,unknown"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	Date         string `json:"date"` // YYYY-MM-DD
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
}

// reportResponse es la vista pública de un reporte.
type reportResponse struct {
	ID            string     `json:"id"`
	ReferenceCode string     `json:"reference_code"`
	Title         string     `json:"title"`
	Type          Type       `json:"type"`
	Name          string     `json:"name,omitempty"`
	Species       Species    `json:"species"`
	Breed         string     `json:"breed,omitempty"`
	Color         string     `json:"color,omitempty"`
	Size          Size       `json:"size,omitempty"`
	Gender        Gender     `json:"gender"`
	Description   string     `json:"description,omitempty"`
	Location      string     `json:"location"`
	Date          string     `json:"date"`
	PhotoPath     string     `json:"photo_path,omitempty"`
	ContactName   string     `json:"contact_name,omitempty"`
	ContactEmail  string     `json:"contact_email,omitempty"`
	ContactPhone  string     `json:"contact_phone,omitempty"`
	Status        Status     `json:"status"`
	IsVerified    bool       `json:"is_verified"`
	AcceptsClaims bool       `json:"accepts_claims"`
	Closed        bool       `json:"closed"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	AdminNotes    string     `json:"admin_notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type submitResponse struct {
	Message string         `json:"message"`
	Report  reportResponse `json:"report"`
}

type transitionRequest struct {
	Status string `json:"status" enums:"matched,claimed,adopted,reunited,resolved,closed,archived"`
	Notes  string `json:"notes"`
}

// submitHandler godoc
// @Summary Reportar una mascota encontrada o perdida
// @Description Cualquier visitante puede cargar un reporte. Queda en estado `pending` hasta que staff lo verifique. Devuelve el código de referencia.
// @Tags reports
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param body body submitRequest true "Datos del reporte"
// @Success 201 {object} submitResponse
// @Failure 400 {object} map[string]any
// @Router /reports [post]
func submitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		in := SubmitInput{
			Type:         req.Type,
			Name:         req.Name,
			Species:      req.Species,
			Breed:        req.Breed,
			Color:        req.Color,
			Size:         req.Size,
			Gender:       req.Gender,
			Description:  req.Description,
			Location:     req.Location,
			ContactName:  req.ContactName,
			ContactEmail: req.ContactEmail,
			ContactPhone: req.ContactPhone,
		}
		if d := strings.TrimSpace(req.Date); d != "" {
			t, err := time.Parse("2006-01-02", d)
			if err != nil {
				v := validation.Errors{}
				v.Add("date", "must be YYYY-MM-DD")
				respond.Validation(w, v)
				return
			}
			in.Date = t
		}

		actor := middleware.GetActor(r.Context())
		rep, err := svc.Submit(r.Context(), actor.UserID, in)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Location", "/reports/"+rep.ReferenceCode)
		respond.JSON(w, http.StatusCreated, submitResponse{
			Message: fmt.Sprintf("Thanks! Your report was received. Reference code: %s", refcode.Display(rep.ReferenceCode)),
			Report:  toReportResponse(rep),
		})
	}
}

// getReportHandler godoc
// @Summary Ver un reporte
// @Description Busca por UUID o por código de referencia (con o sin guión).
// @Tags reports
// @Produce json
// @Param ref path string true "ID o código de referencia"
// @Success 200 {object} reportResponse
// @Failure 404 {object} map[string]any
// @Router /reports/{ref} [get]
func getReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := svc.Get(r.Context(), chi.URLParam(r, "ref"))
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func homeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.GetActor(r.Context())
		items, err := svc.Recent(r.Context(), 12, actor)
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toReportList(items, actor))
	}
}

// searchHandler godoc
// @Summary Buscar reportes
// @Description Texto libre sobre nombre, raza, color, ubicación y descripción, más filtros exactos. Todos se combinan con AND.
// @Tags reports
// @Produce json
// @Param q query string false "Texto libre (alias: query, search)"
// @Param type query string false "found | lost (alias: pet_type)"
// @Param species query string false "Especie"
// @Param status query string false "Estado"
// @Param size query string false "Tamaño"
// @Param color query string false "Color (substring)"
// @Param location query string false "Ubicación (substring)"
// @Param verified query bool false "Solo verificados (sin reports:verify se fuerza a true)"
// @Param limit query int false "Default 50, máx 200"
// @Success 200 {array} reportResponse
// @Router /search [get]
func searchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		f := SearchFilter{
			Query:    firstOf(q.Get("q"), q.Get("query"), q.Get("search")),
			Type:     Type(firstOf(q.Get("type"), q.Get("pet_type"))),
			Species:  Species(q.Get("species")),
			Status:   Status(q.Get("status")),
			Size:     Size(q.Get("size")),
			Color:    q.Get("color"),
			Location: q.Get("location"),
		}
		if v := strings.TrimSpace(q.Get("verified")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, "verified must be true/false")
				return
			}
			f.VerifiedOnly = b
		}
		if v := strings.TrimSpace(q.Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, "limit must be a number")
				return
			}
			f.Limit = n
		}

		actor := middleware.GetActor(r.Context())
		items, err := svc.Browse(r.Context(), f, actor)
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toReportList(items, actor))
	}
}

// myReportsHandler godoc
// @Summary Mis reportes
// @Description Reportes cargados por el usuario o con su email de contacto, incluidos los que esperan verificación.
// @Tags reports
// @Produce json
// @Success 200 {array} reportResponse
// @Failure 401 {object} map[string]any
// @Router /me/reports [get]
func myReportsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.GetActor(r.Context())
		if actor.IsAnonymous() {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		items, err := svc.ListByReporter(r.Context(), actor)
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toReportList(items, actor))
	}
}

// uploadPhotoHandler godoc
// @Summary Subir foto del reporte
// @Description Multipart con el campo `photo` (JPEG/PNG/GIF/WebP). Se achica a 1280px y se guarda como JPEG. Solo quien cargó el reporte o staff.
// @Tags reports
// @Accept mpfd
// @Produce json
// @Param ref path string true "ID o código de referencia"
// @Param photo formData file true "Foto"
// @Success 200 {object} reportResponse
// @Failure 400 {object} map[string]any
// @Failure 403 {object} map[string]any
// @Router /reports/{ref}/photo [post]
func uploadPhotoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+(1<<20))
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		file, _, err := r.FormFile("photo")
		if err != nil {
			v := validation.Errors{}
			v.Add("photo", "is required")
			respond.Validation(w, v)
			return
		}
		defer file.Close()

		rep, err := svc.AttachPhoto(r.Context(), chi.URLParam(r, "ref"), file, middleware.GetActor(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toReportResponse(rep))
	}
}

// verifyHandler godoc
// @Summary Verificar reporte (staff)
// @Description Requiere capability `reports:verify`. Un reporte pending pasa a published. Idempotente.
// @Tags admin
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param ref path string true "ID o código de referencia"
// @Success 200 {object} reportResponse
// @Failure 403 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /admin/reports/{ref}/verify [post]
func verifyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := svc.Verify(r.Context(), chi.URLParam(r, "ref"), middleware.GetActor(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func transitionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req transitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		rep, err := svc.Transition(r.Context(), chi.URLParam(r, "ref"), Status(req.Status), req.Notes, middleware.GetActor(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "ref"), middleware.GetActor(r.Context())); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Validation(w, err)
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "report not found")
	case errors.Is(err, ErrPermissionDenied):
		respond.Forbidden(w, "/")
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrStatusConflict):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrPhotosDisabled):
		respond.Error(w, http.StatusServiceUnavailable, err.Error())
	default:
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// toReportList arma los listados. El contacto solo lo ven staff y el dueño.
func toReportList(items []Report, actor capabilities.Actor) []reportResponse {
	showAll := actor.Can(capabilities.ReportsVerify)
	out := make([]reportResponse, 0, len(items))
	for _, rep := range items {
		resp := toReportResponse(rep)
		if !showAll && !rep.IsOwnedBy(actor.UserID, actor.Email) {
			resp.ContactName, resp.ContactEmail, resp.ContactPhone = "", "", ""
		}
		out = append(out, resp)
	}
	return out
}

func toReportResponse(r Report) reportResponse {
	return reportResponse{
		ID:            r.ID,
		ReferenceCode: r.ReferenceCode,
		Title:         r.String(),
		Type:          r.Type,
		Name:          r.Name,
		Species:       r.Species,
		Breed:         r.Breed,
		Color:         r.Color,
		Size:          r.Size,
		Gender:        r.Gender,
		Description:   r.Description,
		Location:      r.Location,
		Date:          r.Date.Format("2006-01-02"),
		PhotoPath:     r.PhotoPath,
		ContactName:   r.ContactName,
		ContactEmail:  r.ContactEmail,
		ContactPhone:  r.ContactPhone,
		Status:        r.Status,
		IsVerified:    r.IsVerified,
		AcceptsClaims: r.AcceptsClaims(),
		Closed:        r.Status.IsTerminal(),
		VerifiedAt:    r.VerifiedAt,
		AdminNotes:    r.AdminNotes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
