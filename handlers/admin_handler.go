package handlers

import (
	"errors"
	"net/http"

	"github.com/Samat21/unileague/middleware"
	"github.com/Samat21/unileague/models"
	"github.com/Samat21/unileague/services"
)

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// RequestAccess — любой аутентифицированный пользователь просит роль ADMIN.
func (h *AdminHandler) RequestAccess(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	request, err := h.adminService.RequestAccess(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"admin_request": request}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) GetOwnRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	request, err := h.adminService.GetOwnRequest(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrAdminRequestNotFound) {
			// Отсутствие заявки — нормальное состояние, не 404.
			if err := writeJSON(w, http.StatusOK, jsonResponse{"admin_request": nil}, nil); err != nil {
				serverErrorResponse(w, r, err)
			}
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"admin_request": request}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var status *models.AdminRequestStatus
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		s := models.AdminRequestStatus(statusStr)
		switch s {
		case models.AdminRequestPending, models.AdminRequestApproved, models.AdminRequestRejected:
			status = &s
		default:
			badRequestResponse(w, r, errors.New("invalid status filter"))
			return
		}
	}

	requests, err := h.adminService.ListRequests(r.Context(), callerID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"admin_requests": requests}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	requestID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	request, err := h.adminService.Approve(r.Context(), requestID, callerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"admin_request": request}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	requestID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Reason *string `json:"reason,omitempty"`
	}
	// Тело опционально: ошибки парсинга пустого тела игнорируем.
	_ = readJSON(w, r, &input)

	request, err := h.adminService.Reject(r.Context(), requestID, callerID, input.Reason)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"admin_request": request}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
