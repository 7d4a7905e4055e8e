package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"contract-registry-api/common"
	"contract-registry-api/model"
	"contract-registry-api/service"
)

type ProfileHandler struct {
	userService *service.UserService
}

func NewProfileHandler(userService *service.UserService) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

// GetProfile godoc
// @Summary      Load the caller's own profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	claims, ok := CallerClaims(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Missing identity context", nil)
	}

	user, err := h.userService.GetProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, "User not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not load profile", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"user":    user,
	})
	return nil
}

// UpdateProfile godoc
// @Summary      Update the caller's own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request  body      model.UpdateProfileRequest  true  "Profile fields"
// @Success      200      {object}  map[string]interface{}
// @Failure      401      {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/profile [put]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	claims, ok := CallerClaims(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Missing identity context", nil)
	}

	var req model.UpdateProfileRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.userService.UpdateProfile(claims.UserID, &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, "User not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not update profile", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"user":    user,
	})
	return nil
}
