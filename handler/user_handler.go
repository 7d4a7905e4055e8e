package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"contract-registry-api/common"
	"contract-registry-api/model"
	"contract-registry-api/service"

	"github.com/gorilla/mux"
)

// UserHandler serves the admin user-management endpoints. Role enforcement
// happens in the gate; these handlers only read the injected identity.
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers godoc
// @Summary      List all accounts with status statistics
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/admin/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, stats, err := h.userService.ListUsers()
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not load users", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"users":   users,
		"stats":   stats,
	})
	return nil
}

// UpdateUserStatus godoc
// @Summary      Apply an account lifecycle transition
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      model.UpdateUserStatusRequest  true  "Target user and status"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  common.AppError
// @Failure      404      {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/admin/users [put]
func (h *UserHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateUserStatusRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.userService.UpdateUserStatus(req.UserID, req.Status); err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, "User not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not update user status", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "User status updated",
	})
	return nil
}

// UpdateUserRole godoc
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      model.UpdateUserRoleRequest  true  "Target user and role"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/admin/users/role [put]
func (h *UserHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateUserRoleRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.userService.UpdateUserRole(req.UserID, req.Role); err != nil {
		if errors.Is(err, service.ErrInvalidRole) {
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, "User not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not update user role", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "User role updated",
	})
	return nil
}

// DeactivateUser godoc
// @Summary      Soft-delete an account
// @Description  Marks the account inactive; the record is retained.
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/admin/users/{id} [delete]
func (h *UserHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid user id", err)
	}

	if err := h.userService.DeactivateUser(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, "User not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not deactivate user", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "User deactivated",
	})
	return nil
}
