package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"contract-registry-api/common"
	"contract-registry-api/logger"
	"contract-registry-api/model"
	"contract-registry-api/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type ContractHandler struct {
	service *service.ContractService
}

func NewContractHandler(service *service.ContractService) *ContractHandler {
	return &ContractHandler{service: service}
}

// ListContracts godoc
// @Summary      List contracts visible to the caller
// @Description  Non-admin callers only see contracts of their own division, regardless of any query parameters.
// @Tags         contracts
// @Produce      json
// @Success      200  {array}   model.Contract
// @Failure      401  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/contracts [get]
func (h *ContractHandler) ListContracts(w http.ResponseWriter, r *http.Request) *common.AppError {
	claims, ok := CallerClaims(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Missing identity context", nil)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": claims.UserID,
		"role":    claims.Role,
	})
	log.Info("List contracts request received")

	contracts, err := h.service.ListContracts(claims)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve contracts", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(contracts)
	return nil
}

// GetContract godoc
// @Summary      Fetch a single contract
// @Tags         contracts
// @Produce      json
// @Param        id   path      int  true  "Contract ID"
// @Success      200  {object}  model.Contract
// @Failure      404  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/contracts/{id} [get]
func (h *ContractHandler) GetContract(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid contract id", err)
	}

	contract, err := h.service.GetContract(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, "Contract not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve contract", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(contract)
	return nil
}

// CreateContract godoc
// @Summary      Register a new contract
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        request  body      model.ContractRequest  true  "Contract data"
// @Success      201      {object}  model.Contract
// @Failure      403      {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/contracts [post]
func (h *ContractHandler) CreateContract(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ContractRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	contract, err := h.service.CreateContract(&req)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not create contract", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(contract)
	return nil
}

// UpdateContract godoc
// @Summary      Update a contract
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id       path      int                    true  "Contract ID"
// @Param        request  body      model.ContractRequest  true  "Contract data"
// @Success      200      {object}  model.Contract
// @Failure      404      {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/contracts/{id} [put]
func (h *ContractHandler) UpdateContract(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid contract id", err)
	}

	var req model.ContractRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	contract, err := h.service.UpdateContract(id, &req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, "Contract not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not update contract", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(contract)
	return nil
}

// DeleteContract godoc
// @Summary      Soft-delete a contract
// @Tags         contracts
// @Produce      json
// @Param        id   path      int  true  "Contract ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/contracts/{id} [delete]
func (h *ContractHandler) DeleteContract(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid contract id", err)
	}

	if err := h.service.DeleteContract(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, "Contract not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not delete contract", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Contract deleted",
	})
	return nil
}
