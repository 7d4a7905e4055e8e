package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"contract-registry-api/common"
	"contract-registry-api/config"
	"contract-registry-api/logger"
	"contract-registry-api/service"

	"github.com/gorilla/mux"
)

// maxUploadSize bounds the multipart form held in memory plus temp files.
const maxUploadSize = 32 << 20

type UploadHandler struct {
	contractService *service.ContractService
}

func NewUploadHandler(contractService *service.ContractService) *UploadHandler {
	return &UploadHandler{contractService: contractService}
}

func savePDF(file multipart.File, header *multipart.FileHeader, dir, prefix string, timestamp int64) (string, error) {
	if header.Header.Get("Content-Type") != "application/pdf" {
		return "", errors.New("only PDF files are accepted")
	}

	name := fmt.Sprintf("%s_%d_%s", prefix, timestamp, filepath.Base(header.Filename))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return name, nil
}

// UploadFiles godoc
// @Summary      Upload the contract and attachment PDFs
// @Description  Stores both documents for a contract and advances it to filed status.
// @Tags         contracts
// @Accept       multipart/form-data
// @Produce      json
// @Param        id               path      int   true  "Contract ID"
// @Param        contract_file    formData  file  true  "Contract PDF"
// @Param        attachment_file  formData  file  true  "Attachment PDF"
// @Success      200              {object}  map[string]interface{}
// @Failure      400              {object}  common.AppError
// @Failure      404              {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/contracts/{id}/upload [post]
func (h *UploadHandler) UploadFiles(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid contract id", err)
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid multipart form", err)
	}

	contractFile, contractHeader, err := r.FormFile("contract_file")
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Both contract and attachment files are required", err)
	}
	defer contractFile.Close()

	attachmentFile, attachmentHeader, err := r.FormFile("attachment_file")
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Both contract and attachment files are required", err)
	}
	defer attachmentFile.Close()

	uploadDir := filepath.Join(config.AppConfig.Server.UploadDir, "contracts", strconv.Itoa(id))
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not prepare upload directory", err)
	}

	timestamp := time.Now().UnixMilli()

	contractName, err := savePDF(contractFile, contractHeader, uploadDir, "contract", timestamp)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
	}

	attachmentName, err := savePDF(attachmentFile, attachmentHeader, uploadDir, "attachment", timestamp)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
	}

	contractPath := fmt.Sprintf("/uploads/contracts/%d/%s", id, contractName)
	attachmentPath := fmt.Sprintf("/uploads/contracts/%d/%s", id, attachmentName)

	err = h.contractService.AttachFiles(id, contractPath, contractHeader.Filename, attachmentPath, attachmentHeader.Filename)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, "Contract not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not attach files to contract", err)
	}

	logger.Log.WithField("contract_id", id).Info("Contract documents uploaded")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Files uploaded",
		"data": map[string]string{
			"contract_path":   contractPath,
			"attachment_path": attachmentPath,
		},
	})
	return nil
}
