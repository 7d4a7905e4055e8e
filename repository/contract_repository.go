package repository

import (
	"database/sql"
	"time"

	"contract-registry-api/logger"
	"contract-registry-api/model"

	"github.com/sirupsen/logrus"
)

// IContractRepository defines the contract for contract record persistence.
// Deletion is always a soft delete; removed rows stay in the table with
// is_deleted set.
type IContractRepository interface {
	CreateContract(contract *model.Contract) error
	GetContractByID(id int) (*model.Contract, error)
	GetAllContracts() ([]*model.Contract, error)
	GetContractsByDivision(divisionID int) ([]*model.Contract, error)
	UpdateContract(contract *model.Contract) error
	SoftDeleteContract(id int) error
	AttachFiles(id int, contractPath, contractName, attachmentPath, attachmentName string, uploadDate time.Time) error
}

type ContractRepository struct {
	DB *sql.DB
}

func NewContractRepository(db *sql.DB) *ContractRepository {
	return &ContractRepository{DB: db}
}

const contractColumns = `id, recorder, division_id, project_name, way_type, fund_source,
	budget, contract_budget, partner_name, deposit_type, deposit_amount, end_date, warranty,
	status, contract_file_path, contract_file_name, attachment_file_path, attachment_file_name,
	upload_date, created_at`

func scanContract(s interface{ Scan(...interface{}) error }) (*model.Contract, error) {
	c := &model.Contract{}
	err := s.Scan(&c.ID, &c.Recorder, &c.DivisionID, &c.ProjectName, &c.WayType, &c.FundSource,
		&c.Budget, &c.ContractBudget, &c.PartnerName, &c.DepositType, &c.DepositAmount,
		&c.EndDate, &c.Warranty, &c.Status, &c.ContractFilePath, &c.ContractFileName,
		&c.AttachmentFilePath, &c.AttachmentFileName, &c.UploadDate, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ContractRepository) CreateContract(contract *model.Contract) error {
	log := logger.Log.WithFields(logrus.Fields{
		"project_name": contract.ProjectName,
		"division_id":  contract.DivisionID,
	})
	log.Info("Executing query to create a new contract")

	query := `INSERT INTO contracts (recorder, division_id, project_name, way_type, fund_source,
		budget, contract_budget, partner_name, deposit_type, deposit_amount, end_date, warranty, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id, created_at`
	err := r.DB.QueryRow(query, contract.Recorder, contract.DivisionID, contract.ProjectName,
		contract.WayType, contract.FundSource, contract.Budget, contract.ContractBudget,
		contract.PartnerName, contract.DepositType, contract.DepositAmount, contract.EndDate,
		contract.Warranty, contract.Status).Scan(&contract.ID, &contract.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create contract query")
		return err
	}
	return nil
}

// GetContractByID returns a contract that has not been soft-deleted.
func (r *ContractRepository) GetContractByID(id int) (*model.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1 AND NOT is_deleted`
	contract, err := scanContract(r.DB.QueryRow(query, id))
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithField("contract_id", id).WithError(err).Error("Failed to execute get contract query")
		}
		return nil, err
	}
	return contract, nil
}

// GetAllContracts retrieves every live contract across divisions.
// Reserved for admin callers; division scoping happens in the service layer.
func (r *ContractRepository) GetAllContracts() ([]*model.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE NOT is_deleted ORDER BY id`
	return r.queryContracts(query)
}

// GetContractsByDivision retrieves live contracts for a single division.
func (r *ContractRepository) GetContractsByDivision(divisionID int) ([]*model.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE division_id = $1 AND NOT is_deleted ORDER BY id`
	return r.queryContracts(query, divisionID)
}

func (r *ContractRepository) queryContracts(query string, args ...interface{}) ([]*model.Contract, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute contracts query")
		return nil, err
	}
	defer rows.Close()

	var contracts []*model.Contract
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to scan contract row")
			return nil, err
		}
		contracts = append(contracts, contract)
	}
	return contracts, rows.Err()
}

func (r *ContractRepository) UpdateContract(contract *model.Contract) error {
	log := logger.Log.WithField("contract_id", contract.ID)
	log.Info("Executing query to update contract")

	query := `UPDATE contracts SET recorder = $1, division_id = $2, project_name = $3, way_type = $4,
		fund_source = $5, budget = $6, contract_budget = $7, partner_name = $8, deposit_type = $9,
		deposit_amount = $10, end_date = $11, warranty = $12
		WHERE id = $13 AND NOT is_deleted`
	result, err := r.DB.Exec(query, contract.Recorder, contract.DivisionID, contract.ProjectName,
		contract.WayType, contract.FundSource, contract.Budget, contract.ContractBudget,
		contract.PartnerName, contract.DepositType, contract.DepositAmount, contract.EndDate,
		contract.Warranty, contract.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update contract query")
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDeleteContract flags a contract as deleted without removing the row.
func (r *ContractRepository) SoftDeleteContract(id int) error {
	log := logger.Log.WithField("contract_id", id)
	log.Info("Executing query to soft-delete contract")

	query := `UPDATE contracts SET is_deleted = TRUE WHERE id = $1 AND NOT is_deleted`
	result, err := r.DB.Exec(query, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute soft-delete contract query")
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AttachFiles records uploaded document locations and advances the contract
// to filed status.
func (r *ContractRepository) AttachFiles(id int, contractPath, contractName, attachmentPath, attachmentName string, uploadDate time.Time) error {
	log := logger.Log.WithField("contract_id", id)
	log.Info("Executing query to attach uploaded files to contract")

	query := `UPDATE contracts SET contract_file_path = $1, contract_file_name = $2,
		attachment_file_path = $3, attachment_file_name = $4, upload_date = $5, status = $6
		WHERE id = $7 AND NOT is_deleted`
	result, err := r.DB.Exec(query, contractPath, contractName, attachmentPath, attachmentName,
		uploadDate, model.ContractStatusFiled, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute attach files query")
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
