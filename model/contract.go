package model

import "time"

// Contract statuses follow the registry workflow: a contract is drafted,
// advances to filed once its documents are uploaded, and is eventually closed.
const (
	ContractStatusDraft  = 1
	ContractStatusFiled  = 2
	ContractStatusClosed = 3
)

type Contract struct {
	ID                 int        `json:"id"`
	Recorder           string     `json:"recorder"`
	DivisionID         int        `json:"division_id"`
	ProjectName        string     `json:"project_name"`
	WayType            string     `json:"way_type"`
	FundSource         string     `json:"fund_source"`
	Budget             float64    `json:"budget"`
	ContractBudget     float64    `json:"contract_budget"`
	PartnerName        string     `json:"partner_name"`
	DepositType        string     `json:"deposit_type"`
	DepositAmount      float64    `json:"deposit_amount"`
	EndDate            time.Time  `json:"end_date"`
	Warranty           string     `json:"warranty"`
	Status             int        `json:"status"`
	ContractFilePath   *string    `json:"contract_file_path,omitempty"`
	ContractFileName   *string    `json:"contract_file_name,omitempty"`
	AttachmentFilePath *string    `json:"attachment_file_path,omitempty"`
	AttachmentFileName *string    `json:"attachment_file_name,omitempty"`
	UploadDate         *time.Time `json:"upload_date,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}
