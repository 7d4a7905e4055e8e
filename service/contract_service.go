package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"contract-registry-api/logger"
	"contract-registry-api/model"
	"contract-registry-api/repository"
)

const contractCacheTTL = 10 * time.Minute

// ContractService handles contract business logic, including the division
// visibility rule and a cache-aside layer over contract listings.
type ContractService struct {
	repo  repository.IContractRepository
	cache ICacheClient
}

func NewContractService(repo repository.IContractRepository, cache ICacheClient) *ContractService {
	return &ContractService{repo: repo, cache: cache}
}

// listCacheKey identifies one visibility scope: the unfiltered admin view or
// a single division's slice.
func listCacheKey(divisionID *int) string {
	if divisionID == nil {
		return "contracts:all"
	}
	return fmt.Sprintf("contracts:div:%d", *divisionID)
}

// ListContracts returns the contracts visible to the caller. Admin roles see
// every division; everyone else is filtered to the division carried in their
// verified claim. The caller's own request input never influences the filter.
func (s *ContractService) ListContracts(claims *model.AppClaims) ([]*model.Contract, error) {
	var scope *int
	if !claims.Role.IsAdmin() {
		if claims.DivisionID == nil {
			// Non-admin without a division has nothing to see.
			return []*model.Contract{}, nil
		}
		scope = claims.DivisionID
	}

	cacheKey := listCacheKey(scope)
	ctx := context.Background()

	if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
		var contracts []*model.Contract
		if err := json.Unmarshal([]byte(cached), &contracts); err == nil {
			return contracts, nil
		}
	}

	var contracts []*model.Contract
	var err error
	if scope == nil {
		contracts, err = s.repo.GetAllContracts()
	} else {
		contracts, err = s.repo.GetContractsByDivision(*scope)
	}
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(contracts); err == nil {
		s.cache.Set(ctx, cacheKey, data, contractCacheTTL)
	}

	return contracts, nil
}

func (s *ContractService) GetContract(id int) (*model.Contract, error) {
	return s.repo.GetContractByID(id)
}

func (s *ContractService) CreateContract(req *model.ContractRequest) (*model.Contract, error) {
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}

	contract := &model.Contract{
		Recorder:       req.Recorder,
		DivisionID:     req.DivisionID,
		ProjectName:    req.ProjectName,
		WayType:        req.WayType,
		FundSource:     req.FundSource,
		Budget:         req.Budget,
		ContractBudget: req.ContractBudget,
		PartnerName:    req.PartnerName,
		DepositType:    req.DepositType,
		DepositAmount:  req.DepositAmount,
		EndDate:        endDate,
		Warranty:       req.Warranty,
		Status:         model.ContractStatusDraft,
	}

	if err := s.repo.CreateContract(contract); err != nil {
		return nil, err
	}

	s.invalidateListCache(contract.DivisionID)
	return contract, nil
}

func (s *ContractService) UpdateContract(id int, req *model.ContractRequest) (*model.Contract, error) {
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}

	existing, err := s.repo.GetContractByID(id)
	if err != nil {
		return nil, err
	}

	previousDivision := existing.DivisionID

	existing.Recorder = req.Recorder
	existing.DivisionID = req.DivisionID
	existing.ProjectName = req.ProjectName
	existing.WayType = req.WayType
	existing.FundSource = req.FundSource
	existing.Budget = req.Budget
	existing.ContractBudget = req.ContractBudget
	existing.PartnerName = req.PartnerName
	existing.DepositType = req.DepositType
	existing.DepositAmount = req.DepositAmount
	existing.EndDate = endDate
	existing.Warranty = req.Warranty

	if err := s.repo.UpdateContract(existing); err != nil {
		return nil, err
	}

	s.invalidateListCache(previousDivision)
	if req.DivisionID != previousDivision {
		s.invalidateListCache(req.DivisionID)
	}
	return existing, nil
}

// DeleteContract soft-deletes a contract; the row is retained with its
// deletion flag set.
func (s *ContractService) DeleteContract(id int) error {
	contract, err := s.repo.GetContractByID(id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDeleteContract(id); err != nil {
		return err
	}

	s.invalidateListCache(contract.DivisionID)
	return nil
}

// AttachFiles records the stored locations of the uploaded contract and
// attachment documents and advances the contract to filed status.
func (s *ContractService) AttachFiles(id int, contractPath, contractName, attachmentPath, attachmentName string) error {
	contract, err := s.repo.GetContractByID(id)
	if err != nil {
		return err
	}

	err = s.repo.AttachFiles(id, contractPath, contractName, attachmentPath, attachmentName, time.Now())
	if err != nil {
		return err
	}

	s.invalidateListCache(contract.DivisionID)
	return nil
}

func (s *ContractService) invalidateListCache(divisionID int) {
	ctx := context.Background()
	if err := s.cache.Del(ctx, "contracts:all", listCacheKey(&divisionID)).Err(); err != nil {
		logger.Log.WithError(err).Warn("Failed to invalidate contract list cache")
	}
}
