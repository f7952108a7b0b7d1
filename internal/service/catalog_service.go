package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/collectops/cashdesk/internal/model"
	"github.com/collectops/cashdesk/internal/repo"
)

// CatalogService covers the simple CRUD entities behind the back-office
// screens: agents, dealers, zones, operators, operator services, currencies.
// None of these carries invariants beyond referenced-ID existence.
type CatalogService struct {
	repo repo.RepositoryInterface
	log  *zap.SugaredLogger
}

func NewCatalogService(r repo.RepositoryInterface, logger *zap.SugaredLogger) *CatalogService {
	return &CatalogService{repo: r, log: logger}
}

// ListFilters is the shared list-screen query shape.
type ListFilters struct {
	Search   string
	Page     int
	PageSize int
}

func (f ListFilters) window() (limit, offset int) {
	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	return size, (page - 1) * size
}

func notFoundOr(err error, what, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
	}
	return err
}

// ---- agents ----

type AgentInput struct {
	Code              string
	Name              string
	ZoneID            string
	UserID            *string
	AccountNumber     string
	ContractReference *string
}

func (in AgentInput) validate() error {
	switch {
	case strings.TrimSpace(in.Code) == "":
		return fmt.Errorf("%w: agent code is required", ErrValidation)
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: agent name is required", ErrValidation)
	case in.ZoneID == "":
		return fmt.Errorf("%w: zone is required", ErrValidation)
	case strings.TrimSpace(in.AccountNumber) == "":
		return fmt.Errorf("%w: account number is required", ErrValidation)
	}
	return nil
}

func (s *CatalogService) ListAgents(ctx context.Context, f ListFilters) ([]model.Agent, int64, error) {
	q := s.repo.DB(ctx).Model(&model.Agent{})
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(code) LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit, offset := f.window()
	var items []model.Agent
	err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (s *CatalogService) GetAgent(ctx context.Context, id string) (*model.Agent, error) {
	var a model.Agent
	if err := s.repo.DB(ctx).Preload("Zone").Where("id = ?", id).First(&a).Error; err != nil {
		return nil, notFoundOr(err, "agent", id)
	}
	return &a, nil
}

func (s *CatalogService) CreateAgent(ctx context.Context, in AgentInput) (*model.Agent, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	a := &model.Agent{
		ID: uuid.NewString(), Code: in.Code, Name: in.Name,
		ZoneID: in.ZoneID, UserID: in.UserID, Status: model.AgentActive,
		AccountNumber: in.AccountNumber, ContractReference: in.ContractReference,
	}
	if err := s.repo.DB(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (s *CatalogService) UpdateAgent(ctx context.Context, id string, in AgentInput) (*model.Agent, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	a, err := s.GetAgent(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	a.Code, a.Name, a.ZoneID = in.Code, in.Name, in.ZoneID
	a.UserID, a.AccountNumber, a.ContractReference = in.UserID, in.AccountNumber, in.ContractReference
	a.UpdatedAt = &now
	if err := s.repo.DB(ctx).Save(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (s *CatalogService) DeleteAgent(ctx context.Context, id string) error {
	res := s.repo.DB(ctx).Delete(&model.Agent{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: agent %s", ErrNotFound, id)
	}
	return nil
}

// ---- dealers ----

type DealerInput struct {
	Type              model.DealerType
	Name              string
	ZoneID            string
	AccountNumber     string
	ContractReference *string
}

func (in DealerInput) validate() error {
	switch in.Type {
	case model.DealerDistributor, model.DealerReseller, model.DealerAgent, model.DealerOther:
	default:
		return fmt.Errorf("%w: unknown dealer type %q", ErrValidation, in.Type)
	}
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: dealer name is required", ErrValidation)
	case in.ZoneID == "":
		return fmt.Errorf("%w: zone is required", ErrValidation)
	case strings.TrimSpace(in.AccountNumber) == "":
		return fmt.Errorf("%w: account number is required", ErrValidation)
	}
	return nil
}

func (s *CatalogService) ListDealers(ctx context.Context, f ListFilters) ([]model.Dealer, int64, error) {
	q := s.repo.DB(ctx).Model(&model.Dealer{})
	if f.Search != "" {
		q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit, offset := f.window()
	var items []model.Dealer
	err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (s *CatalogService) GetDealer(ctx context.Context, id string) (*model.Dealer, error) {
	var d model.Dealer
	if err := s.repo.DB(ctx).Preload("Zone").Where("id = ?", id).First(&d).Error; err != nil {
		return nil, notFoundOr(err, "dealer", id)
	}
	return &d, nil
}

func (s *CatalogService) CreateDealer(ctx context.Context, in DealerInput) (*model.Dealer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	d := &model.Dealer{
		ID: uuid.NewString(), Type: in.Type, Name: in.Name, ZoneID: in.ZoneID,
		AccountNumber: in.AccountNumber, KYCStatus: model.KYCPending,
		ContractReference: in.ContractReference,
	}
	if err := s.repo.DB(ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

func (s *CatalogService) UpdateDealer(ctx context.Context, id string, in DealerInput) (*model.Dealer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	d, err := s.GetDealer(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	d.Type, d.Name, d.ZoneID = in.Type, in.Name, in.ZoneID
	d.AccountNumber, d.ContractReference = in.AccountNumber, in.ContractReference
	d.UpdatedAt = &now
	if err := s.repo.DB(ctx).Save(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

func (s *CatalogService) DeleteDealer(ctx context.Context, id string) error {
	res := s.repo.DB(ctx).Delete(&model.Dealer{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: dealer %s", ErrNotFound, id)
	}
	return nil
}

// ---- zones ----

type ZoneInput struct {
	Code         string
	Name         string
	ParentZoneID *string
}

func (in ZoneInput) validate() error {
	switch {
	case strings.TrimSpace(in.Code) == "":
		return fmt.Errorf("%w: zone code is required", ErrValidation)
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: zone name is required", ErrValidation)
	}
	return nil
}

// ListZones returns all zones; the set is small enough that the console
// renders it unpaginated.
func (s *CatalogService) ListZones(ctx context.Context) ([]model.Zone, error) {
	var zones []model.Zone
	err := s.repo.DB(ctx).Order("code asc").Find(&zones).Error
	return zones, err
}

func (s *CatalogService) GetZone(ctx context.Context, id string) (*model.Zone, error) {
	var z model.Zone
	if err := s.repo.DB(ctx).Where("id = ?", id).First(&z).Error; err != nil {
		return nil, notFoundOr(err, "zone", id)
	}
	return &z, nil
}

func (s *CatalogService) CreateZone(ctx context.Context, in ZoneInput) (*model.Zone, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	z := &model.Zone{ID: uuid.NewString(), Code: in.Code, Name: in.Name, ParentZoneID: in.ParentZoneID}
	if err := s.repo.DB(ctx).Create(z).Error; err != nil {
		return nil, err
	}
	return z, nil
}

func (s *CatalogService) UpdateZone(ctx context.Context, id string, in ZoneInput) (*model.Zone, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	z, err := s.GetZone(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	z.Code, z.Name, z.ParentZoneID = in.Code, in.Name, in.ParentZoneID
	z.UpdatedAt = &now
	if err := s.repo.DB(ctx).Save(z).Error; err != nil {
		return nil, err
	}
	return z, nil
}

func (s *CatalogService) DeleteZone(ctx context.Context, id string) error {
	res := s.repo.DB(ctx).Delete(&model.Zone{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: zone %s", ErrNotFound, id)
	}
	return nil
}

// ---- telco operators ----

type OperatorInput struct {
	Code              string
	Name              string
	ContractReference *string
	CommissionAccount *string
}

func (in OperatorInput) validate() error {
	switch {
	case strings.TrimSpace(in.Code) == "":
		return fmt.Errorf("%w: operator code is required", ErrValidation)
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: operator name is required", ErrValidation)
	}
	return nil
}

func (s *CatalogService) ListOperators(ctx context.Context, f ListFilters) ([]model.TelcoOperator, int64, error) {
	q := s.repo.DB(ctx).Model(&model.TelcoOperator{})
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(code) LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit, offset := f.window()
	var items []model.TelcoOperator
	err := q.Order("code asc").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (s *CatalogService) GetOperator(ctx context.Context, id string) (*model.TelcoOperator, error) {
	var o model.TelcoOperator
	if err := s.repo.DB(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, notFoundOr(err, "operator", id)
	}
	return &o, nil
}

func (s *CatalogService) CreateOperator(ctx context.Context, in OperatorInput) (*model.TelcoOperator, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	o := &model.TelcoOperator{
		ID: uuid.NewString(), Code: in.Code, Name: in.Name,
		ContractReference: in.ContractReference, CommissionAccount: in.CommissionAccount,
	}
	if err := s.repo.DB(ctx).Create(o).Error; err != nil {
		return nil, err
	}
	return o, nil
}

func (s *CatalogService) UpdateOperator(ctx context.Context, id string, in OperatorInput) (*model.TelcoOperator, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	o, err := s.GetOperator(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	o.Code, o.Name = in.Code, in.Name
	o.ContractReference, o.CommissionAccount = in.ContractReference, in.CommissionAccount
	o.UpdatedAt = &now
	if err := s.repo.DB(ctx).Save(o).Error; err != nil {
		return nil, err
	}
	return o, nil
}

func (s *CatalogService) DeleteOperator(ctx context.Context, id string) error {
	res := s.repo.DB(ctx).Delete(&model.TelcoOperator{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: operator %s", ErrNotFound, id)
	}
	return nil
}

// ---- operator services ----

type OperatorServiceInput struct {
	OperatorID     string
	ServiceType    model.ServiceType
	ServiceAccount string
	Code           *string
	DisplayName    *string
	IsEnabled      bool
}

func (in OperatorServiceInput) validate() error {
	switch {
	case in.OperatorID == "":
		return fmt.Errorf("%w: operator is required", ErrValidation)
	case !model.ValidServiceType(in.ServiceType):
		return fmt.Errorf("%w: unknown service type %q", ErrValidation, in.ServiceType)
	case strings.TrimSpace(in.ServiceAccount) == "":
		return fmt.Errorf("%w: service account is required", ErrValidation)
	}
	return nil
}

func (s *CatalogService) ListOperatorServices(ctx context.Context, operatorID string, f ListFilters) ([]model.OperatorService, int64, error) {
	q := s.repo.DB(ctx).Model(&model.OperatorService{})
	if operatorID != "" {
		q = q.Where("operator_id = ?", operatorID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit, offset := f.window()
	var items []model.OperatorService
	err := q.Order("created_at asc").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (s *CatalogService) GetOperatorService(ctx context.Context, id string) (*model.OperatorService, error) {
	var svc model.OperatorService
	if err := s.repo.DB(ctx).Preload("Operator").Where("id = ?", id).First(&svc).Error; err != nil {
		return nil, notFoundOr(err, "operator service", id)
	}
	return &svc, nil
}

func (s *CatalogService) CreateOperatorService(ctx context.Context, in OperatorServiceInput) (*model.OperatorService, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetOperator(ctx, in.OperatorID); err != nil {
		return nil, err
	}
	svc := &model.OperatorService{
		ID: uuid.NewString(), OperatorID: in.OperatorID, ServiceType: in.ServiceType,
		ServiceAccount: in.ServiceAccount, Code: in.Code, DisplayName: in.DisplayName,
		IsEnabled: in.IsEnabled,
	}
	if err := s.repo.DB(ctx).Create(svc).Error; err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *CatalogService) UpdateOperatorService(ctx context.Context, id string, in OperatorServiceInput) (*model.OperatorService, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	svc, err := s.GetOperatorService(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	svc.OperatorID, svc.ServiceType, svc.ServiceAccount = in.OperatorID, in.ServiceType, in.ServiceAccount
	svc.Code, svc.DisplayName, svc.IsEnabled = in.Code, in.DisplayName, in.IsEnabled
	svc.UpdatedAt = &now
	svc.Operator = nil
	if err := s.repo.DB(ctx).Save(svc).Error; err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *CatalogService) DeleteOperatorService(ctx context.Context, id string) error {
	res := s.repo.DB(ctx).Delete(&model.OperatorService{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: operator service %s", ErrNotFound, id)
	}
	return nil
}

// ---- currencies ----

func (s *CatalogService) ListCurrencies(ctx context.Context) ([]model.Currency, error) {
	var currencies []model.Currency
	err := s.repo.DB(ctx).Order("code asc").Find(&currencies).Error
	return currencies, err
}
