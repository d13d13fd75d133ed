package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"interviewhub/internal/apperr"
	"interviewhub/internal/logger"
	"interviewhub/internal/models"
	"interviewhub/internal/utils"

	"gorm.io/gorm"
)

const companiesCacheKey = "companies:all"

type CompanyInput struct {
	Name     string `json:"name" binding:"required,max=100"`
	LogoURL  string `json:"logo_url" binding:"omitempty,url"`
	Website  string `json:"website" binding:"omitempty,url"`
	Industry string `json:"industry" binding:"max=100"`
}

func (in *CompanyInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.LogoURL = strings.TrimSpace(in.LogoURL)
	in.Website = strings.TrimSpace(in.Website)
	in.Industry = strings.TrimSpace(in.Industry)
}

// CompanyService backs the company picker. The full list is small and read
// on every form load, so it is kept in the shared cache.
type CompanyService struct {
	db    *gorm.DB
	log   *logger.Logger
	cache *utils.Cache
	ttl   time.Duration
}

func NewCompanyService(gdb *gorm.DB, baseLog *logger.Logger, cache *utils.Cache, ttl time.Duration) *CompanyService {
	return &CompanyService{
		db:    gdb,
		log:   baseLog.With("service", "CompanyService"),
		cache: cache,
		ttl:   ttl,
	}
}

func (s *CompanyService) List(ctx context.Context) ([]models.Company, error) {
	if cached, ok := s.cache.Get(companiesCacheKey).([]models.Company); ok {
		return cached, nil
	}

	companies := []models.Company{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&companies).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch companies", fmt.Errorf("list companies: %w", err))
	}

	s.cache.Set(companiesCacheKey, companies, s.ttl)
	return companies, nil
}

// Create rejects names that differ from an existing company only by case.
func (s *CompanyService) Create(ctx context.Context, in CompanyInput) (*models.Company, error) {
	in.normalize()
	if err := validate(&in); err != nil {
		return nil, err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Company{}).
		Where("LOWER(name) = ?", strings.ToLower(in.Name)).
		Count(&count).Error
	if err != nil {
		return nil, apperr.Internal("Failed to create company", fmt.Errorf("check company name: %w", err))
	}
	if count > 0 {
		return nil, apperr.Conflict("Company already exists", nil)
	}

	company := models.Company{
		Name:     in.Name,
		LogoURL:  in.LogoURL,
		Website:  in.Website,
		Industry: in.Industry,
	}
	if err := s.db.WithContext(ctx).Create(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Company already exists", err)
		}
		return nil, apperr.Internal("Failed to create company", fmt.Errorf("insert company: %w", err))
	}

	s.cache.Delete(companiesCacheKey)
	s.log.Info("Company created", "company_id", company.ID, "name", company.Name)
	return &company, nil
}
