package services

import (
	"context"
	"testing"
	"time"

	"interviewhub/internal/apperr"
	"interviewhub/internal/db/dbtest"
	"interviewhub/internal/logger"
	"interviewhub/internal/models"
	"interviewhub/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompanyService(t *testing.T) (*CompanyService, *utils.Cache) {
	t.Helper()
	gdb := dbtest.Open(t)
	cache, err := utils.NewCache(16)
	require.NoError(t, err)
	return NewCompanyService(gdb, logger.Nop(), cache, time.Minute), cache
}

func TestCompanyListIsCachedUntilCreate(t *testing.T) {
	svc, cache := newCompanyService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CompanyInput{Name: "Zeta"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CompanyInput{Name: "Acme", Website: "https://acme.example"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acme", list[0].Name)
	assert.NotNil(t, cache.Get(companiesCacheKey))

	// rows written behind the service stay invisible until the cache is dropped
	require.NoError(t, svc.db.Create(&models.Company{Name: "Hidden"}).Error)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.Create(ctx, CompanyInput{Name: "Beta"})
	require.NoError(t, err)
	assert.Nil(t, cache.Get(companiesCacheKey))

	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

func TestCompanyCreateErrors(t *testing.T) {
	svc, _ := newCompanyService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, CompanyInput{Name: "  Acme  ", Industry: "Retail"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)

	_, err = svc.Create(ctx, CompanyInput{Name: "ACME"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Company already exists", err.Error())

	_, err = svc.Create(ctx, CompanyInput{Name: " "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "Company name is required", err.Error())

	_, err = svc.Create(ctx, CompanyInput{Name: "Initech", Website: "initech"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "website must be a valid URL", err.Error())
}
