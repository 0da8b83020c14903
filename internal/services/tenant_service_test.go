package services

import (
	"context"
	"testing"

	"salepoint/internal/common"
	"salepoint/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenantRepository) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListActive(ctx context.Context) ([]*models.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

type TenantServiceTestSuite struct {
	suite.Suite
	repo    *MockTenantRepository
	service TenantService
	context context.Context
}

func (suite *TenantServiceTestSuite) SetupTest() {
	suite.repo = new(MockTenantRepository)
	suite.service = NewTenantService(suite.repo)
	suite.context = context.Background()
}

func (suite *TenantServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
}

func TestTenantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TenantServiceTestSuite))
}

func (suite *TenantServiceTestSuite) TestCreate_Success() {
	suite.repo.On("Create", suite.context, mock.AnythingOfType("*models.Tenant")).Return(nil)

	tenant, err := suite.service.Create(suite.context, &CreateTenantRequest{Name: "North Roastery"})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "North Roastery", tenant.Name)
	assert.True(suite.T(), tenant.IsActive)
	assert.NotEqual(suite.T(), uuid.Nil, tenant.ID)
}

func (suite *TenantServiceTestSuite) TestCreate_EmptyNameRejected() {
	tenant, err := suite.service.Create(suite.context, &CreateTenantRequest{Name: "   "})
	assert.Nil(suite.T(), tenant)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidInput)
}

func (suite *TenantServiceTestSuite) TestResolve_Success() {
	id := uuid.New()
	suite.repo.On("GetByID", suite.context, id).
		Return(&models.Tenant{ID: id, Name: "North Roastery", IsActive: true}, nil)

	tenant, err := suite.service.Resolve(suite.context, id.String())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), id, tenant.ID)
}

func (suite *TenantServiceTestSuite) TestResolve_EmptyIdentifier() {
	tenant, err := suite.service.Resolve(suite.context, "")
	assert.Nil(suite.T(), tenant)
	assert.ErrorIs(suite.T(), err, common.ErrTenantUnresolved)
}

func (suite *TenantServiceTestSuite) TestResolve_MalformedIdentifier() {
	tenant, err := suite.service.Resolve(suite.context, "not-a-uuid")
	assert.Nil(suite.T(), tenant)
	assert.ErrorIs(suite.T(), err, common.ErrTenantInvalid)
}

func (suite *TenantServiceTestSuite) TestResolve_UnknownTenant() {
	id := uuid.New()
	suite.repo.On("GetByID", suite.context, id).Return(nil, common.ErrNotFound)

	tenant, err := suite.service.Resolve(suite.context, id.String())
	assert.Nil(suite.T(), tenant)
	assert.ErrorIs(suite.T(), err, common.ErrTenantInvalid)
}

func (suite *TenantServiceTestSuite) TestResolve_DeactivatedTenant() {
	id := uuid.New()
	suite.repo.On("GetByID", suite.context, id).
		Return(&models.Tenant{ID: id, Name: "Closed Cafe", IsActive: false}, nil)

	tenant, err := suite.service.Resolve(suite.context, id.String())
	assert.Nil(suite.T(), tenant)
	assert.ErrorIs(suite.T(), err, common.ErrTenantInvalid)
}
