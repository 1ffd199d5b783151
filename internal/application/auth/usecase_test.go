package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain"
	"github.com/jhoicas/Orbita-api/internal/domain/entity"
	"github.com/jhoicas/Orbita-api/pkg/jwt"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByAuthID(ctx context.Context, authID string) (*entity.User, error) {
	args := m.Called(ctx, authID)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepo) ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.User, error) {
	args := m.Called(ctx, orgID, limit, offset)
	list, _ := args.Get(0).([]*entity.User)
	return list, args.Error(1)
}

var jwtCfg = JWTConfig{Secret: "test-secret", ExpMinutes: 5, Issuer: "orbita"}

func newUC(repo *MockUserRepo) *AuthUseCase {
	uc := NewAuthUseCase(repo, jwtCfg)
	uc.cost = bcrypt.MinCost
	return uc
}

func TestRegisterUser_SinOrganizacionYMember(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.OrganizationID == nil && !u.IsSuperAdmin && u.Role == entity.RoleMember &&
			u.AuthID != "" && u.AuthID != u.ID && u.PasswordHash != "password123"
	})).Return(nil)

	out, err := newUC(repo).RegisterUser(context.Background(), dto.RegisterRequest{Email: " Ana@Example.com ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", out.Email)
	assert.Empty(t, out.OrganizationID)
	repo.AssertExpectations(t)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(&entity.User{ID: "u1"}, nil)

	_, err := newUC(repo).RegisterUser(context.Background(), dto.RegisterRequest{Email: "ana@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_SubjectEsAuthID(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := new(MockUserRepo)
	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(&entity.User{
		ID: "u1", AuthID: "auth-1", Email: "ana@example.com", PasswordHash: string(hash), Status: entity.UserActive,
	}, nil)

	out, err := newUC(repo).Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)

	sub, err := jwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "auth-1", sub)
}

func TestLogin_Errores(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := new(MockUserRepo)
	repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)
	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(&entity.User{
		ID: "u1", AuthID: "auth-1", PasswordHash: string(hash), Status: entity.UserActive,
	}, nil)
	repo.On("GetByEmail", mock.Anything, "off@example.com").Return(&entity.User{
		ID: "u2", AuthID: "auth-2", PasswordHash: string(hash), Status: entity.UserSuspended,
	}, nil)
	uc := newUC(repo)
	ctx := context.Background()

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "off@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
