package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/kardex-api/pkg/jwt"
)

type fakeUsers struct {
	byEmail map[string]*entity.User
}

func (f *fakeUsers) Create(u *entity.User) error {
	f.byEmail[u.Email] = u
	return nil
}
func (f *fakeUsers) GetByID(id string) (*entity.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (f *fakeUsers) FindByEmail(email string) (*entity.User, error) {
	return f.byEmail[email], nil
}

func newAuthUC() (*auth.UseCase, *fakeUsers) {
	repo := &fakeUsers{byEmail: map[string]*entity.User{}}
	uc := auth.NewUseCase(repo, auth.JWTConfig{
		Secret:     "test-secret",
		ExpMinutes: 60,
		Issuer:     "kardex-test",
	})
	return uc, repo
}

func TestRegisterUser_HasheaPassword(t *testing.T) {
	uc, repo := newAuthUC()

	out, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "Ana@Example.com",
		Password: "secreto123",
		Name:     "Ana",
		Role:     entity.RoleAlmacenista,
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", out.Email, "el email se normaliza a minúsculas")
	assert.Equal(t, entity.RoleAlmacenista, out.Role)
	assert.NotEmpty(t, out.ID)

	stored := repo.byEmail["ana@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secreto123", stored.PasswordHash, "el password nunca se guarda plano")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto123")))
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newAuthUC()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@example.com", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "ana@example.com", Password: "otroSecreto"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_RolInvalido(t *testing.T) {
	uc, _ := newAuthUC()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "x@example.com", Password: "secreto123", Role: "superuser"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterUser_RolPorDefectoConsulta(t *testing.T) {
	uc, _ := newAuthUC()
	out, err := uc.RegisterUser(dto.RegisterRequest{Email: "x@example.com", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleConsulta, out.Role)
}

func TestLogin_TokenConRol(t *testing.T) {
	uc, _ := newAuthUC()
	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "ana@example.com", Password: "secreto123", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "ana@example.com", Password: "secreto123"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	userID, role, err := pkgjwt.Parse("test-secret", out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc, _ := newAuthUC()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@example.com", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@example.com", Password: "incorrecto"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, repo := newAuthUC()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@example.com", Password: "secreto123"})
	require.NoError(t, err)
	repo.byEmail["ana@example.com"].Active = false

	_, err = uc.Login(dto.LoginRequest{Email: "ana@example.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _ := newAuthUC()
	_, err := uc.Login(dto.LoginRequest{Email: "nadie@example.com", Password: "loquesea"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
