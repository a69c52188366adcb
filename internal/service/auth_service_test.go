package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"car_catalog/internal/logger"
	"car_catalog/internal/model"
	"car_catalog/internal/repository"
	"car_catalog/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type authFixture struct {
	users    *mockUserRepo
	verifier *mockVerifier
	jwt      *utils.JWTUtil
	svc      AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:    &mockUserRepo{},
		verifier: &mockVerifier{},
		jwt:      utils.NewJWTUtil(testSecret),
	}
	f.svc = NewAuthService(f.users, f.verifier, f.jwt, time.Second, logger.Discard().Logger)
	t.Cleanup(func() {
		f.users.AssertExpectations(t)
		f.verifier.AssertExpectations(t)
	})
	return f
}

func storedUser(t *testing.T, password string, captcha bool) *model.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return &model.User{
		ID:             42,
		Username:       "alice",
		Email:          "a@x.com",
		PasswordHash:   hash,
		Role:           model.RoleEditor,
		CaptchaEnabled: captcha,
	}
}

var hasDeadline = mock.MatchedBy(func(ctx context.Context) bool {
	_, ok := ctx.Deadline()
	return ok
})

func TestLogin_WithoutCaptcha(t *testing.T) {
	f := newAuthFixture(t)
	f.users.On("FindByEmail", hasDeadline, "a@x.com").Return(storedUser(t, "secret", false), nil)

	res, err := f.svc.Login(context.Background(), "A@X.com", "secret", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, model.RoleEditor, res.Role)

	claims, err := f.jwt.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, model.RoleEditor, claims.Role)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, utils.SessionTokenTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))

	f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestLogin_NotFound(t *testing.T) {
	f := newAuthFixture(t)
	f.users.On("FindByEmail", mock.Anything, "missing@x.com").Return(nil, nil)

	_, err := f.svc.Login(context.Background(), "missing@x.com", "whatever", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Login(context.Background(), "missing@x.com", "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogin_LookupError(t *testing.T) {
	f := newAuthFixture(t)
	f.users.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, context.DeadlineExceeded)

	_, err := f.svc.Login(context.Background(), "a@x.com", "secret", "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestLogin_WrongPasswordIsRepeatable(t *testing.T) {
	f := newAuthFixture(t)
	f.users.On("FindByEmail", mock.Anything, "a@x.com").Return(storedUser(t, "secret", false), nil)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Login(context.Background(), "a@x.com", "wrong", "")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	}
	f.users.AssertNumberOfCalls(t, "FindByEmail", 3)
}

func TestLogin_CaptchaGate(t *testing.T) {
	tests := []struct {
		name     string
		response string
		verify   func(v *mockVerifier)
		password string
		wantErr  error
	}{
		{
			name:     "missing response short-circuits before password check",
			response: "",
			password: "wrong",
			wantErr:  ErrCaptchaRequired,
		},
		{
			name:     "missing response with empty password",
			response: "",
			password: "",
			wantErr:  ErrCaptchaRequired,
		},
		{
			name:     "rejected",
			response: "token",
			verify:   func(v *mockVerifier) { v.On("Verify", mock.Anything, "token").Return(false, nil) },
			password: "secret",
			wantErr:  ErrCaptchaFailed,
		},
		{
			name:     "verifier unreachable",
			response: "token",
			verify: func(v *mockVerifier) {
				v.On("Verify", mock.Anything, "token").Return(false, errors.New("dial tcp: timeout"))
			},
			password: "secret",
			wantErr:  ErrCaptchaVerification,
		},
		{
			name:     "passed then wrong password",
			response: "token",
			verify:   func(v *mockVerifier) { v.On("Verify", mock.Anything, "token").Return(true, nil) },
			password: "wrong",
			wantErr:  ErrInvalidPassword,
		},
		{
			name:     "passed",
			response: "token",
			verify:   func(v *mockVerifier) { v.On("Verify", mock.Anything, "token").Return(true, nil) },
			password: "secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			f.users.On("FindByEmail", mock.Anything, "a@x.com").Return(storedUser(t, "secret", true), nil)
			if tt.verify != nil {
				tt.verify(f.verifier)
			}

			res, err := f.svc.Login(context.Background(), "a@x.com", tt.password, tt.response)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, res.Token)
		})
	}
}

func TestCaptchaOutcome(t *testing.T) {
	assert.NoError(t, CaptchaNotRequired.Err())
	assert.NoError(t, CaptchaPassed.Err())
	assert.ErrorIs(t, CaptchaMissing.Err(), ErrCaptchaRequired)
	assert.ErrorIs(t, CaptchaRejected.Err(), ErrCaptchaFailed)
	assert.ErrorIs(t, CaptchaUnverifiable.Err(), ErrCaptchaVerification)
	assert.Equal(t, "rejected", CaptchaRejected.String())
}

func TestRegister_ForcesUserRole(t *testing.T) {
	f := newAuthFixture(t)
	f.users.On("ExistsByUsernameOrEmail", mock.Anything, "bob", "bob@x.com").Return(false, nil)
	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleUser && u.PrivacyPolicyAccepted && u.PasswordHash != "pw123"
	})).Return(nil)

	user, err := f.svc.Register(context.Background(), RegisterInput{
		Username:              " bob ",
		Email:                 "Bob@X.com",
		Password:              "pw123",
		PrivacyPolicyAccepted: true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.Equal(t, "bob@x.com", user.Email)
	assert.True(t, utils.CheckPasswordHash("pw123", user.PasswordHash))
}

func TestRegister_PrivacyPolicyNotAccepted(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Username: "ab",
		Email:    "ab@x.com",
		Password: "pw",
	})
	assert.ErrorIs(t, err, ErrPrivacyPolicyNotAccepted)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_InvalidInput(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Username:              "ab",
		Email:                 "not-an-email",
		Password:              "pw",
		PrivacyPolicyAccepted: true,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Username")
	assert.Contains(t, err.Error(), "Email")
}

func TestRegister_Conflict(t *testing.T) {
	f := newAuthFixture(t)
	f.users.On("ExistsByUsernameOrEmail", mock.Anything, "bob", "bob@x.com").Return(true, nil)

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Username: "bob", Email: "bob@x.com", Password: "pw", PrivacyPolicyAccepted: true,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegister_ConflictFromUniqueIndex(t *testing.T) {
	f := newAuthFixture(t)
	f.users.On("ExistsByUsernameOrEmail", mock.Anything, "bob", "bob@x.com").Return(false, nil)
	f.users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Username: "bob", Email: "bob@x.com", Password: "pw", PrivacyPolicyAccepted: true,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterPrivileged(t *testing.T) {
	tests := []struct {
		role    model.Role
		wantErr error
	}{
		{role: model.RoleUser},
		{role: model.RoleAdmin},
		{role: model.RoleEditor, wantErr: ErrInvalidRole},
		{role: "superuser", wantErr: ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			f := newAuthFixture(t)
			f.users.On("ExistsByUsernameOrEmail", mock.Anything, "carol", "carol@x.com").Return(false, nil)
			if tt.wantErr == nil {
				f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Role == tt.role
				})).Return(nil)
			}

			user, err := f.svc.RegisterPrivileged(context.Background(), PrivilegedRegisterInput{
				Username: "carol", Email: "carol@x.com", Password: "pw", Role: tt.role,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.role, user.Role)
		})
	}
}

func TestRegisterPrivileged_ConflictBeforeRole(t *testing.T) {
	f := newAuthFixture(t)
	f.users.On("ExistsByUsernameOrEmail", mock.Anything, "carol", "carol@x.com").Return(true, nil)

	_, err := f.svc.RegisterPrivileged(context.Background(), PrivilegedRegisterInput{
		Username: "carol", Email: "carol@x.com", Password: "pw", Role: model.RoleEditor,
	})
	assert.ErrorIs(t, err, ErrConflict)
}
