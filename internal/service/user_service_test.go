package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/aaleksaaleksic/food-ordering-system/internal/auth"
	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
	apperrors "github.com/aaleksaaleksic/food-ordering-system/pkg/util"
)

type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

func TestUserService_Create(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), 4)

	user, err := svc.Create(context.Background(), UserInput{
		FirstName:   "Ana",
		LastName:    "P",
		Email:       "ana@example.com",
		Password:    "secret",
		Permissions: []domain.Permission{domain.PermReadUsers},
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotEqual(t, "secret", user.PasswordHash)
	require.NoError(t, auth.ComparePassword(user.PasswordHash, "secret"))
}

func TestUserService_Create_DuplicateEmailConflicts(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), 4)

	_, err := svc.Create(context.Background(), UserInput{Email: "ana@example.com", Password: "x"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), UserInput{Email: "ana@example.com", Password: "y"})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "CONFLICT", domainErr.Code)
	require.Equal(t, 409, domainErr.HTTPStatus)
}

func TestUserService_Update_PasswordOnlyWhenSupplied(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), 4)

	user, err := svc.Create(context.Background(), UserInput{Email: "ana@example.com", Password: "old"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), user.ID, UserInput{
		FirstName:   "Renamed",
		Email:       "ana@example.com",
		Permissions: []domain.Permission{domain.PermTrackOrder},
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.FirstName)
	require.Equal(t, []domain.Permission{domain.PermTrackOrder}, updated.Permissions)
	require.NoError(t, auth.ComparePassword(updated.PasswordHash, "old"))

	updated, err = svc.Update(context.Background(), user.ID, UserInput{Email: "ana@example.com", Password: "new"})
	require.NoError(t, err)
	require.NoError(t, auth.ComparePassword(updated.PasswordHash, "new"))
	require.Error(t, auth.ComparePassword(updated.PasswordHash, "old"))
}

func TestUserService_Update_EmailChangeChecksConflict(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, 4)

	_, err := svc.Create(context.Background(), UserInput{Email: "taken@example.com", Password: "x"})
	require.NoError(t, err)
	user, err := svc.Create(context.Background(), UserInput{Email: "ana@example.com", Password: "x"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), user.ID, UserInput{Email: "taken@example.com"})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "CONFLICT", domainErr.Code)
}

func TestUserService_BootstrapAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, 4)

	// unset credentials leave the install untouched
	require.NoError(t, svc.BootstrapAdmin(context.Background(), "", ""))
	require.Empty(t, repo.users)

	require.NoError(t, svc.BootstrapAdmin(context.Background(), "admin@example.com", "root"))
	admin, err := repo.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	require.True(t, admin.IsAdmin())
	require.ElementsMatch(t, domain.AllPermissions(), admin.Permissions)

	// a second bootstrap with the account present is a no-op
	require.NoError(t, svc.BootstrapAdmin(context.Background(), "admin@example.com", "other"))
	require.Len(t, repo.users, 1)
	require.NoError(t, auth.ComparePassword(admin.PasswordHash, "root"))
}

func TestUserService_Delete(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, 4)

	user, err := svc.Create(context.Background(), UserInput{Email: "ana@example.com", Password: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), user.ID))
	require.Error(t, svc.Delete(context.Background(), user.ID))
}
