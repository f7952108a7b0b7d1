package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/collectops/cashdesk/internal/model"
)

func seedRole(t *testing.T, env *testEnv, name model.RoleName) model.Role {
	r := model.Role{ID: uuid.NewString(), Name: name}
	assert.NoError(t, env.db.Create(&r).Error)
	return r
}

func TestCreateUser_HashesPassword(t *testing.T) {
	env, ctx := newTestEnv(t)
	officerRole := seedRole(t, env, model.RoleOfficer)

	u, err := env.users.CreateUser(ctx, UserInput{
		Username: "officer1", Phone: "+221770000001", Password: "s3cret-pass",
		Country: "Senegal", CountryISO: "sn", IsActive: true,
		RoleIDs: []string{officerRole.ID},
	})
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")))
	assert.Equal(t, "SN", u.CountryISO)
	assert.Len(t, u.Roles, 1)
}

func TestCreateUser_Validation(t *testing.T) {
	env, ctx := newTestEnv(t)

	_, err := env.users.CreateUser(ctx, UserInput{
		Username: "shortpw", Phone: "+221770000002", Password: "short",
		Country: "Senegal", CountryISO: "SN",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.users.CreateUser(ctx, UserInput{
		Username: "ghostrole", Phone: "+221770000003", Password: "s3cret-pass",
		Country: "Senegal", CountryISO: "SN", RoleIDs: []string{uuid.NewString()},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateUser_ReplacesRoles(t *testing.T) {
	env, ctx := newTestEnv(t)
	officerRole := seedRole(t, env, model.RoleOfficer)
	cfoRole := seedRole(t, env, model.RoleCFO)

	u, err := env.users.CreateUser(ctx, UserInput{
		Username: "promote-me", Phone: "+221770000004", Password: "s3cret-pass",
		Country: "Senegal", CountryISO: "SN", IsActive: true,
		RoleIDs: []string{officerRole.ID},
	})
	assert.NoError(t, err)

	updated, err := env.users.UpdateUser(ctx, u.ID, UserInput{
		Username: "promote-me", Phone: "+221770000004",
		Country: "Senegal", CountryISO: "SN", IsActive: true,
		RoleIDs: []string{cfoRole.ID},
	})
	assert.NoError(t, err)
	assert.Len(t, updated.Roles, 1)
	assert.Equal(t, model.RoleCFO, updated.Roles[0].Name)
	assert.Equal(t, uint64(1), updated.Version)
	// password untouched when not supplied
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("s3cret-pass")))
}

func TestDeleteUser(t *testing.T) {
	env, ctx := newTestEnv(t)
	u, err := env.users.CreateUser(ctx, UserInput{
		Username: "temp", Phone: "+221770000005", Password: "s3cret-pass",
		Country: "Senegal", CountryISO: "SN",
	})
	assert.NoError(t, err)

	assert.NoError(t, env.users.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, env.users.DeleteUser(ctx, u.ID), ErrNotFound)

	_, _, err = env.users.ListUsers(ctx, ListFilters{})
	assert.NoError(t, err)
}
