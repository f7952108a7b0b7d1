package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/collectops/cashdesk/internal/model"
)

func TestAgentCRUD(t *testing.T) {
	env, ctx := newTestEnv(t)

	zone, err := env.catalog.CreateZone(ctx, ZoneInput{Code: "DKR", Name: "Dakar"})
	assert.NoError(t, err)

	a, err := env.catalog.CreateAgent(ctx, AgentInput{
		Code: "AG-001", Name: "Mamadou Ba", ZoneID: zone.ID, AccountNumber: "0001234",
	})
	assert.NoError(t, err)
	assert.Equal(t, model.AgentActive, a.Status)

	got, err := env.catalog.GetAgent(ctx, a.ID)
	assert.NoError(t, err)
	assert.Equal(t, "AG-001", got.Code)
	assert.Equal(t, "DKR", got.Zone.Code)

	updated, err := env.catalog.UpdateAgent(ctx, a.ID, AgentInput{
		Code: "AG-001", Name: "Mamadou Ba Jr", ZoneID: zone.ID, AccountNumber: "0001234",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Mamadou Ba Jr", updated.Name)
	assert.NotNil(t, updated.UpdatedAt)

	items, total, err := env.catalog.ListAgents(ctx, ListFilters{Search: "mamadou"})
	assert.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, items, 1)

	assert.NoError(t, env.catalog.DeleteAgent(ctx, a.ID))
	assert.ErrorIs(t, env.catalog.DeleteAgent(ctx, a.ID), ErrNotFound)
	_, err = env.catalog.GetAgent(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAgentValidation(t *testing.T) {
	env, ctx := newTestEnv(t)
	_, err := env.catalog.CreateAgent(ctx, AgentInput{Name: "No Code", ZoneID: uuid.NewString(), AccountNumber: "1"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDealerCRUD(t *testing.T) {
	env, ctx := newTestEnv(t)
	zone, err := env.catalog.CreateZone(ctx, ZoneInput{Code: "THS", Name: "Thies"})
	assert.NoError(t, err)

	d, err := env.catalog.CreateDealer(ctx, DealerInput{
		Type: model.DealerDistributor, Name: "Sahel Distribution", ZoneID: zone.ID, AccountNumber: "555001",
	})
	assert.NoError(t, err)
	// new dealers start with KYC pending
	assert.Equal(t, model.KYCPending, d.KYCStatus)

	_, err = env.catalog.CreateDealer(ctx, DealerInput{
		Type: "WHOLESALER", Name: "Bad Type", ZoneID: zone.ID, AccountNumber: "555002",
	})
	assert.ErrorIs(t, err, ErrValidation)

	items, total, err := env.catalog.ListDealers(ctx, ListFilters{Search: "sahel"})
	assert.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, d.ID, items[0].ID)
}

func TestZoneHierarchy(t *testing.T) {
	env, ctx := newTestEnv(t)

	parent, err := env.catalog.CreateZone(ctx, ZoneInput{Code: "NORTH", Name: "Northern Region"})
	assert.NoError(t, err)
	child, err := env.catalog.CreateZone(ctx, ZoneInput{Code: "SL", Name: "Saint-Louis", ParentZoneID: &parent.ID})
	assert.NoError(t, err)
	assert.Equal(t, parent.ID, *child.ParentZoneID)

	zones, err := env.catalog.ListZones(ctx)
	assert.NoError(t, err)
	assert.Len(t, zones, 2)
}

func TestOperatorAndServices(t *testing.T) {
	env, ctx := newTestEnv(t)

	op, err := env.catalog.CreateOperator(ctx, OperatorInput{Code: "ORG", Name: "Orange"})
	assert.NoError(t, err)

	svc, err := env.catalog.CreateOperatorService(ctx, OperatorServiceInput{
		OperatorID: op.ID, ServiceType: model.ServiceAirtime, ServiceAccount: "ACC-01", IsEnabled: true,
	})
	assert.NoError(t, err)

	// services of an unknown operator are refused
	_, err = env.catalog.CreateOperatorService(ctx, OperatorServiceInput{
		OperatorID: uuid.NewString(), ServiceType: model.ServiceAirtime, ServiceAccount: "ACC-02",
	})
	assert.ErrorIs(t, err, ErrNotFound)

	items, total, err := env.catalog.ListOperatorServices(ctx, op.ID, ListFilters{})
	assert.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, svc.ID, items[0].ID)

	disabled, err := env.catalog.UpdateOperatorService(ctx, svc.ID, OperatorServiceInput{
		OperatorID: op.ID, ServiceType: model.ServiceAirtime, ServiceAccount: "ACC-01", IsEnabled: false,
	})
	assert.NoError(t, err)
	assert.False(t, disabled.IsEnabled)

	assert.NoError(t, env.catalog.DeleteOperatorService(ctx, svc.ID))
	assert.NoError(t, env.catalog.DeleteOperator(ctx, op.ID))
}
