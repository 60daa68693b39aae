package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	propertydomain "github.com/nyumba/nyumba/internal/property/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newService(t *testing.T) propertydomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&propertydomain.Property{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(Params{DB: db, Log: zaptest.NewLogger(t), GenID: node})
}

func TestCreateGeneratesSlugAndStartsVacant(t *testing.T) {
	svc := newService(t)

	prop, err := svc.Create(context.Background(), propertydomain.CreatePropertyRequest{
		Name:    "Kabulonga House",
		Type:    propertydomain.PropertyTypeHouse,
		Address: "12 Kudu Rd, Kabulonga, Lusaka",
	})
	require.NoError(t, err)

	assert.Equal(t, "kabulonga-house", prop.Slug)
	assert.Equal(t, propertydomain.PropertyStatusVacant, prop.Status)
	assert.NotZero(t, prop.ID)
}

func TestCreateDefaultsTypeToHouse(t *testing.T) {
	svc := newService(t)

	prop, err := svc.Create(context.Background(), propertydomain.CreatePropertyRequest{
		Name:    "Chilenje Flat 2",
		Address: "Plot 45, Chilenje South",
	})
	require.NoError(t, err)
	assert.Equal(t, propertydomain.PropertyTypeHouse, prop.Type)
}

func TestCreateValidation(t *testing.T) {
	svc := newService(t)

	_, err := svc.Create(context.Background(), propertydomain.CreatePropertyRequest{Name: "  "})
	assert.ErrorIs(t, err, propertydomain.ErrInvalidName)

	_, err = svc.Create(context.Background(), propertydomain.CreatePropertyRequest{
		Name: "Plot 7", Type: propertydomain.PropertyType("castle"),
	})
	assert.ErrorIs(t, err, propertydomain.ErrInvalidType)
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	svc := newService(t)

	_, err := svc.Create(context.Background(), propertydomain.CreatePropertyRequest{
		Name: "Kabulonga House", Address: "12 Kudu Rd",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), propertydomain.CreatePropertyRequest{
		Name: "Kabulonga House", Address: "another address",
	})
	assert.ErrorIs(t, err, propertydomain.ErrDuplicateSlug)
}

func TestListFiltersByStatus(t *testing.T) {
	svc := newService(t)

	first, err := svc.Create(context.Background(), propertydomain.CreatePropertyRequest{Name: "Avondale Shop"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), propertydomain.CreatePropertyRequest{Name: "Libala Flat"})
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(context.Background(), first.ID.String(), propertydomain.PropertyStatusOccupied))

	occupied := propertydomain.PropertyStatusOccupied
	list, err := svc.List(context.Background(), propertydomain.ListPropertyRequest{Status: &occupied})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	list, err = svc.List(context.Background(), propertydomain.ListPropertyRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestGetByIDUnknown(t *testing.T) {
	svc := newService(t)

	_, err := svc.GetByID(context.Background(), "123456789")
	assert.ErrorIs(t, err, propertydomain.ErrNotFound)

	_, err = svc.GetByID(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, propertydomain.ErrNotFound)
}
