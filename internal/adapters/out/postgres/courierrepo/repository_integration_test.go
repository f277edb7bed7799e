package courierrepo_test

import (
	"context"
	"testing"

	"matching/internal/adapters/out/postgres/courierrepo"
	"matching/internal/core/domain/model/courier"
	"matching/internal/core/domain/model/kernel"
	"matching/internal/pkg/errs"
	"matching/internal/pkg/testcontainer"

	"github.com/stretchr/testify/suite"
)

// CourierRepositoryIntegrationTestSuite runs the courier repository against a
// real PostgreSQL container.
type CourierRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg   *testcontainer.Postgres
	repo *courierrepo.GormCourierRepository
}

func TestCourierRepositoryIntegration(t *testing.T) {
	suite.Run(t, new(CourierRepositoryIntegrationTestSuite))
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := testcontainer.StartPostgres(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *CourierRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
	suite.repo = courierrepo.NewGormCourierRepository(suite.pg.DB)
}

func (suite *CourierRepositoryIntegrationTestSuite) addCourier(rating float64, free bool) *courier.Courier {
	c, err := courier.RestoreCourier(kernel.NewUUID(), free, rating)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(context.Background(), c))
	return c
}

func (suite *CourierRepositoryIntegrationTestSuite) TestAddAndGet() {
	stored := suite.addCourier(4.5, true)

	loaded, err := suite.repo.Get(context.Background(), stored.ID())

	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(stored.ID()))
	suite.True(loaded.IsFree())
	suite.InDelta(4.5, loaded.Rating(), 1e-9)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestAdd_BusyCourierKeepsFlag() {
	stored := suite.addCourier(3, false)

	loaded, err := suite.repo.Get(context.Background(), stored.ID())

	suite.Require().NoError(err)
	suite.False(loaded.IsFree())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGet_Unknown() {
	_, err := suite.repo.Get(context.Background(), kernel.NewUUID())

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestFindOneFree_PrefersBestRating() {
	suite.addCourier(3.9, true)
	best := suite.addCourier(4.8, true)
	suite.addCourier(5, false)

	found, err := suite.repo.FindOneFree(context.Background())

	suite.Require().NoError(err)
	suite.True(found.ID().IsEqual(best.ID()))
}

func (suite *CourierRepositoryIntegrationTestSuite) TestFindOneFree_AllBusy() {
	suite.addCourier(4, false)

	_, err := suite.repo.FindOneFree(context.Background())

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdateAvailability_CompareAndSet() {
	stored := suite.addCourier(4, true)

	first, err := courier.RestoreCourier(stored.ID(), true, 4)
	suite.Require().NoError(err)
	suite.Require().NoError(first.Occupy())
	second, err := courier.RestoreCourier(stored.ID(), true, 4)
	suite.Require().NoError(err)
	suite.Require().NoError(second.Occupy())

	applied, err := suite.repo.UpdateAvailability(context.Background(), first)
	suite.Require().NoError(err)
	suite.True(applied)

	applied, err = suite.repo.UpdateAvailability(context.Background(), second)
	suite.Require().NoError(err)
	suite.False(applied, "the courier was already claimed")

	suite.Require().NoError(first.Release())
	applied, err = suite.repo.UpdateAvailability(context.Background(), first)
	suite.Require().NoError(err)
	suite.True(applied)

	loaded, err := suite.repo.Get(context.Background(), stored.ID())
	suite.Require().NoError(err)
	suite.True(loaded.IsFree())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdateRating() {
	stored := suite.addCourier(4, true)
	suite.Require().NoError(stored.ChangeRating(2.5))

	suite.Require().NoError(suite.repo.UpdateRating(context.Background(), stored))

	loaded, err := suite.repo.Get(context.Background(), stored.ID())
	suite.Require().NoError(err)
	suite.InDelta(2.5, loaded.Rating(), 1e-9)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdateRating_Unknown() {
	c, err := courier.NewCourier(kernel.NewUUID(), 4)
	suite.Require().NoError(err)

	err = suite.repo.UpdateRating(context.Background(), c)

	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestAdd_DuplicateID() {
	stored := suite.addCourier(4, true)
	again, err := courier.NewCourier(stored.ID(), 3)
	suite.Require().NoError(err)

	err = suite.repo.Add(context.Background(), again)

	suite.ErrorIs(err, errs.ErrValueIsInvalid)
	var invalid *errs.ValueIsInvalidError
	suite.Require().ErrorAs(err, &invalid)
	suite.Equal(courierrepo.ErrCourierAlreadyRegistered, invalid.Cause)
}
