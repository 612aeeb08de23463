package cancellationrepo_test

import (
	"context"
	"testing"
	"time"

	"sharedcab/internal/adapters/out/postgres/cancellationrepo"
	"sharedcab/internal/adapters/out/postgres/pgtest"
	"sharedcab/internal/core/domain/model/cancellation"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type CancellationRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *tcpostgres.PostgresContainer
	db         *gorm.DB
	repository *cancellationrepo.GormCancellationRepository
}

func (suite *CancellationRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *CancellationRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
	suite.repository = cancellationrepo.NewGormCancellationRepository(suite.db)
}

func (suite *CancellationRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CancellationRepositoryIntegrationTestSuite) newCancellation(bookingID kernel.UUID) *cancellation.Cancellation {
	groupID := kernel.NewUUID()
	c, err := cancellation.NewCancellation(
		kernel.NewUUID(),
		bookingID,
		time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC),
		"plans changed",
		"",
		cancellation.Charge{
			Fee:    decimal.RequireFromString("31.50"),
			Refund: decimal.RequireFromString("126.00"),
		},
		&groupID,
	)
	suite.Require().NoError(err)
	return c
}

func (suite *CancellationRepositoryIntegrationTestSuite) TestAddAndGetByBookingID() {
	ctx := suite.T().Context()
	c := suite.newCancellation(kernel.NewUUID())
	suite.Require().NoError(suite.repository.Add(ctx, c))

	got, err := suite.repository.GetByBookingID(ctx, c.BookingID())

	suite.Require().NoError(err)
	suite.True(got.ID().IsEqual(c.ID()))
	suite.Equal("plans changed", got.Reason())
	suite.Equal(cancellation.DefaultInitiator, got.InitiatedBy())
	suite.True(got.Fee().Equal(decimal.RequireFromString("31.50")))
	suite.True(got.Refund().Equal(decimal.RequireFromString("126.00")))
	suite.True(got.TriggeredRebalance())
	suite.Require().NotNil(got.AffectedRideGroupID())
	suite.True(got.AffectedRideGroupID().IsEqual(*c.AffectedRideGroupID()))
}

func (suite *CancellationRepositoryIntegrationTestSuite) TestAdd_SecondCancellationOfSameBooking() {
	ctx := suite.T().Context()
	bookingID := kernel.NewUUID()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newCancellation(bookingID)))

	err := suite.repository.Add(ctx, suite.newCancellation(bookingID))

	suite.Require().ErrorIs(err, errs.ErrConstraintViolation)
}

func (suite *CancellationRepositoryIntegrationTestSuite) TestGetByBookingID_NotFound() {
	_, err := suite.repository.GetByBookingID(suite.T().Context(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestCancellationRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CancellationRepositoryIntegrationTestSuite))
}
