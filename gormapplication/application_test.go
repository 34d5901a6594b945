package gormapplication_test

import (
	"context"
	"testing"

	"github.com/fabric8-services/fabric8-tracker/action"
	"github.com/fabric8-services/fabric8-tracker/application"
	"github.com/fabric8-services/fabric8-tracker/errors"
	"github.com/fabric8-services/fabric8-tracker/gormapplication"
	"github.com/fabric8-services/fabric8-tracker/gormtestsupport"
	"github.com/fabric8-services/fabric8-tracker/tracker"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type gormApplicationTest struct {
	gormtestsupport.DBTestSuite
	appDB *gormapplication.GormDB
}

func TestRunGormApplicationTest(t *testing.T) {
	suite.Run(t, &gormApplicationTest{DBTestSuite: gormtestsupport.NewDBTestSuite("../config.yaml")})
}

func (s *gormApplicationTest) SetupTest() {
	s.DBTestSuite.SetupTest()
	s.appDB = gormapplication.NewGormDB(s.DB)
}

func (s *gormApplicationTest) TestCommit() {
	var created tracker.Tracker
	err := application.Transactional(s.Ctx, s.appDB, func(ctx context.Context, appl application.Application) error {
		created = tracker.Tracker{Name: "committed " + uuid.NewV4().String()}
		if err := appl.Trackers().Create(ctx, &created); err != nil {
			return err
		}
		a := action.Action{TrackerID: created.ID, Title: "first"}
		return appl.Actions().Create(ctx, &a)
	})
	require.NoError(s.T(), err)
	s.CleanupTracker(created.ID)

	actions, err := s.appDB.Actions().List(s.Ctx, created.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), actions, 1)
	assert.Equal(s.T(), 1, actions[0].LocalID)
}

func (s *gormApplicationTest) TestRollback() {
	var created tracker.Tracker
	err := application.Transactional(s.Ctx, s.appDB, func(ctx context.Context, appl application.Application) error {
		created = tracker.Tracker{Name: "rolled back " + uuid.NewV4().String()}
		if err := appl.Trackers().Create(ctx, &created); err != nil {
			return err
		}
		a := action.Action{TrackerID: created.ID, Title: " "}
		return appl.Actions().Create(ctx, &a)
	})
	ok, _ := errors.IsBadParameterError(err)
	require.True(s.T(), ok, "%+v", err)
	require.NotZero(s.T(), created.ID)

	err = s.appDB.Trackers().CheckExists(s.Ctx, created.ID)
	ok, _ = errors.IsNotFoundError(err)
	assert.True(s.T(), ok)
}

func (s *gormApplicationTest) TestCanceledContext() {
	ctx, cancel := context.WithCancel(s.Ctx)
	cancel()
	err := application.Transactional(ctx, s.appDB, func(ctx context.Context, appl application.Application) error {
		_, err := appl.Trackers().List(ctx)
		return err
	})
	ok, _ := errors.IsUnavailableError(err)
	assert.True(s.T(), ok, "%+v", err)
}

func (s *gormApplicationTest) TestPing() {
	require.NoError(s.T(), s.appDB.Ping(s.Ctx))
}

func (s *gormApplicationTest) TestSetTransactionIsolationLevel() {
	db := gormapplication.NewGormDB(s.DB)
	require.NoError(s.T(), db.SetTransactionIsolationLevel(gormapplication.TXIsoLevelRepeatableRead))
	tx, err := db.BeginTransaction(s.Ctx)
	require.NoError(s.T(), err)
	var level string
	require.NoError(s.T(), tx.(*gormapplication.GormTransaction).DB().Raw("SHOW transaction_isolation").Row().Scan(&level))
	assert.Equal(s.T(), "repeatable read", level)
	require.NoError(s.T(), tx.Rollback())

	assert.Error(s.T(), db.SetTransactionIsolationLevel(gormapplication.TXIsoLevel(42)))
}
