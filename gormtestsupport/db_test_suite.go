package gormtestsupport

import (
	"context"
	"os"

	"github.com/fabric8-services/fabric8-tracker/configuration"
	"github.com/fabric8-services/fabric8-tracker/log"
	"github.com/fabric8-services/fabric8-tracker/migration"
	"github.com/fabric8-services/fabric8-tracker/resource"
	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq" // need to import postgres driver
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var _ suite.SetupAllSuite = &DBTestSuite{}
var _ suite.TearDownAllSuite = &DBTestSuite{}
var _ suite.SetupTestSuite = &DBTestSuite{}
var _ suite.TearDownTestSuite = &DBTestSuite{}

// NewDBTestSuite instanciate a new DBTestSuite
func NewDBTestSuite(configFilePath string) DBTestSuite {
	return DBTestSuite{configFile: configFilePath}
}

// DBTestSuite is a base for tests using a gorm db. The schema is migrated once
// per suite; the trackers created through CreateTracker are removed (with
// their actions) after each test.
type DBTestSuite struct {
	suite.Suite
	configFile    string
	Configuration *configuration.Registry
	DB            *gorm.DB
	Ctx           context.Context
	trackerIDs    []uint64
}

// SetupSuite implements suite.SetupAllSuite
func (s *DBTestSuite) SetupSuite() {
	resource.Require(s.T(), resource.Database)
	config, err := configuration.New(s.configFile)
	if err != nil {
		log.Panic(nil, map[string]interface{}{
			"err": err,
		}, "failed to setup the configuration")
	}
	s.Configuration = config
	if _, c := os.LookupEnv(resource.Database); c {
		s.DB, err = gorm.Open("postgres", config.GetPostgresConfigString())
		if err != nil {
			log.Panic(nil, map[string]interface{}{
				"err": err,
			}, "failed to connect to the database")
		}
		if err := migration.Migrate(context.Background(), s.DB.DB(), config.GetPostgresDatabase()); err != nil {
			log.Panic(nil, map[string]interface{}{
				"err": err,
			}, "failed to migrate the database")
		}
	}
}

// SetupTest implements suite.SetupTestSuite
func (s *DBTestSuite) SetupTest() {
	s.Ctx = context.Background()
	s.trackerIDs = nil
}

// TearDownTest implements suite.TearDownTestSuite
func (s *DBTestSuite) TearDownTest() {
	for _, id := range s.trackerIDs {
		err := s.DB.Exec("DELETE FROM trackers WHERE id = ?", id).Error
		require.NoError(s.T(), err)
	}
	s.trackerIDs = nil
}

// TearDownSuite implements suite.TearDownAllSuite
func (s *DBTestSuite) TearDownSuite() {
	if s.DB != nil {
		s.DB.Close()
	}
}

// CreateTracker inserts a tracker with a unique name and returns its ID. The
// tracker is deleted when the current test ends.
func (s *DBTestSuite) CreateTracker() uint64 {
	var id uint64
	err := s.DB.DB().QueryRow("INSERT INTO trackers (name) VALUES ($1) RETURNING id", "tracker "+uuid.NewV4().String()).Scan(&id)
	require.NoError(s.T(), err)
	s.CleanupTracker(id)
	return id
}

// CleanupTracker registers a tracker created by the test itself for deletion
// when the current test ends.
func (s *DBTestSuite) CleanupTracker(id uint64) {
	s.trackerIDs = append(s.trackerIDs, id)
}
