package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	profileDomain "profile-hub/internal/domain/profile"
	"profile-hub/pkg/apperror"
	"profile-hub/pkg/logger"
)

type ProfileRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	profileRepo profileDomain.Repository
}

func (s *ProfileRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.profileRepo = NewPostgresProfileRepo(s.dbPool, logger.NewZapLogger("development"))
}

func (s *ProfileRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestProfileRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(ProfileRepoIntegrationTestSuite))
}

// seedUser inserts a fresh user row and returns its id. Each test seeds its
// own user so the suite cases stay independent.
func (s *ProfileRepoIntegrationTestSuite) seedUser(email string) uuid.UUID {
	userID := uuid.New()
	query := `INSERT INTO users (id, username, email, password_hash) VALUES ($1, $2, $3, $4)`
	_, err := s.dbPool.Exec(context.Background(), query, userID, "itest", email, "hashedpassword")
	if err != nil {
		s.T().Fatalf("Failed to seed user: %s", err)
	}
	return userID
}

func (s *ProfileRepoIntegrationTestSuite) Test_GetByUserID_UnknownUser() {
	_, err := s.profileRepo.GetByUserID(context.Background(), uuid.New())

	s.Error(err)
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *ProfileRepoIntegrationTestSuite) Test_Save_AssignsChildIDs_And_Reloads() {
	ctx := context.Background()
	userID := s.seedUser("children@example.com")

	agg, err := s.profileRepo.GetByUserID(ctx, userID)
	s.Require().NoError(err)

	agg.AppendCourses([]profileDomain.Course{
		{Title: "Algorithms", Description: "CLRS"},
		{Title: "Databases", Description: "Internals"},
	})
	agg.AppendSkills([]profileDomain.Skill{{Name: "Go", Level: "Expert"}})

	s.Require().NoError(s.profileRepo.Save(ctx, agg))

	s.Require().Len(agg.Courses, 2)
	s.NotZero(agg.Courses[0].ID)
	s.NotZero(agg.Courses[1].ID)
	s.NotEqual(agg.Courses[0].ID, agg.Courses[1].ID)

	reloaded, err := s.profileRepo.GetByUserID(ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(reloaded.Courses, 2)
	s.Equal("Algorithms", reloaded.Courses[0].Title)
	s.Equal(userID, reloaded.Courses[0].UserID)
	s.Require().Len(reloaded.Skills, 1)
	s.Equal("Go", reloaded.Skills[0].Name)
	s.Empty(reloaded.Projects)
}

func (s *ProfileRepoIntegrationTestSuite) Test_Save_UpdatesExistingChild() {
	ctx := context.Background()
	userID := s.seedUser("update-child@example.com")

	agg, err := s.profileRepo.GetByUserID(ctx, userID)
	s.Require().NoError(err)
	agg.AppendProjects([]profileDomain.Project{{Title: "Side Project", Description: "v1"}})
	s.Require().NoError(s.profileRepo.Save(ctx, agg))

	projectID := agg.Projects[0].ID
	s.Require().True(agg.UpdateProject(projectID, "Side Project", "v2"))
	s.Require().NoError(s.profileRepo.Save(ctx, agg))

	reloaded, err := s.profileRepo.GetByUserID(ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(reloaded.Projects, 1)
	s.Equal(projectID, reloaded.Projects[0].ID)
	s.Equal("v2", reloaded.Projects[0].Description)
}

func (s *ProfileRepoIntegrationTestSuite) Test_Save_PrunesRemovedChild() {
	ctx := context.Background()
	userID := s.seedUser("prune-child@example.com")

	agg, err := s.profileRepo.GetByUserID(ctx, userID)
	s.Require().NoError(err)
	agg.AppendSkills([]profileDomain.Skill{
		{Name: "Go", Level: "Expert"},
		{Name: "Kafka", Level: "Intermediate"},
	})
	s.Require().NoError(s.profileRepo.Save(ctx, agg))

	removedID := agg.Skills[0].ID
	keptID := agg.Skills[1].ID
	s.Require().True(agg.RemoveSkill(removedID))
	s.Require().NoError(s.profileRepo.Save(ctx, agg))

	reloaded, err := s.profileRepo.GetByUserID(ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(reloaded.Skills, 1)
	s.Equal(keptID, reloaded.Skills[0].ID)

	var count int
	err = s.dbPool.QueryRow(ctx, `SELECT COUNT(*) FROM skills WHERE user_id = $1`, userID).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *ProfileRepoIntegrationTestSuite) Test_Save_PersistsScalarFields() {
	ctx := context.Background()
	userID := s.seedUser("scalars@example.com")

	agg, err := s.profileRepo.GetByUserID(ctx, userID)
	s.Require().NoError(err)

	job := "Backend engineer"
	addr := "12 Nguyen Hue, District 1"
	agg.JobDescription = &job
	agg.Address = &addr
	s.Require().NoError(s.profileRepo.Save(ctx, agg))

	reloaded, err := s.profileRepo.GetByUserID(ctx, userID)
	s.Require().NoError(err)
	s.Require().NotNil(reloaded.JobDescription)
	s.Equal(job, *reloaded.JobDescription)
	s.Require().NotNil(reloaded.Address)
	s.Equal(addr, *reloaded.Address)
}

func (s *ProfileRepoIntegrationTestSuite) Test_Save_UnknownUser() {
	agg := &profileDomain.Aggregate{UserID: uuid.New(), Username: "ghost", Email: "ghost@example.com"}

	err := s.profileRepo.Save(context.Background(), agg)

	s.Error(err)
	s.ErrorIs(err, apperror.ErrNotFound)
}
