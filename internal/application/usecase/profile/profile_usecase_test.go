package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"profile-hub/internal/domain/profile"
	"profile-hub/pkg/apperror"
	"profile-hub/pkg/logger"
)

// memProfileRepo mimics the store: child ids are assigned on save, reads
// hand out copies so un-saved mutations never leak back.
type memProfileRepo struct {
	aggs    map[uuid.UUID]*profile.Aggregate
	nextID  int64
	saveErr error
	saves   int
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{aggs: make(map[uuid.UUID]*profile.Aggregate)}
}

func (m *memProfileRepo) seed(agg *profile.Aggregate) {
	m.aggs[agg.UserID] = cloneAggregate(agg)
}

func (m *memProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*profile.Aggregate, error) {
	agg, ok := m.aggs[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	return cloneAggregate(agg), nil
}

func (m *memProfileRepo) Save(ctx context.Context, agg *profile.Aggregate) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if _, ok := m.aggs[agg.UserID]; !ok {
		return apperror.NewNotFound("user", agg.UserID.String())
	}
	for i := range agg.Courses {
		if agg.Courses[i].ID == 0 {
			m.nextID++
			agg.Courses[i].ID = m.nextID
		}
	}
	for i := range agg.Projects {
		if agg.Projects[i].ID == 0 {
			m.nextID++
			agg.Projects[i].ID = m.nextID
		}
	}
	for i := range agg.Skills {
		if agg.Skills[i].ID == 0 {
			m.nextID++
			agg.Skills[i].ID = m.nextID
		}
	}
	m.aggs[agg.UserID] = cloneAggregate(agg)
	m.saves++
	return nil
}

func cloneAggregate(agg *profile.Aggregate) *profile.Aggregate {
	c := *agg
	c.Courses = append([]profile.Course(nil), agg.Courses...)
	c.Projects = append([]profile.Project(nil), agg.Projects...)
	c.Skills = append([]profile.Skill(nil), agg.Skills...)
	return &c
}

type ProfileUseCaseTestSuite struct {
	suite.Suite
	repo   *memProfileRepo
	uc     *ProfileUseCase
	userID uuid.UUID
}

func (s *ProfileUseCaseTestSuite) SetupTest() {
	s.repo = newMemProfileRepo()
	s.uc = NewProfileUseCase(s.repo, logger.NewZapLogger("development"))
	s.userID = uuid.New()
	s.repo.seed(&profile.Aggregate{
		UserID:    s.userID,
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		FirstName: "John",
		LastName:  "Doe",
	})
}

func TestProfileUseCase(t *testing.T) {
	suite.Run(t, new(ProfileUseCaseTestSuite))
}

func (s *ProfileUseCaseTestSuite) Test_AddCourses_Then_GetProfile_RoundTrips() {
	ctx := context.Background()

	err := s.uc.AddCourses(ctx, s.userID, []CourseInput{
		{Title: "Distributed Systems", Description: "consensus and replication"},
	})
	s.NoError(err)

	view, err := s.uc.GetProfile(ctx, s.userID)
	s.NoError(err)
	s.Len(view.Courses, 1)
	s.Equal("Distributed Systems", view.Courses[0].Title)
	s.Equal("consensus and replication", view.Courses[0].Description)
}

func (s *ProfileUseCaseTestSuite) Test_AddCourses_EmptyList_IsSuccessfulNoOp() {
	ctx := context.Background()

	err := s.uc.AddCourses(ctx, s.userID, nil)
	s.NoError(err)

	view, err := s.uc.GetProfile(ctx, s.userID)
	s.NoError(err)
	s.Empty(view.Courses)
}

func (s *ProfileUseCaseTestSuite) Test_AddCourses_UnknownUser_NotFound() {
	err := s.uc.AddCourses(context.Background(), uuid.New(), []CourseInput{{Title: "x"}})
	s.ErrorIs(err, apperror.ErrNotFound)
	s.Zero(s.repo.saves)
}

func (s *ProfileUseCaseTestSuite) Test_UpdateCourse_UnknownChild_LeavesChildrenUntouched() {
	ctx := context.Background()

	s.NoError(s.uc.AddCourses(ctx, s.userID, []CourseInput{{Title: "A", Description: "a"}}))
	before, err := s.uc.GetProfile(ctx, s.userID)
	s.NoError(err)
	savesBefore := s.repo.saves

	err = s.uc.UpdateCourse(ctx, s.userID, 9999, CourseInput{Title: "B", Description: "b"})
	s.ErrorIs(err, apperror.ErrNotFound)

	after, err := s.uc.GetProfile(ctx, s.userID)
	s.NoError(err)
	s.Equal(before.Courses, after.Courses)
	s.Equal(savesBefore, s.repo.saves)
}

func (s *ProfileUseCaseTestSuite) Test_UpdateProject_Overwrites() {
	ctx := context.Background()

	s.NoError(s.uc.AddProjects(ctx, s.userID, []ProjectInput{{Title: "old", Description: "old"}}))
	projectID := s.repo.aggs[s.userID].Projects[0].ID

	s.NoError(s.uc.UpdateProject(ctx, s.userID, projectID, ProjectInput{Title: "new", Description: "fresh"}))

	view, err := s.uc.GetProfile(ctx, s.userID)
	s.NoError(err)
	s.Len(view.Projects, 1)
	s.Equal("new", view.Projects[0].Title)
	s.Equal("fresh", view.Projects[0].Description)
}

func (s *ProfileUseCaseTestSuite) Test_DeleteCourse_SecondCallReportsNotFound() {
	ctx := context.Background()

	s.NoError(s.uc.AddCourses(ctx, s.userID, []CourseInput{{Title: "A"}}))
	courseID := s.repo.aggs[s.userID].Courses[0].ID

	s.NoError(s.uc.DeleteCourse(ctx, s.userID, courseID))
	err := s.uc.DeleteCourse(ctx, s.userID, courseID)
	s.ErrorIs(err, apperror.ErrNotFound)

	view, err := s.uc.GetProfile(ctx, s.userID)
	s.NoError(err)
	s.Empty(view.Courses)
}

func (s *ProfileUseCaseTestSuite) Test_DeleteCourse_RemovesExactlyOne() {
	ctx := context.Background()

	s.NoError(s.uc.AddCourses(ctx, s.userID, []CourseInput{
		{Title: "A"}, {Title: "B"}, {Title: "C"},
	}))
	courseID := s.repo.aggs[s.userID].Courses[1].ID

	s.NoError(s.uc.DeleteCourse(ctx, s.userID, courseID))

	view, err := s.uc.GetProfile(ctx, s.userID)
	s.NoError(err)
	s.Len(view.Courses, 2)
	s.Equal("A", view.Courses[0].Title)
	s.Equal("C", view.Courses[1].Title)
}

func (s *ProfileUseCaseTestSuite) Test_GetProfile_UnknownUser_NotFound() {
	view, err := s.uc.GetProfile(context.Background(), uuid.New())
	s.ErrorIs(err, apperror.ErrNotFound)
	s.Nil(view)
}

func (s *ProfileUseCaseTestSuite) Test_SetJobDescription_And_Address_Overwrite() {
	ctx := context.Background()

	s.NoError(s.uc.SetJobDescription(ctx, s.userID, "Backend engineer"))
	s.NoError(s.uc.SetJobDescription(ctx, s.userID, "Staff engineer"))
	s.NoError(s.uc.SetAddress(ctx, s.userID, "12 Main St"))

	view, err := s.uc.GetProfile(ctx, s.userID)
	s.NoError(err)
	s.NotNil(view.JobDescription)
	s.Equal("Staff engineer", *view.JobDescription)
	s.NotNil(view.Address)
	s.Equal("12 Main St", *view.Address)
}

// Full lifecycle of a single skill: add, read back, update, delete.
func (s *ProfileUseCaseTestSuite) Test_Skill_Lifecycle() {
	ctx := context.Background()

	s.NoError(s.uc.AddSkills(ctx, s.userID, []SkillInput{{Name: "Go", Level: "Expert"}}))

	view, err := s.uc.GetProfile(ctx, s.userID)
	s.NoError(err)
	s.Len(view.Skills, 1)
	s.Equal("Go", view.Skills[0].Name)
	s.Equal("Expert", view.Skills[0].Level)

	skillID := s.repo.aggs[s.userID].Skills[0].ID
	s.NoError(s.uc.UpdateSkill(ctx, s.userID, skillID, SkillInput{Name: "Go", Level: "Intermediate"}))

	view, err = s.uc.GetProfile(ctx, s.userID)
	s.NoError(err)
	s.Equal("Intermediate", view.Skills[0].Level)

	s.NoError(s.uc.DeleteSkill(ctx, s.userID, skillID))

	view, err = s.uc.GetProfile(ctx, s.userID)
	s.NoError(err)
	s.Empty(view.Skills)
}
