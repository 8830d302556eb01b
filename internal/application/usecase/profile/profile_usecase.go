package profile

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"profile-hub/internal/domain/profile"
	"profile-hub/pkg/apperror"
	"profile-hub/pkg/logger"
)

// ProfileUseCase is the single point of read and mutation access for profile
// data. Every write loads the user aggregate, mutates it in memory and
// persists through one Save call; child rows are never touched directly.
type ProfileUseCase struct {
	profileRepo profile.Repository
	logger      logger.Logger
}

func NewProfileUseCase(repo profile.Repository, log logger.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: repo,
		logger:      log,
	}
}

type CourseInput struct {
	Title       string
	Description string
}

type ProjectInput struct {
	Title       string
	Description string
}

type SkillInput struct {
	Name  string
	Level string
}

// SetJobDescription overwrites the scalar field. Repeated calls with the
// same text are no-ops in effect. The add and update routes both land here;
// the original API kept the redundancy and so do we.
func (uc *ProfileUseCase) SetJobDescription(ctx context.Context, userID uuid.UUID, jobDescription string) error {
	agg, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	agg.JobDescription = &jobDescription
	return uc.profileRepo.Save(ctx, agg)
}

func (uc *ProfileUseCase) SetAddress(ctx context.Context, userID uuid.UUID, address string) error {
	agg, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	agg.Address = &address
	return uc.profileRepo.Save(ctx, agg)
}

// AddCourses appends the whole batch and persists once; a failed save
// commits none of the rows. An empty batch still succeeds.
func (uc *ProfileUseCase) AddCourses(ctx context.Context, userID uuid.UUID, courses []CourseInput) error {
	agg, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	rows := make([]profile.Course, len(courses))
	for i, c := range courses {
		rows[i] = profile.Course{Title: c.Title, Description: c.Description}
	}
	agg.AppendCourses(rows)
	return uc.profileRepo.Save(ctx, agg)
}

func (uc *ProfileUseCase) AddProjects(ctx context.Context, userID uuid.UUID, projects []ProjectInput) error {
	agg, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	rows := make([]profile.Project, len(projects))
	for i, p := range projects {
		rows[i] = profile.Project{Title: p.Title, Description: p.Description}
	}
	agg.AppendProjects(rows)
	return uc.profileRepo.Save(ctx, agg)
}

func (uc *ProfileUseCase) AddSkills(ctx context.Context, userID uuid.UUID, skills []SkillInput) error {
	agg, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	rows := make([]profile.Skill, len(skills))
	for i, s := range skills {
		rows[i] = profile.Skill{Name: s.Name, Level: s.Level}
	}
	agg.AppendSkills(rows)
	return uc.profileRepo.Save(ctx, agg)
}

func (uc *ProfileUseCase) UpdateCourse(ctx context.Context, userID uuid.UUID, courseID int64, in CourseInput) error {
	agg, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !agg.UpdateCourse(courseID, in.Title, in.Description) {
		return apperror.NewNotFound("course", strconv.FormatInt(courseID, 10))
	}
	return uc.profileRepo.Save(ctx, agg)
}

func (uc *ProfileUseCase) UpdateProject(ctx context.Context, userID uuid.UUID, projectID int64, in ProjectInput) error {
	agg, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !agg.UpdateProject(projectID, in.Title, in.Description) {
		return apperror.NewNotFound("project", strconv.FormatInt(projectID, 10))
	}
	return uc.profileRepo.Save(ctx, agg)
}

func (uc *ProfileUseCase) UpdateSkill(ctx context.Context, userID uuid.UUID, skillID int64, in SkillInput) error {
	agg, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !agg.UpdateSkill(skillID, in.Name, in.Level) {
		return apperror.NewNotFound("skill", strconv.FormatInt(skillID, 10))
	}
	return uc.profileRepo.Save(ctx, agg)
}

func (uc *ProfileUseCase) DeleteCourse(ctx context.Context, userID uuid.UUID, courseID int64) error {
	agg, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !agg.RemoveCourse(courseID) {
		return apperror.NewNotFound("course", strconv.FormatInt(courseID, 10))
	}
	return uc.profileRepo.Save(ctx, agg)
}

func (uc *ProfileUseCase) DeleteProject(ctx context.Context, userID uuid.UUID, projectID int64) error {
	agg, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !agg.RemoveProject(projectID) {
		return apperror.NewNotFound("project", strconv.FormatInt(projectID, 10))
	}
	return uc.profileRepo.Save(ctx, agg)
}

func (uc *ProfileUseCase) DeleteSkill(ctx context.Context, userID uuid.UUID, skillID int64) error {
	agg, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !agg.RemoveSkill(skillID) {
		return apperror.NewNotFound("skill", strconv.FormatInt(skillID, 10))
	}
	return uc.profileRepo.Save(ctx, agg)
}

// GetProfile is a pure read: the aggregate is projected into a view and
// nothing is written or cached.
func (uc *ProfileUseCase) GetProfile(ctx context.Context, userID uuid.UUID) (*profile.View, error) {
	agg, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return agg.View(), nil
}
