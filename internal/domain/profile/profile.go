package profile

import (
	"context"

	"github.com/google/uuid"
)

// Course and Project share a shape; Skill carries a name/level pair instead.
// Child IDs are assigned by the store on insert; an ID of zero marks a row
// that has not been persisted yet.

type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      uuid.UUID `json:"user_id"`
}

type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      uuid.UUID `json:"user_id"`
}

type Skill struct {
	ID     int64     `json:"id"`
	Name   string    `json:"name"`
	Level  string    `json:"level"`
	UserID uuid.UUID `json:"user_id"`
}

// Aggregate is a user together with its child collections. All child rows
// are reached and persisted through their owner: the aggregate is the unit
// of consistency, saved in a single transaction.
type Aggregate struct {
	UserID            uuid.UUID `json:"user_id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	JobDescription    *string   `json:"job_description"`
	Address           *string   `json:"address"`
	Courses           []Course  `json:"courses"`
	Projects          []Project `json:"projects"`
	Skills            []Skill   `json:"skills"`
}

func (a *Aggregate) AppendCourses(courses []Course) {
	for _, c := range courses {
		c.ID = 0
		c.UserID = a.UserID
		a.Courses = append(a.Courses, c)
	}
}

func (a *Aggregate) AppendProjects(projects []Project) {
	for _, p := range projects {
		p.ID = 0
		p.UserID = a.UserID
		a.Projects = append(a.Projects, p)
	}
}

func (a *Aggregate) AppendSkills(skills []Skill) {
	for _, s := range skills {
		s.ID = 0
		s.UserID = a.UserID
		a.Skills = append(a.Skills, s)
	}
}

// UpdateCourse overwrites the mutable fields of the child with the given id.
// Reports false when no such child belongs to this user.
func (a *Aggregate) UpdateCourse(courseID int64, title, description string) bool {
	for i := range a.Courses {
		if a.Courses[i].ID == courseID {
			a.Courses[i].Title = title
			a.Courses[i].Description = description
			return true
		}
	}
	return false
}

func (a *Aggregate) UpdateProject(projectID int64, title, description string) bool {
	for i := range a.Projects {
		if a.Projects[i].ID == projectID {
			a.Projects[i].Title = title
			a.Projects[i].Description = description
			return true
		}
	}
	return false
}

func (a *Aggregate) UpdateSkill(skillID int64, name, level string) bool {
	for i := range a.Skills {
		if a.Skills[i].ID == skillID {
			a.Skills[i].Name = name
			a.Skills[i].Level = level
			return true
		}
	}
	return false
}

func (a *Aggregate) RemoveCourse(courseID int64) bool {
	for i := range a.Courses {
		if a.Courses[i].ID == courseID {
			a.Courses = append(a.Courses[:i], a.Courses[i+1:]...)
			return true
		}
	}
	return false
}

func (a *Aggregate) RemoveProject(projectID int64) bool {
	for i := range a.Projects {
		if a.Projects[i].ID == projectID {
			a.Projects = append(a.Projects[:i], a.Projects[i+1:]...)
			return true
		}
	}
	return false
}

func (a *Aggregate) RemoveSkill(skillID int64) bool {
	for i := range a.Skills {
		if a.Skills[i].ID == skillID {
			a.Skills = append(a.Skills[:i], a.Skills[i+1:]...)
			return true
		}
	}
	return false
}

// View is the flattened read projection of an aggregate. Child ids are
// intentionally omitted. It is produced fresh on every read and never
// persisted or cached.
type View struct {
	UserID            uuid.UUID     `json:"user_id"`
	Username          string        `json:"username"`
	Email             string        `json:"email"`
	FirstName         string        `json:"first_name"`
	LastName          string        `json:"last_name"`
	ProfilePictureURL *string       `json:"profile_picture_url"`
	JobDescription    *string       `json:"job_description"`
	Address           *string       `json:"address"`
	Courses           []CourseView  `json:"courses"`
	Projects          []ProjectView `json:"projects"`
	Skills            []SkillView   `json:"skills"`
}

type CourseView struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ProjectView struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type SkillView struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

func (a *Aggregate) View() *View {
	v := &View{
		UserID:            a.UserID,
		Username:          a.Username,
		Email:             a.Email,
		FirstName:         a.FirstName,
		LastName:          a.LastName,
		ProfilePictureURL: a.ProfilePictureURL,
		JobDescription:    a.JobDescription,
		Address:           a.Address,
		Courses:           make([]CourseView, len(a.Courses)),
		Projects:          make([]ProjectView, len(a.Projects)),
		Skills:            make([]SkillView, len(a.Skills)),
	}
	for i, c := range a.Courses {
		v.Courses[i] = CourseView{Title: c.Title, Description: c.Description}
	}
	for i, p := range a.Projects {
		v.Projects[i] = ProjectView{Title: p.Title, Description: p.Description}
	}
	for i, s := range a.Skills {
		v.Skills[i] = SkillView{Name: s.Name, Level: s.Level}
	}
	return v
}

type Repository interface {
	// GetByUserID loads the user row together with all three child
	// collections eagerly.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Aggregate, error)
	// Save writes the parent row and synchronizes the child tables with the
	// in-memory collections in one transaction: new children are inserted
	// (and receive their store-assigned ids), existing ones are updated,
	// rows missing from the aggregate are pruned.
	Save(ctx context.Context, agg *Aggregate) error
}
