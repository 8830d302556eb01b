package http

import (
	profileUC "profile-hub/internal/application/usecase/profile"
	"profile-hub/internal/domain/profile"
)

type JobDescriptionRequest struct {
	JobDescription string `json:"jobDescription" binding:"required"`
}

type AddressRequest struct {
	Address string `json:"address" binding:"required"`
}

type CourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type ProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type SkillRequest struct {
	Name  string `json:"name" binding:"required"`
	Level string `json:"level"`
}

// Profile DTOs. Child entries deliberately carry no id: the read projection
// is flat, ids only appear in the update/delete routes.

type CourseDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ProjectDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type SkillDTO struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

type ProfileDTO struct {
	UserID            string       `json:"user_id"`
	Username          string       `json:"username"`
	Email             string       `json:"email"`
	FirstName         string       `json:"first_name"`
	LastName          string       `json:"last_name"`
	ProfilePictureURL *string      `json:"profile_picture_url"`
	JobDescription    *string      `json:"job_description"`
	Address           *string      `json:"address"`
	Courses           []CourseDTO  `json:"courses"`
	Projects          []ProjectDTO `json:"projects"`
	Skills            []SkillDTO   `json:"skills"`
}

func ToProfileDTO(v *profile.View) ProfileDTO {
	dto := ProfileDTO{
		UserID:            v.UserID.String(),
		Username:          v.Username,
		Email:             v.Email,
		FirstName:         v.FirstName,
		LastName:          v.LastName,
		ProfilePictureURL: v.ProfilePictureURL,
		JobDescription:    v.JobDescription,
		Address:           v.Address,
		Courses:           make([]CourseDTO, len(v.Courses)),
		Projects:          make([]ProjectDTO, len(v.Projects)),
		Skills:            make([]SkillDTO, len(v.Skills)),
	}
	for i, c := range v.Courses {
		dto.Courses[i] = CourseDTO{Title: c.Title, Description: c.Description}
	}
	for i, p := range v.Projects {
		dto.Projects[i] = ProjectDTO{Title: p.Title, Description: p.Description}
	}
	for i, s := range v.Skills {
		dto.Skills[i] = SkillDTO{Name: s.Name, Level: s.Level}
	}
	return dto
}

func toCourseInputs(reqs []CourseRequest) []profileUC.CourseInput {
	inputs := make([]profileUC.CourseInput, len(reqs))
	for i, r := range reqs {
		inputs[i] = profileUC.CourseInput{Title: r.Title, Description: r.Description}
	}
	return inputs
}

func toProjectInputs(reqs []ProjectRequest) []profileUC.ProjectInput {
	inputs := make([]profileUC.ProjectInput, len(reqs))
	for i, r := range reqs {
		inputs[i] = profileUC.ProjectInput{Title: r.Title, Description: r.Description}
	}
	return inputs
}

func toSkillInputs(reqs []SkillRequest) []profileUC.SkillInput {
	inputs := make([]profileUC.SkillInput, len(reqs))
	for i, r := range reqs {
		inputs[i] = profileUC.SkillInput{Name: r.Name, Level: r.Level}
	}
	return inputs
}
