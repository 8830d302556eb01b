package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	profileUC "profile-hub/internal/application/usecase/profile"
	"profile-hub/pkg/apperror"
	"profile-hub/pkg/logger"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	uploadUseCase  *profileUC.UploadPictureUseCase
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, uploadUC *profileUC.UploadPictureUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		uploadUseCase:  uploadUC,
		logger:         log,
	}
}

// pathUserID parses the userId path parameter and enforces that the token
// owner is operating on their own profile.
func (h *ProfileHandler) pathUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid user ID", err))
		return uuid.Nil, false
	}
	owner, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return uuid.Nil, false
	}
	if owner != userID {
		c.Error(apperror.NewPermissionDenied("token does not match requested user"))
		return uuid.Nil, false
	}
	return userID, true
}

func childID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid "+param, err))
		return 0, false
	}
	return id, true
}

// respondMutation maps a missing user or child to 400 with a plain message;
// only real faults go through the error middleware.
func respondMutation(c *gin.Context, err error, successMessage string) {
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			var appErr *apperror.AppError
			msg := "not found"
			if errors.As(err, &appErr) {
				msg = appErr.Message
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": successMessage})
}

func (h *ProfileHandler) UploadProfilePicture(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open uploaded file", err))
		return
	}
	defer file.Close()

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}

	input := profileUC.UploadPictureInput{
		UserID:   userID,
		File:     file,
		FileName: fileHeader.Filename,
		Size:     fileHeader.Size,
		BaseURL:  scheme + "://" + c.Request.Host,
	}

	output, err := h.uploadUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile picture uploaded successfully", "profile_picture_url": output.PictureURL})
}

func (h *ProfileHandler) AddJobDescription(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}
	var req JobDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	err := h.profileUseCase.SetJobDescription(c.Request.Context(), userID, req.JobDescription)
	respondMutation(c, err, "Job description saved successfully")
}

func (h *ProfileHandler) AddAddress(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	err := h.profileUseCase.SetAddress(c.Request.Context(), userID, req.Address)
	respondMutation(c, err, "Address saved successfully")
}

func (h *ProfileHandler) AddCourses(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}
	var reqs []CourseRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	err := h.profileUseCase.AddCourses(c.Request.Context(), userID, toCourseInputs(reqs))
	respondMutation(c, err, "Courses added successfully")
}

func (h *ProfileHandler) AddProjects(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}
	var reqs []ProjectRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	err := h.profileUseCase.AddProjects(c.Request.Context(), userID, toProjectInputs(reqs))
	respondMutation(c, err, "Projects added successfully")
}

func (h *ProfileHandler) AddSkills(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}
	var reqs []SkillRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	err := h.profileUseCase.AddSkills(c.Request.Context(), userID, toSkillInputs(reqs))
	respondMutation(c, err, "Skills added successfully")
}

func (h *ProfileHandler) UpdateCourse(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}
	courseID, ok := childID(c, "courseId")
	if !ok {
		return
	}
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	err := h.profileUseCase.UpdateCourse(c.Request.Context(), userID, courseID,
		profileUC.CourseInput{Title: req.Title, Description: req.Description})
	respondMutation(c, err, "Course updated successfully")
}

func (h *ProfileHandler) UpdateProject(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}
	projectID, ok := childID(c, "projectId")
	if !ok {
		return
	}
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	err := h.profileUseCase.UpdateProject(c.Request.Context(), userID, projectID,
		profileUC.ProjectInput{Title: req.Title, Description: req.Description})
	respondMutation(c, err, "Project updated successfully")
}

func (h *ProfileHandler) UpdateSkill(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}
	skillID, ok := childID(c, "skillId")
	if !ok {
		return
	}
	var req SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	err := h.profileUseCase.UpdateSkill(c.Request.Context(), userID, skillID,
		profileUC.SkillInput{Name: req.Name, Level: req.Level})
	respondMutation(c, err, "Skill updated successfully")
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}
	view, err := h.profileUseCase.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(view))
}

func (h *ProfileHandler) DeleteCourse(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}
	courseID, ok := childID(c, "courseId")
	if !ok {
		return
	}
	err := h.profileUseCase.DeleteCourse(c.Request.Context(), userID, courseID)
	respondMutation(c, err, "Course deleted successfully")
}

func (h *ProfileHandler) DeleteProject(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}
	projectID, ok := childID(c, "projectId")
	if !ok {
		return
	}
	err := h.profileUseCase.DeleteProject(c.Request.Context(), userID, projectID)
	respondMutation(c, err, "Project deleted successfully")
}

func (h *ProfileHandler) DeleteSkill(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}
	skillID, ok := childID(c, "skillId")
	if !ok {
		return
	}
	err := h.profileUseCase.DeleteSkill(c.Request.Context(), userID, skillID)
	respondMutation(c, err, "Skill deleted successfully")
}
