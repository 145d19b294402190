package devserver

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
)

type jobRef struct {
	JobID int64 `json:"job_id"`
}

func (s *Server) handleCreateApplication(c fiber.Ctx) error {
	var ref jobRef
	if err := c.Bind().Body(&ref); err != nil {
		return fail(fiber.StatusBadRequest, "Invalid request body", err)
	}
	if ref.JobID <= 0 {
		return fail(fiber.StatusBadRequest, "job_id is required", nil)
	}

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	app, err := s.store.CreateApplication(ref.JobID, userID)
	if err != nil {
		switch {
		case errors.Is(err, errJobNotFound):
			return fail(fiber.StatusNotFound, "Job not found", err)
		case errors.Is(err, errAlreadyApplied):
			return fail(fiber.StatusConflict, "Already applied to this job", err)
		}
		return fail(fiber.StatusInternalServerError, "creating application", err)
	}

	s.log.Info().Int64("job_id", ref.JobID).Int64("application_id", app.ID).Msg("application received")
	return c.Status(fiber.StatusCreated).JSON(app)
}

func (s *Server) handleListApplications(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	return c.JSON(s.store.ApplicationsByUser(userID))
}

func (s *Server) handleSaveJob(c fiber.Ctx) error {
	var ref jobRef
	if err := c.Bind().Body(&ref); err != nil {
		return fail(fiber.StatusBadRequest, "Invalid request body", err)
	}
	if ref.JobID <= 0 {
		return fail(fiber.StatusBadRequest, "job_id is required", nil)
	}

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	sj, err := s.store.SaveJob(ref.JobID, userID)
	if err != nil {
		switch {
		case errors.Is(err, errJobNotFound):
			return fail(fiber.StatusNotFound, "Job not found", err)
		case errors.Is(err, errAlreadySaved):
			return fail(fiber.StatusConflict, "Job already saved", err)
		}
		return fail(fiber.StatusInternalServerError, "saving job", err)
	}

	s.log.Info().Int64("job_id", ref.JobID).Msg("job saved")
	return c.Status(fiber.StatusCreated).JSON(sj)
}

func (s *Server) handleUnsaveJob(c fiber.Ctx) error {
	jobID, err := strconv.ParseInt(c.Params("job_id"), 10, 64)
	if err != nil || jobID <= 0 {
		return fail(fiber.StatusBadRequest, "Invalid job id", err)
	}

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := s.store.UnsaveJob(jobID, userID); err != nil {
		if errors.Is(err, errNotSaved) {
			return fail(fiber.StatusNotFound, "Saved job not found", err)
		}
		return fail(fiber.StatusInternalServerError, "removing saved job", err)
	}

	s.log.Info().Int64("job_id", jobID).Msg("job unsaved")
	return c.JSON(fiber.Map{"message": "Job unsaved successfully"})
}

func (s *Server) handleListSavedJobs(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	return c.JSON(s.store.SavedByUser(userID))
}
