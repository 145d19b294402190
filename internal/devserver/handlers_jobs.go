package devserver

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"jobdeck/internal/domain/job"
	"jobdeck/internal/search"
)

func (s *Server) handleListJobs(c fiber.Ctx) error {
	q := search.Query{Keyword: c.Query("keyword"), Location: c.Query("location")}
	return c.JSON(search.Filter(s.store.Jobs(), q))
}

func (s *Server) handleCreateJob(c fiber.Ctx) error {
	var d job.Draft
	if err := c.Bind().Body(&d); err != nil {
		return fail(fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := d.Validate(); err != nil {
		return fail(fiber.StatusBadRequest, "Missing required fields", err)
	}

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	created := s.store.AddJob(d, &userID)
	s.log.Info().Int64("job_id", created.ID).Str("title", created.Title).Msg("job created")
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) handleDeleteJob(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return fail(fiber.StatusBadRequest, "Invalid job id", err)
	}

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := s.store.RemoveJob(id, userID); err != nil {
		switch {
		case errors.Is(err, errJobNotFound):
			return fail(fiber.StatusNotFound, "Job not found", err)
		case errors.Is(err, errNotOwner):
			return fail(fiber.StatusForbidden, "Unauthorized to delete this job", err)
		}
		return fail(fiber.StatusInternalServerError, "deleting job", err)
	}

	s.log.Info().Int64("job_id", id).Msg("job deleted")
	return c.JSON(fiber.Map{"message": "Job deleted successfully"})
}
