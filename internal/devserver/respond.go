package devserver

import "github.com/gofiber/fiber/v3"

// apiError is what handlers return instead of writing error bodies inline.
// The error middleware turns it into the backend's {"error": ...} shape.
type apiError struct {
	Status  int
	Message string
	Cause   error
}

func (e *apiError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *apiError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func fail(status int, message string, cause error) *apiError {
	return &apiError{Status: status, Message: message, Cause: cause}
}

func writeError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
