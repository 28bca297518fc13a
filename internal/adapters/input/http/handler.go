package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const healthTimeout = 3 * time.Second

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HTTPHandler struct - Primary/Driving adapter for HTTP
type HTTPHandler struct {
	storage HealthChecker
	driver  string
}

// New func - Creates new HTTP handler. driver names the storage backend in the health body.
func New(storage HealthChecker, driver string) *HTTPHandler {
	return &HTTPHandler{
		storage: storage,
		driver:  driver,
	}
}

// HealthCheck func
func (hdl *HTTPHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	if err := hdl.storage.Ping(ctx); err != nil {
		logrus.Errorf("Health check failed for %s: %v", hdl.driver, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(ResponseBody{
			Status: ServiceUnavailable,
			Data:   HealthResponse{Storage: hdl.driver, Healthy: false},
		})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{
		Status: Success,
		Data:   HealthResponse{Storage: hdl.driver, Healthy: true},
	})
}
