package healthcheck

import (
	"github.com/gofiber/fiber/v3"
)

// RegisterRoutes mounts the liveness probe and one probe per backing service
// under /health.
func RegisterRoutes(r fiber.Router) {
	grp := r.Group("/health")

	grp.Get("/api", APIHealthCheck)
	grp.Get("/database", DatabaseHealthCheck)
	grp.Get("/milvus", MilvusHealthCheck)
}
