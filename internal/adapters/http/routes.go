package http

import "github.com/gofiber/fiber/v2"

// Routes mounts the API under /api/v1.
func Routes(app *fiber.App, graphs *GraphHandler, artifacts *ArtifactHandler) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Routes for host graphs
	hosts := v1.Group("/hosts")
	hosts.Get("/", graphs.ListHosts)
	hosts.Get("/:vm/containers", graphs.ListContainers)
	hosts.Get("/:vm/graph", graphs.GetHostGraph)

	v1.Get("/graph", graphs.GetGraph)
	v1.Get("/legend", graphs.GetLegend)
	v1.Post("/render", graphs.Render)

	// Routes for rendered files
	v1.Get("/artifacts", artifacts.ListArtifacts)
	v1.Get("/artifacts/:name", artifacts.GetArtifact)
}
