package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/melih/graphbot/internal/adapters/graphviz"
	"github.com/melih/graphbot/internal/core/bot"
	"github.com/melih/graphbot/internal/core/domain"
	"github.com/melih/graphbot/internal/core/graph"
)

const dotContentType = "text/vnd.graphviz; charset=utf-8"

// GraphService is what the API needs from the bot.
type GraphService interface {
	Hosts() []bot.Host
	BuildHost(ctx context.Context, name string) (*graph.HostGraph, error)
	HostDiagram(ctx context.Context, name string) (*domain.Graph, error)
	MergedDiagram(ctx context.Context) (*domain.Graph, error)
	Legend() (*domain.Graph, error)
	Run(ctx context.Context) ([]string, error)
}

type GraphHandler struct {
	service GraphService
}

func NewGraphHandler(service GraphService) *GraphHandler {
	return &GraphHandler{service: service}
}

type HostResponse struct {
	VM    string `json:"vm"`
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}

func (h *GraphHandler) ListHosts(c *fiber.Ctx) error {
	hosts := h.service.Hosts()
	resp := make([]HostResponse, 0, len(hosts))
	for _, host := range hosts {
		resp = append(resp, HostResponse{VM: host.Name, URL: host.URL, Label: host.Label})
	}
	return c.JSON(resp)
}

func (h *GraphHandler) ListContainers(c *fiber.Ctx) error {
	vm := c.Params("vm")
	if vm == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "vm is required",
		})
	}

	hg, err := h.service.BuildHost(c.Context(), vm)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(hg.Descriptors())
}

func (h *GraphHandler) GetHostGraph(c *fiber.Ctx) error {
	vm := c.Params("vm")
	if vm == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "vm is required",
		})
	}

	g, err := h.service.HostDiagram(c.Context(), vm)
	if err != nil {
		return sendError(c, err)
	}
	return sendDOT(c, g)
}

func (h *GraphHandler) GetGraph(c *fiber.Ctx) error {
	g, err := h.service.MergedDiagram(c.Context())
	if err != nil {
		return sendError(c, err)
	}
	return sendDOT(c, g)
}

func (h *GraphHandler) GetLegend(c *fiber.Ctx) error {
	g, err := h.service.Legend()
	if err != nil {
		return sendError(c, err)
	}
	return sendDOT(c, g)
}

// Render runs a full render and publish. This blocks until every host has
// been queried and every action ran.
func (h *GraphHandler) Render(c *fiber.Ctx) error {
	files, err := h.service.Run(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
			"files": files,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"files": files,
	})
}

func sendDOT(c *fiber.Ctx, g *domain.Graph) error {
	c.Set(fiber.HeaderContentType, dotContentType)
	return c.Send(graphviz.Marshal(g))
}

func sendError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, domain.ErrHostNotFound) {
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
