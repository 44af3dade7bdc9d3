package product

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/eco-shop-backend/internal/apperr"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
	"github.com/wichananm65/eco-shop-backend/internal/narrator"
	"github.com/wichananm65/eco-shop-backend/internal/platform/logger"
	"github.com/wichananm65/eco-shop-backend/internal/user"
)

type Handler struct {
	service    *Service
	rewriter   narrator.Rewriter
	allowReset bool
	log        *logger.Logger
}

// NewHandler wires the catalog routes. rewriter may be nil, in which case
// explanations are always the rule-based text.
func NewHandler(service *Service, rewriter narrator.Rewriter, allowReset bool, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{service: service, rewriter: rewriter, allowReset: allowReset, log: log}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.getProducts)
	app.Get("/api/v1/product/:id<[0-9]+>", h.getProduct)
	app.Get("/api/v1/product/:id<[0-9]+>/explanation", h.getExplanation)
	app.Post("/api/v1/eco/classify", h.classify)
	app.Post("/api/v1/eco/score", h.score)

	// dev-only endpoint to reset products, enabled when ALLOW_RESET_PRODUCTS=1
	app.Post("/dev/reset-products", h.resetProducts)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/products", user.RequireAdmin, h.createProduct)
	app.Put("/api/v1/product/:id<[0-9]+>", user.RequireAdmin, h.updateProduct)
	app.Delete("/api/v1/product/:id<[0-9]+>", user.RequireAdmin, h.deleteProduct)
}

func parseListQuery(c *fiber.Ctx) (ListQuery, map[string]string) {
	q := ListQuery{
		Category: strings.TrimSpace(c.Query("category")),
		Sort:     c.Query("sort"),
	}
	errs := map[string]string{}
	if v := c.Query("label"); v != "" {
		label, ok := eco.ParseLabel(v)
		if !ok {
			errs["label"] = "label must be one of high, medium, low"
		}
		q.Label = label
	}
	if v := c.Query("minScore"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs["minScore"] = "minScore must be an integer"
		}
		q.MinScore = &n
	}
	if v := c.Query("maxPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs["maxPrice"] = "maxPrice must be a number"
		}
		q.MaxPrice = &f
	}
	q.Page = 1
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxPage {
			errs["page"] = "page must be an integer between 1 and " + strconv.Itoa(MaxPage)
		}
		q.Page = n
	}
	q.Limit = DefaultPageSize
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs["limit"] = "limit must be an integer"
		}
		q.Limit = n
	}
	return q, errs
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	q, errs := parseListQuery(c)
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}
	res, err := h.service.List(c.UserContext(), q)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	p, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(p)
}

type explanationResponse struct {
	ProductID     int                   `json:"product_id"`
	EcoScore      int                   `json:"eco_score"`
	EcoBreakdown  eco.Breakdown         `json:"eco_breakdown"`
	AILabel       eco.Label             `json:"ai_label"`
	AIConfidence  float64               `json:"ai_confidence"`
	Probabilities map[eco.Label]float64 `json:"probabilities,omitempty"`
	AIKeywords    eco.Evidence          `json:"ai_keywords"`
	Explanation   string                `json:"explanation"`
	Narrative     string                `json:"narrative,omitempty"`
	Source        string                `json:"source"`
	Fallback      bool                  `json:"fallback"`
}

// getExplanation always answers with the rule-based explanation; the
// narrator's rewrite is attached only when it succeeds.
func (h *Handler) getExplanation(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	p, a, err := h.service.Explain(c.UserContext(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	resp := explanationResponse{
		ProductID:     p.ID,
		EcoScore:      a.EcoScore,
		EcoBreakdown:  a.Breakdown,
		AILabel:       a.Label,
		AIConfidence:  a.Confidence,
		Probabilities: a.Probabilities,
		AIKeywords:    a.Evidence,
		Explanation:   a.Explanation,
		Source:        "rules",
	}
	if h.rewriter == nil {
		return c.JSON(resp)
	}

	text, err := h.rewriter.Rewrite(c.UserContext(), narrator.Request{
		ProductName: p.Name,
		Category:    p.Category,
		EcoScore:    a.EcoScore,
		Label:       a.Label,
		Evidence:    a.Evidence,
		Explanation: a.Explanation,
	})
	if err != nil {
		h.log.Warn("narrator failed, using rule explanation", "product_id", p.ID, "error", err)
		resp.Fallback = true
		return c.JSON(resp)
	}
	resp.Narrative = text
	resp.Source = "narrator"
	return c.JSON(resp)
}

type classifyRequest struct {
	Text string `json:"text"`
}

func (h *Handler) classify(c *fiber.Ctx) error {
	assessor := h.service.Assessor()
	if !assessor.ClassifierAvailable() {
		return apperr.Respond(c, apperr.New(apperr.ClassifierUnavailable, "eco.classify", "classifier model is not loaded"))
	}
	payload := new(classifyRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	a := assessor.Classify(payload.Text)
	return c.JSON(fiber.Map{
		"label":         a.Label,
		"confidence":    a.Confidence,
		"probabilities": a.Probabilities,
		"keywords":      a.Evidence,
		"explanation":   a.Explanation,
	})
}

func (h *Handler) score(c *fiber.Ctx) error {
	attrs := new(eco.Attributes)
	if err := c.BodyParser(attrs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	scorer := h.service.Assessor().Scorer()
	return c.JSON(fiber.Map{
		"eco_score":     scorer.Score(*attrs),
		"eco_breakdown": scorer.Breakdown(*attrs),
	})
}

// resetProducts replaces the catalog with the provided list, or with the
// sample catalog when the body is not a product list. An explicit empty
// array clears the catalog.
func (h *Handler) resetProducts(c *fiber.Ctx) error {
	if !h.allowReset {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "reset not allowed"})
	}

	var inputs []Input
	if err := c.BodyParser(&inputs); err != nil {
		inputs = SeedProducts()
	}
	products, err := h.service.ResetProducts(c.UserContext(), inputs)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(products)
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	in := new(Input)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	// return all validation errors together
	if ves := ValidateInput(*in); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	created, err := h.service.Create(c.UserContext(), *in)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	in := new(Input)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if ves := ValidateInput(*in); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	updated, err := h.service.Update(c.UserContext(), id, *in)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
