package cart

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/eco-shop-backend/internal/apperr"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
	"github.com/wichananm65/eco-shop-backend/internal/user"
)

// Handler delegates cart operations to the cart service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart", h.addToCart)
	app.Patch("/api/v1/cart", h.updateQuantity)
	app.Delete("/api/v1/cart", h.clearCart)
	app.Delete("/api/v1/cart/:productId<[0-9]+>", h.removeFromCart)
	app.Post("/api/v1/cart/swap", h.swap)
}

type cartRequest struct {
	ProductID int  `json:"product_id"`
	Quantity  *int `json:"quantity,omitempty"`
}

type swapRequest struct {
	OldProductID int `json:"old_product_id"`
	NewProductID int `json:"new_product_id"`
}

// View is the cart as returned to clients.
type View struct {
	Cart
	ItemCount int    `json:"item_count"`
	Verdict   string `json:"verdict"`
}

func NewView(c Cart) View {
	return View{Cart: c, ItemCount: c.Quantity(), Verdict: eco.CartVerdict(c.CartEcoScore, c.IsEmpty())}
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	cart, err := h.service.Get(c.UserContext(), userID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(NewView(cart))
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(cartRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product_id"})
	}
	qty := 1
	if payload.Quantity != nil {
		qty = *payload.Quantity
	}

	cart, err := h.service.Add(c.UserContext(), userID, payload.ProductID, qty)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(NewView(cart))
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(cartRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID <= 0 || payload.Quantity == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "product_id and quantity are required"})
	}

	cart, err := h.service.UpdateQuantity(c.UserContext(), userID, payload.ProductID, *payload.Quantity)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(NewView(cart))
}

func (h *Handler) removeFromCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	cart, err := h.service.Remove(c.UserContext(), userID, productID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(NewView(cart))
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	cart, err := h.service.Clear(c.UserContext(), userID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(NewView(cart))
}

func (h *Handler) swap(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(swapRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	cart, err := h.service.Swap(c.UserContext(), userID, payload.OldProductID, payload.NewProductID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product swapped successfully",
		"cart":    NewView(cart),
	})
}
