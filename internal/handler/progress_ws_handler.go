package handler

import (
	"os"

	"caseflow-be/internal/pkg/logger"
	internalWS "caseflow-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ProgressWsHandler upgrades advisor connections for real-time progress push.
type ProgressWsHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewProgressWsHandler(hub *internalWS.Hub, log logger.ILogger) *ProgressWsHandler {
	return &ProgressWsHandler{hub: hub, logger: log}
}

// ServeWs handles websocket requests from the peer.
func (h *ProgressWsHandler) ServeWs(c *fiber.Ctx) error {
	// Token source priority: query param (browser standard), then the
	// Authorization header (tooling).
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		h.logger.Warn("ProgressWsHandler", "Invalid Token in WS Handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	advisorIDStr, ok := claims["advisor_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing advisor_id"})
	}

	advisorID, err := uuid.Parse(advisorIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid advisor ID format in token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(c *websocket.Conn) {
			h.logger.Info("ProgressWsHandler", "Starting WebSocket session", map[string]interface{}{"advisor_id": advisorID})
			internalWS.ServeWs(h.hub, c, advisorID)
			h.logger.Info("ProgressWsHandler", "WebSocket session ended", map[string]interface{}{"advisor_id": advisorID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the websocket route.
func (h *ProgressWsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
