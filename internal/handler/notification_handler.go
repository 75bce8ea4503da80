package handler

import (
	"realty-agent-be/internal/pkg/logger"
	"realty-agent-be/internal/pkg/serverutils"
	"realty-agent-be/internal/service"
	internalWS "realty-agent-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// NotificationHandler exposes the inbox REST surface and the websocket
// endpoint dashboards attach to for live updates.
type NotificationHandler struct {
	service service.INotificationService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewNotificationHandler(service service.INotificationService, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs upgrades the connection and hands it to the hub. The dashboard is a
// single-organization surface behind the deployment's own access control, so
// the socket carries no identity of its own.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("NotificationHandler", "WebSocket session started", nil)
		internalWS.ServeWs(h.hub, conn)
		h.logger.Info("NotificationHandler", "WebSocket session ended", nil)
	})(c)
}

func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	notifications, total, err := h.service.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse("Notifications retrieved", fiber.Map{
		"items": notifications,
		"total": total,
		"limit": limit,
	}))
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	count, err := h.service.UnreadCount(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Unread count retrieved", fiber.Map{"count": count}))
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid notification id")
	}

	if err := h.service.MarkAsRead(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse[any]("Notification marked as read", nil))
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	if err := h.service.MarkAllAsRead(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse[any]("All notifications marked as read", nil))
}

func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notif := router.Group("/notifications")
	notif.Get("/", h.GetNotifications)
	notif.Get("/unread-count", h.GetUnreadCount)
	notif.Patch("/:id/read", h.MarkAsRead)
	notif.Patch("/read-all", h.MarkAllAsRead)

	router.Get("/ws", h.ServeWs)
}
