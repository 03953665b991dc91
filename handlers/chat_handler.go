package handlers

import (
	"errors"
	"fmt"
	"log"

	config "github.com/anjiri1684/medicall/configs"
	"github.com/anjiri1684/medicall/database"
	"github.com/anjiri1684/medicall/models"
	"github.com/anjiri1684/medicall/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func loadBookingForParticipant(bookingID, userID uuid.UUID) (models.Booking, int, error) {
	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking, fiber.StatusNotFound, errors.New("Booking not found")
		}
		return booking, fiber.StatusInternalServerError, errors.New("Failed to fetch booking")
	}

	if userID != booking.PatientID && userID != booking.ProviderID {
		return booking, fiber.StatusForbidden, errors.New("You are not a participant of this booking")
	}

	return booking, fiber.StatusOK, nil
}

type PostMessageRequest struct {
	Body string `json:"body" validate:"required"`
}

// PostMessage appends one message to the booking's chat log, then pushes
// it to the live room. The stored row is the only durable copy.
func PostMessage(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid booking id"})
	}

	var req PostMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Message body must not be empty"})
	}

	senderID := callerID(c)
	booking, status, err := loadBookingForParticipant(bookingID, senderID)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	message := models.ChatMessage{
		BookingID: booking.ID,
		SenderID:  senderID,
		Body:      req.Body,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to save message"})
	}

	websocket.Broadcast <- &message

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Message sent",
		"chat":    message,
	})
}

// GetMessages lists a booking's chat log, oldest first.
func GetMessages(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid booking id"})
	}

	limit, page, err := paginationParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	booking, status, err := loadBookingForParticipant(bookingID, callerID(c))
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	query := database.DB.Where("booking_id = ?", booking.ID).Order("created_at asc")
	if limit > 0 {
		query = query.Limit(limit).Offset((page - 1) * limit)
	}

	var messages []models.ChatMessage
	if err := query.Find(&messages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch messages"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Messages fetched",
		"limit":   limit,
		"page":    page,
		"chats":   messages,
	})
}

type wsAuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type wsChatPayload struct {
	Body string `json:"body"`
}

// ServeWs joins the caller to one booking's chat room. The first frame
// must be {"type":"auth","token":...}; every later frame is persisted and
// broadcast verbatim to the room.
func ServeWs(c *websocketcontrib.Conn) {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid booking id"})
		c.Close()
		return
	}

	var authMsg wsAuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := parseToken(authMsg.Token)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}

	subject, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(subject)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid user ID"})
		c.Close()
		return
	}

	booking, _, err := loadBookingForParticipant(bookingID, userID)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": err.Error()})
		c.Close()
		return
	}

	client := &websocket.Client{UserID: userID, BookingID: booking.ID, Conn: c}
	websocket.Register <- client
	defer func() {
		websocket.Unregister <- client
		c.Close()
	}()

	for {
		var payload wsChatPayload
		if err := c.ReadJSON(&payload); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseAbnormalClosure) {
				log.Printf("WebSocket closed for client %s: %v", userID, err)
			} else {
				log.Printf("WebSocket read error for client %s: %v", userID, err)
			}
			break
		}

		if payload.Body == "" {
			_ = client.WriteJSON(fiber.Map{"error": "Message body must not be empty"})
			continue
		}

		message := models.ChatMessage{
			BookingID: booking.ID,
			SenderID:  userID,
			Body:      payload.Body,
		}
		if err := database.DB.Create(&message).Error; err != nil {
			log.Printf("Failed to save chat message for client %s: %v", userID, err)
			_ = client.WriteJSON(fiber.Map{"error": "Failed to save message"})
			continue
		}

		websocket.Broadcast <- &message
	}
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
