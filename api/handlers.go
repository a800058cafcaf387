package api

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/vertexprobe/pkg/llm"
	"github.com/papercomputeco/vertexprobe/pkg/mood"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// ChatResponse is the body returned by POST /api/chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// MoodRequest is the body of POST /api/mood.
type MoodRequest struct {
	UserID string   `json:"userId"`
	Mood   string   `json:"mood"`
	Score  *float64 `json:"score"`
	Note   string   `json:"note"`
}

// MoodResponse is the body returned by POST /api/mood.
type MoodResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(map[string]string{"status": "ok"})
}

func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON(map[string]any{"ok": true, "message": "pong"})
}

// handleChat sends a single prompt to the model and returns its reply.
// No conversation state is kept between requests.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := decodeBody(c, &req); err != nil {
		s.logger.Warn("failed to parse chat request", zap.Error(err))
		s.metrics.chats.WithLabelValues(outcomeBadRequest).Inc()
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		s.metrics.chats.WithLabelValues(outcomeBadRequest).Inc()
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "prompt required"})
	}

	chat := s.config.Chat
	result := llm.Generate(c.UserContext(), s.capability, llm.GenerationRequest{
		Project: s.config.Project,
		Region:  s.config.Region,
		Model:   s.config.Model,
		Prompt:  prompt,
		Options: &chat,
	})
	if !result.OK() {
		s.logger.Error("chat failed",
			zap.String("reason", string(result.Failure.Reason)),
			zap.Int("code", result.Failure.Code),
			zap.Error(result.Failure),
		)
		s.metrics.chats.WithLabelValues(string(result.Failure.Reason)).Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{
			Error:  "chat failed",
			Detail: result.Failure.Diagnostic(),
		})
	}

	s.metrics.chats.WithLabelValues(outcomeOK).Inc()
	return c.JSON(ChatResponse{Reply: result.Text})
}

// handleMood records one mood entry.
func (s *Server) handleMood(c *fiber.Ctx) error {
	var req MoodRequest
	if err := decodeBody(c, &req); err != nil {
		s.logger.Warn("failed to parse mood request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	if req.Mood == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "mood required"})
	}

	var score float64
	if req.Score != nil {
		score = *req.Score
	}

	entry := mood.NewEntry(s.config.MoodCollection, req.UserID, req.Mood, score, req.Note, s.now())
	if err := s.moods.Put(c.UserContext(), entry); err != nil {
		s.logger.Error("failed to save mood entry", zap.Error(err))
		s.metrics.moods.WithLabelValues(outcomeError).Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{
			Error:  "mood save failed",
			Detail: err.Error(),
		})
	}

	s.metrics.moods.WithLabelValues(outcomeOK).Inc()
	s.logger.Debug("mood entry saved",
		zap.String("id", entry.ID),
		zap.String("collection", entry.Collection),
	)

	return c.JSON(MoodResponse{OK: true, ID: entry.ID})
}

// decodeBody unmarshals a JSON body. An empty body decodes to the zero value.
func decodeBody(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}
