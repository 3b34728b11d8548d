package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"chessrelay/internal/server/core"
	"chessrelay/internal/server/processor"
	"chessrelay/internal/server/service"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Get("/games", h.ListGames)
	api.Post("/games", h.CreateGame)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", h.DeleteGame)
	api.Post("/games/:gameId/moves", h.MakeMove)
	api.Post("/games/:gameId/validate", h.ValidateMove)
	api.Post("/games/:gameId/reset", h.ResetGame)
	api.Get("/games/:gameId/board", h.GetBoard)
	api.Get("/games/:gameId/squares/:file/:rank", h.GetSquare)
	api.Get("/games/:gameId/targets/:file/:rank", h.GetTargets)

	return app
}

// contentTypeValidator ensures POST requests carry application/json
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		contentType := c.Get("Content-Type")
		if contentType != "" && !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps processor error codes to HTTP status
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrNotYourTurn:
		return fiber.StatusConflict
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

func (h *HTTPHandler) respond(c *fiber.Ctx, resp processor.ProcessorResponse) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	return c.JSON(resp.Data)
}

// gameID returns the route's game ID, or false after writing a 400
func gameID(c *fiber.Ctx) (string, bool) {
	id := c.Params("gameId")
	if !isValidUUID(id) {
		c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid game ID format",
			Code:    core.ErrInvalidRequest,
			Details: "game ID must be a valid UUID",
		})
		return "", false
	}
	return id, true
}

// square parses the :file/:rank route parameters, or false after writing a 400
func square(c *fiber.Ctx) (int, int, bool) {
	file, errFile := c.ParamsInt("file")
	rank, errRank := c.ParamsInt("rank")
	if errFile != nil || errRank != nil {
		c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid square",
			Code:    core.ErrInvalidRequest,
			Details: "file and rank must be integers",
		})
		return 0, 0, false
	}
	return file, rank, true
}

// validatedMove fetches the body stored by validationMiddleware
func validatedMove(c *fiber.Ctx) (core.MoveRequest, bool) {
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
		return core.MoveRequest{}, false
	}
	req, ok := c.Locals("validatedBody").(*core.MoveRequest)
	if !ok || req == nil {
		c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
		return core.MoveRequest{}, false
	}
	return *req, true
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(core.HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Unix(),
		Storage: h.svc.GetStorageHealth(),
	})
}

// ListGames returns a summary of every live game, oldest first
func (h *HTTPHandler) ListGames(c *fiber.Ctx) error {
	return h.respond(c, h.proc.Execute(processor.NewListGamesCommand()))
}

// CreateGame starts a game from the standard position or a supplied FEN
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
	}
	req, ok := c.Locals("validatedBody").(*core.CreateGameRequest)
	if !ok || req == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}

	resp := h.proc.Execute(processor.NewCreateGameCommand(*req))
	if !resp.Success {
		return c.Status(fiber.StatusBadRequest).JSON(resp.Error)
	}

	return c.Status(fiber.StatusCreated).JSON(resp.Data)
}

// GetGame returns the game state. With ?wait=true&version=N the request is
// held until the game's version differs from N or the wait times out.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}

	if c.Query("wait", "false") != "true" {
		return h.respond(c, h.proc.Execute(processor.NewGetGameCommand(id)))
	}

	version, err := strconv.Atoi(c.Query("version", "-1"))
	if err != nil {
		version = -1
	}

	ctx := c.Context()
	notify, err := h.svc.RegisterWait(ctx, id, version)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	}

	select {
	case <-notify:
		// Changed, timed out or deleted; report whatever is current
		return h.respond(c, h.proc.Execute(processor.NewGetGameCommand(id)))
	case <-ctx.Done():
		return nil
	}
}

// DeleteGame removes a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}

	resp := h.proc.Execute(processor.NewDeleteGameCommand(id))
	if !resp.Success {
		return c.Status(fiber.StatusNotFound).JSON(resp.Error)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// MakeMove applies a move for the side to move
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	req, ok := validatedMove(c)
	if !ok {
		return nil
	}

	return h.respond(c, h.proc.Execute(processor.NewMakeMoveCommand(id, req)))
}

// ValidateMove reports whether a move is legal without applying it
func (h *HTTPHandler) ValidateMove(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	req, ok := validatedMove(c)
	if !ok {
		return nil
	}

	return h.respond(c, h.proc.Execute(processor.NewValidateMoveCommand(id, req)))
}

// ResetGame returns the game to the starting position
func (h *HTTPHandler) ResetGame(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}

	return h.respond(c, h.proc.Execute(processor.NewResetGameCommand(id)))
}

// GetBoard returns the ASCII board and FEN
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}

	return h.respond(c, h.proc.Execute(processor.NewGetBoardCommand(id)))
}

// GetSquare returns the piece on one square, if any
func (h *HTTPHandler) GetSquare(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	file, rank, ok := square(c)
	if !ok {
		return nil
	}

	return h.respond(c, h.proc.Execute(processor.NewGetSquareCommand(id, file, rank)))
}

// GetTargets lists the legal destinations of the piece on a square
func (h *HTTPHandler) GetTargets(c *fiber.Ctx) error {
	id, ok := gameID(c)
	if !ok {
		return nil
	}
	file, rank, ok := square(c)
	if !ok {
		return nil
	}

	return h.respond(c, h.proc.Execute(processor.NewLegalMovesCommand(id, file, rank)))
}
