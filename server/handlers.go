package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"minimax-chess/board"
)

// GameController exposes the game manager over REST and websocket.
type GameController struct {
	games *GameManager
	log   zerolog.Logger
}

func NewGameController(games *GameManager, logger zerolog.Logger) *GameController {
	return &GameController{games: games, log: logger}
}

// NewApp builds the fiber application with every route registered. Extra
// middleware runs ahead of the routes.
func NewApp(gc *GameController, middleware ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "minimax-chess",
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(gc.requestLogger())
	for _, h := range middleware {
		app.Use(h)
	}

	api := app.Group("/api")
	api.Post("/games", gc.CreateGame)
	api.Get("/games/:id", gc.GetGameState)
	api.Post("/games/:id/moves", gc.MakeMove)
	api.Get("/games/:id/pgn", gc.GetPGN)

	app.Use("/ws", requireUpgrade)
	app.Get("/ws/games/:id", websocket.New(gc.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}))
	return app
}

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, board.ErrIllegalMove),
		errors.Is(err, board.ErrInvalidFEN),
		errors.Is(err, ErrInvalidSide):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrGameOver), errors.Is(err, ErrNotYourTurn):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func toFiberError(err error) error {
	return fiber.NewError(statusOf(err), err.Error())
}

func (gc *GameController) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		gc.log.Debug().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("took", time.Since(start)).
			Msg("request")
		return err
	}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var opts CreateOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		}
	}
	st, err := gc.games.CreateGame(opts)
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(st)
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	st, err := gc.games.GetGameState(c.Params("id"))
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(st)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req MovePayload
	if err := c.BodyParser(&req); err != nil || req.Move == "" {
		return fiber.NewError(fiber.StatusBadRequest, "body must be {\"move\": \"<uci>\"}")
	}
	st, err := gc.games.MakeMove(c.Params("id"), req.Move)
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(st)
}

func (gc *GameController) GetPGN(c *fiber.Ctx) error {
	pgn, err := gc.games.PGN(c.Params("id"))
	if err != nil {
		return toFiberError(err)
	}
	c.Set(fiber.HeaderContentType, "application/x-chess-pgn")
	return c.SendString(pgn)
}

func requireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// HandleConnection streams game state to a websocket client and accepts
// "move" messages from it.
func (gc *GameController) HandleConnection(c *websocket.Conn) {
	id := c.Params("id")
	cl := newClient(c)
	g, err := gc.games.GetGame(id)
	if err != nil {
		gc.sendError(cl, err)
		c.Close()
		return
	}
	if err := g.subscribe(cl); err != nil {
		gc.log.Debug().Str("game", id).Err(err).Msg("websocket subscribe failed")
		return
	}
	defer g.unsubscribe(cl)

	for {
		messageType, raw, err := c.ReadMessage()
		if err != nil {
			gc.log.Debug().Str("game", id).Err(err).Msg("websocket closed")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			gc.sendError(cl, fmt.Errorf("parse error: %w", err))
			continue
		}
		// Successful moves reach this client through the game broadcast.
		if err := gc.handleMessage(id, msg); err != nil {
			gc.sendError(cl, err)
		}
	}
}

func (gc *GameController) handleMessage(id string, msg Message) error {
	switch msg.Type {
	case MessageTypeMove:
		var mv MovePayload
		if err := json.Unmarshal(msg.Payload, &mv); err != nil {
			return err
		}
		_, err := gc.games.MakeMove(id, mv.Move)
		return err
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (gc *GameController) sendError(cl *client, err error) {
	msg, merr := newMessage(MessageTypeError, errorPayload{Error: err.Error()})
	if merr != nil {
		return
	}
	if werr := cl.send(msg); werr != nil {
		gc.log.Debug().Err(werr).Msg("websocket write failed")
	}
}
