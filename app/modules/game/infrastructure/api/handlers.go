package gameapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	gameservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/application"
	gamedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain"
	gameevents "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/domain/events"
	gamedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-scorecard/app/shared/observability/attr"
	"github.com/Black-And-White-Club/golf-scorecard/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"
)

// maxUploadBytes caps an uploaded scorecard.
const maxUploadBytes = 4 << 20

// GameAPI serves the game HTTP routes.
type GameAPI struct {
	service  gameservice.Service
	tokens   jwt.Service
	hub      *Hub
	logger   *slog.Logger
	tracer   trace.Tracer
	upgrader websocket.Upgrader
}

func NewGameAPI(service gameservice.Service, tokens jwt.Service, hub *Hub, logger *slog.Logger, tracer trace.Tracer, allowedOrigins []string) *GameAPI {
	return &GameAPI{
		service: service,
		tokens:  tokens,
		hub:     hub,
		logger:  logger,
		tracer:  tracer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type createGameResponse struct {
	*gameservice.GameView
	ScorerLink string `json:"scorer_link,omitempty"`
}

type recordScoreRequest struct {
	Strokes int `json:"strokes"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, gamedb.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, gameservice.ErrInvalidRequest),
		errors.Is(err, gameservice.ErrInvalidTeeTime),
		errors.Is(err, gamedomain.ErrUnknownFormat):
		return http.StatusBadRequest
	case gameservice.IsRejection(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (a *GameAPI) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		a.logger.ErrorContext(ctx, "Request failed", attr.String("operation", op), attr.Error(err))
		writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func gameIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: game id", gameservice.ErrInvalidRequest)
	}
	return id, nil
}

func scoreParams(r *http.Request) (uuid.UUID, gamedomain.PlayerID, int, error) {
	gameID, err := gameIDParam(r)
	if err != nil {
		return uuid.Nil, "", 0, err
	}
	hole, err := strconv.Atoi(chi.URLParam(r, "hole"))
	if err != nil {
		return uuid.Nil, "", 0, fmt.Errorf("%w: hole must be a number", gameservice.ErrInvalidRequest)
	}
	return gameID, gamedomain.PlayerID(chi.URLParam(r, "playerID")), hole, nil
}

func (a *GameAPI) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "GameAPI.CreateGame")
	defer span.End()

	var req gameservice.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(ctx, w, "create_game", fmt.Errorf("%w: %v", gameservice.ErrInvalidRequest, err))
		return
	}
	subject := ""
	if claims, ok := ClaimsFromContext(ctx); ok {
		subject = claims.Subject
	}
	req.CreatedBy = subject

	game, err := a.service.CreateGame(ctx, req)
	if err != nil {
		a.fail(ctx, w, "create_game", err)
		return
	}

	resp := createGameResponse{GameView: game}
	if link, err := a.tokens.GenerateScorerLink(subject, game.ID.String()); err != nil {
		a.logger.WarnContext(ctx, "Failed to generate scorer link", attr.GameID(game.ID.String()), attr.Error(err))
	} else {
		resp.ScorerLink = link
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (a *GameAPI) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "GameAPI.GetGame")
	defer span.End()

	gameID, err := gameIDParam(r)
	if err != nil {
		a.fail(ctx, w, "get_game", err)
		return
	}
	game, err := a.service.GetGame(ctx, gameID)
	if err != nil {
		a.fail(ctx, w, "get_game", err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (a *GameAPI) JoinGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "GameAPI.JoinGame")
	defer span.End()

	game, err := a.service.GetGameByJoinCode(ctx, chi.URLParam(r, "code"))
	if err != nil {
		a.fail(ctx, w, "join_game", err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (a *GameAPI) RecordScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "GameAPI.RecordScore")
	defer span.End()

	gameID, playerID, hole, err := scoreParams(r)
	if err != nil {
		a.fail(ctx, w, "record_score", err)
		return
	}
	var req recordScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(ctx, w, "record_score", fmt.Errorf("%w: %v", gameservice.ErrInvalidRequest, err))
		return
	}

	standings, err := a.service.RecordScore(ctx, gameID, playerID, hole, req.Strokes)
	if err != nil {
		a.fail(ctx, w, "record_score", err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

func (a *GameAPI) ClearScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "GameAPI.ClearScore")
	defer span.End()

	gameID, playerID, hole, err := scoreParams(r)
	if err != nil {
		a.fail(ctx, w, "clear_score", err)
		return
	}
	standings, err := a.service.ClearScore(ctx, gameID, playerID, hole)
	if err != nil {
		a.fail(ctx, w, "clear_score", err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

func (a *GameAPI) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "GameAPI.GetStandings")
	defer span.End()

	gameID, err := gameIDParam(r)
	if err != nil {
		a.fail(ctx, w, "get_standings", err)
		return
	}
	standings, err := a.service.GetStandings(ctx, gameID)
	if err != nil {
		a.fail(ctx, w, "get_standings", err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

func (a *GameAPI) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "GameAPI.Summary")
	defer span.End()

	gameID, err := gameIDParam(r)
	if err != nil {
		a.fail(ctx, w, "summary", err)
		return
	}
	text, err := a.service.Summary(ctx, gameID)
	if err != nil {
		a.fail(ctx, w, "summary", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, text)
}

// ImportScorecard accepts a multipart upload in field "file", or a raw body
// with the filename in the query string.
func (a *GameAPI) ImportScorecard(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "GameAPI.ImportScorecard")
	defer span.End()

	gameID, err := gameIDParam(r)
	if err != nil {
		a.fail(ctx, w, "import_scorecard", err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	filename, data, err := readUpload(r)
	if err != nil {
		a.fail(ctx, w, "import_scorecard", fmt.Errorf("%w: %v", gameservice.ErrInvalidScorecard, err))
		return
	}

	res, err := a.service.ImportScorecard(ctx, gameID, filename, data)
	if err != nil {
		a.fail(ctx, w, "import_scorecard", err)
		return
	}
	status := http.StatusOK
	if res.Queued {
		status = http.StatusAccepted
	}
	writeJSON(w, status, res)
}

func readUpload(r *http.Request) (string, []byte, error) {
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		return header.Filename, data, err
	}
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		return "", nil, errors.New("missing file")
	}
	data, err := io.ReadAll(r.Body)
	return filename, data, err
}

func (a *GameAPI) binary(w http.ResponseWriter, r *http.Request, op, contentType string, render func(context.Context, uuid.UUID) ([]byte, error)) {
	ctx, span := a.tracer.Start(r.Context(), "GameAPI."+op)
	defer span.End()

	gameID, err := gameIDParam(r)
	if err != nil {
		a.fail(ctx, w, op, err)
		return
	}
	data, err := render(ctx, gameID)
	if err != nil {
		a.fail(ctx, w, op, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (a *GameAPI) ExportScorecard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", `attachment; filename="scorecard.xlsx"`)
	a.binary(w, r, "ExportScorecard", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", a.service.ExportScorecard)
}

func (a *GameAPI) ProgressChart(w http.ResponseWriter, r *http.Request) {
	a.binary(w, r, "RenderProgressChart", "image/png", a.service.RenderProgressChart)
}

func (a *GameAPI) ShareQRCode(w http.ResponseWriter, r *http.Request) {
	a.binary(w, r, "ShareQRCode", "image/png", a.service.ShareQRCode)
}

// Live upgrades to a websocket, sends the current standings and then every
// update for the game.
func (a *GameAPI) Live(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	gameID, err := gameIDParam(r)
	if err != nil {
		a.fail(ctx, w, "live", err)
		return
	}
	game, err := a.service.GetGame(ctx, gameID)
	if err != nil {
		a.fail(ctx, w, "live", err)
		return
	}

	var initial []byte
	if current, err := a.service.GetStandings(ctx, gameID); err != nil {
		a.logger.WarnContext(ctx, "Failed to load standings for live client", attr.GameID(gameID.String()), attr.Error(err))
	} else {
		initial, _ = json.Marshal(gameevents.StandingsUpdatedPayloadV1{
			GameID:    gameID.String(),
			Format:    game.Format,
			Version:   current.Version,
			Standings: current.Standings,
		})
	}

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied
		a.logger.DebugContext(ctx, "Websocket upgrade failed", attr.Error(err))
		return
	}
	a.hub.Attach(gameID.String(), conn, initial)
}
