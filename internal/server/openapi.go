package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type gamePath struct {
	GameID string `path:"gameID" format:"uuid"`
}

type answerInput struct {
	gamePath
	AnswerRequest
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Guess the Flag API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Play the guess-the-flag quiz: three flags per round, one of them matches the country shown.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health of the game store and live game counts.")
	getHealthz.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/countries
	getCountries, _ := r.NewOperationContext(http.MethodGet, "/api/countries")
	getCountries.SetSummary("List flags")
	getCountries.SetDescription("Returns every country in the round pool with its flag asset and accessibility description.")
	getCountries.AddRespStructure([]FlagInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getCountries)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Start a game")
	createGame.SetDescription("Creates a game and deals the first round.")
	createGame.AddRespStructure(CreateGameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	_ = r.AddOperation(createGame)

	// GET /api/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	getGame.SetSummary("Get game")
	getGame.SetDescription("Returns the current round, score and last verdict. correctIndex is omitted until the round is answered.")
	getGame.AddReqStructure(gamePath{})
	getGame.AddRespStructure(GameView{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// DELETE /api/games/{gameID}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/games/{gameID}")
	deleteGame.SetSummary("Discard game")
	deleteGame.AddReqStructure(gamePath{})
	deleteGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteGame)

	// POST /api/games/{gameID}/answer
	postAnswer, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/answer")
	postAnswer.SetSummary("Tap a flag")
	postAnswer.SetDescription("Submits a flag index (0-2). While a question is asked the tap is evaluated; " +
		"after a verdict it starts the next round; after the game ends it requests the final score screen.")
	postAnswer.AddReqStructure(answerInput{})
	postAnswer.AddRespStructure(GameView{}, openapi.WithHTTPStatus(http.StatusOK))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postAnswer)

	// POST /api/games/{gameID}/new
	postNew, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/new")
	postNew.SetSummary("New game")
	postNew.SetDescription("Resets score and round counter and deals round 1.")
	postNew.AddReqStructure(gamePath{})
	postNew.AddRespStructure(GameView{}, openapi.WithHTTPStatus(http.StatusOK))
	postNew.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postNew)

	// GET /api/games/{gameID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of game transitions. The first event carries the current view.")
	getEvents.AddReqStructure(gamePath{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/games/{gameID}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/ws")
	getWS.SetSummary("WebSocket play channel")
	getWS.SetDescription(`Upgrades to a WebSocket. Send {"action":"answer","index":n}, {"action":"new_game"} or {"action":"state"}; each message is answered with the game view.`)
	getWS.AddReqStructure(gamePath{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
