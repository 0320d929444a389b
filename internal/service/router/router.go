package router

import (
	"net/http"

	"github.com/gorilla/mux"

	auth "ninernav/internal/auth/controller"
	game "ninernav/internal/game/controller"
)

func SetUpRoutes(authHandler *auth.AuthHandler, gameHandler *game.GameHandler, metricsHandler http.Handler) *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/signup", authHandler.SignupUser).Methods("POST") // Register user
	api.HandleFunc("/login", authHandler.LoginUser).Methods("POST")   // Log into the current session
	api.HandleFunc("/logout", authHandler.LogoutUser).Methods("POST") // Drop session credentials
	api.HandleFunc("/session", authHandler.GetSession).Methods("GET") // Who is logged in

	api.HandleFunc("/game/start", gameHandler.StartGame).Methods("POST")   // Begin or resume a run
	api.HandleFunc("/game/map", gameHandler.NextMap).Methods("GET")        // Next map of the run
	api.HandleFunc("/game/guess", gameHandler.SubmitGuess).Methods("POST") // Score a guess
	api.HandleFunc("/game/advance", gameHandler.Advance).Methods("POST")   // Result seen, move on
	api.HandleFunc("/game/reset", gameHandler.Reset).Methods("POST")       // Archive run and restart
	api.HandleFunc("/game/state", gameHandler.GetState).Methods("GET")     // Current state, optionally gated

	api.HandleFunc("/leaderboard", gameHandler.Leaderboard).Methods("GET")
	api.HandleFunc("/scores", gameHandler.UserScores).Methods("GET")
	api.HandleFunc("/scores/{map}", gameHandler.UserScores).Methods("GET")

	router.Handle("/metrics", metricsHandler).Methods("GET")
	return router
}
