package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter wires all HTTP routes.
func NewRouter(aiHandler *AIHandler, contextHandler *ContextHandler, historyHandler *HistoryHandler, logger *logrus.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware(logger))

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/ai/check-culture", aiHandler.CheckCulture).Methods(http.MethodPost)
	api.HandleFunc("/ai/analyze-received", aiHandler.AnalyzeReceived).Methods(http.MethodPost)
	api.HandleFunc("/ai/status", aiHandler.Status).Methods(http.MethodGet)

	api.HandleFunc("/chats/{chatId}/context", contextHandler.GetBackground).Methods(http.MethodGet)
	api.HandleFunc("/chats/{chatId}/context", contextHandler.UpsertBackground).Methods(http.MethodPut)
	api.HandleFunc("/chats/{chatId}/context", contextHandler.DeleteBackground).Methods(http.MethodDelete)

	api.HandleFunc("/context/templates", contextHandler.ListTemplates).Methods(http.MethodGet)
	api.HandleFunc("/context/templates", contextHandler.CreateTemplate).Methods(http.MethodPost)
	api.HandleFunc("/context/templates/{templateId}", contextHandler.DeleteTemplate).Methods(http.MethodDelete)

	api.HandleFunc("/history", historyHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/history", historyHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/history/receivers", historyHandler.ListReceivers).Methods(http.MethodGet)
	api.HandleFunc("/history/{historyId}", historyHandler.Delete).Methods(http.MethodDelete)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	return router
}
