package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Route binds one (method, path pattern) pair to a handler.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Routes is the explicit route table for the gateway. Built once at
// startup and treated as immutable afterwards.
func (h *Handlers) Routes() []Route {
	return []Route{
		{http.MethodPost, "/local/{account}/{rse}", h.SetLocalLimit},
		{http.MethodDelete, "/local/{account}/{rse}", h.DeleteLocalLimit},
		{http.MethodGet, "/local/{account}/{rse}", h.GetLocalLimit},
		{http.MethodPost, "/global/{account}/{rse_expression}", h.SetGlobalLimit},
		{http.MethodDelete, "/global/{account}/{rse_expression}", h.DeleteGlobalLimit},
		{http.MethodGet, "/global/{account}/{rse_expression}", h.GetGlobalLimit},
		{http.MethodPost, "/addfiles", h.AddFiles},
		{http.MethodPost, "/addfiles/", h.AddFiles},
	}
}

// NewRouter registers the route table on a fresh mux router.
func (h *Handlers) NewRouter() *mux.Router {
	router := mux.NewRouter()
	for _, route := range h.Routes() {
		router.HandleFunc(route.Path, route.Handler).Methods(route.Method)
	}
	return router
}
