package handler

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	router.HandlerFunc(http.MethodGet, "/v1/books", h.listBooksHandler)
	router.HandlerFunc(http.MethodPost, "/v1/books", h.requireAdmin(h.createBookHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId", h.showBookHandler)
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId", h.requireAdmin(h.updateBookHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/books/:bookId", h.requireAdmin(h.deleteBookHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId/cover", h.requireAdmin(h.updateBookCoverHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId/stats", h.showBookStatsHandler)

	router.HandlerFunc(http.MethodGet, "/v1/reviews", h.listReviewsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/reviews", h.requireAuthenticatedUser(h.createReviewHandler))
	router.HandlerFunc(http.MethodGet, "/v1/reviews/:reviewId", h.showReviewHandler)
	router.HandlerFunc(http.MethodPatch, "/v1/reviews/:reviewId", h.requireReviewOwner(false, h.updateReviewHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/reviews/:reviewId", h.requireReviewOwner(true, h.deleteReviewHandler))
	router.HandlerFunc(http.MethodPost, "/v1/reviews/:reviewId/helpful", h.requireAuthenticatedUser(h.markReviewHelpfulHandler))
	router.HandlerFunc(http.MethodPost, "/v1/reviews/:reviewId/report", h.requireAuthenticatedUser(h.reportReviewHandler))

	router.HandlerFunc(http.MethodPost, "/v1/users", h.registerUserHandler)
	router.HandlerFunc(http.MethodGet, "/v1/users", h.requireAdmin(h.listUsersHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/:userId", h.showUserHandler)
	router.HandlerFunc(http.MethodPatch, "/v1/users/:userId", h.requireProfileOwner(h.updateUserHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/users/:userId", h.requireAdmin(h.deleteUserHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/:userId/reviews", h.listUserReviewsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/:userId/promote", h.requireAdmin(h.promoteUserHandler))

	router.HandlerFunc(http.MethodGet, "/v1/profile", h.requireAuthenticatedUser(h.showProfileHandler))

	router.HandlerFunc(http.MethodPost, "/v1/tokens/authentication", h.createAuthenticationTokenHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/tokens/authentication", h.requireAuthenticatedUser(h.deleteAuthenticationTokenHandler))

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", h.healthcheckHandler)
	router.HandlerFunc(http.MethodGet, "/debug/vars", h.basicAuth(expvar.Handler().ServeHTTP))

	return h.recoverPanic(h.metrics(h.enableCORS(h.rateLimit(h.authenticate(router)))))
}
