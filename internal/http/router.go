package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"invoicely-backend/internal/handlers"
	"invoicely-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	clientHandler *handlers.ClientHandler,
	invoiceHandler *handlers.InvoiceHandler,
	paymentHandler *handlers.PaymentHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Webhook is authenticated by its HMAC signature, not a bearer token
	r.HandleFunc("/api/webhooks/payment-gateway", paymentHandler.HandleWebhook).Methods("POST")

	// Protected API routes - User profile
	userAPI := r.PathPrefix("/api/user").Subrouter()
	userAPI.Use(authMiddleware.Authenticate)
	userAPI.HandleFunc("", userHandler.GetUser).Methods("GET")
	userAPI.HandleFunc("", userHandler.UpdateUser).Methods("PATCH")

	// Protected API routes - Clients
	clientsAPI := r.PathPrefix("/api/clients").Subrouter()
	clientsAPI.Use(authMiddleware.Authenticate)
	clientsAPI.HandleFunc("", clientHandler.ListClients).Methods("GET")
	clientsAPI.HandleFunc("", clientHandler.CreateClient).Methods("POST")
	clientsAPI.HandleFunc("/{id}", clientHandler.GetClient).Methods("GET")
	clientsAPI.HandleFunc("/{id}", clientHandler.UpdateClient).Methods("PATCH")
	clientsAPI.HandleFunc("/{id}", clientHandler.DeleteClient).Methods("DELETE")

	// Protected API routes - Invoices
	invoicesAPI := r.PathPrefix("/api/invoices").Subrouter()
	invoicesAPI.Use(authMiddleware.Authenticate)
	invoicesAPI.HandleFunc("", invoiceHandler.ListInvoices).Methods("GET")
	invoicesAPI.HandleFunc("", invoiceHandler.CreateInvoice).Methods("POST")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.GetInvoice).Methods("GET")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.UpdateInvoice).Methods("PATCH")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.DeleteInvoice).Methods("DELETE")
	invoicesAPI.HandleFunc("/{id}/send", invoiceHandler.SendInvoice).Methods("POST")
	invoicesAPI.HandleFunc("/{id}/pdf", invoiceHandler.DownloadPDF).Methods("GET")
	invoicesAPI.HandleFunc("/{id}/payments", paymentHandler.ListPayments).Methods("GET")

	// Protected API routes - Payments
	paymentsAPI := r.PathPrefix("/api").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("/payment-orders", paymentHandler.CreateOrder).Methods("POST")
	paymentsAPI.HandleFunc("/verify-payment", paymentHandler.VerifyPayment).Methods("POST")

	// Protected API routes - Analytics
	analyticsAPI := r.PathPrefix("/api/analytics").Subrouter()
	analyticsAPI.Use(authMiddleware.Authenticate)
	analyticsAPI.HandleFunc("", analyticsHandler.GetAnalytics).Methods("GET")

	return r
}
