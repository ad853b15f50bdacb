package server

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/storefront/inventory-api/app/api"
	"github.com/storefront/inventory-api/app/categories"
	"github.com/storefront/inventory-api/app/products"
	"github.com/storefront/inventory-api/config"
)

// NewRouter registers every route and wraps the mux with tracing, request
// ids and access logging.
func NewRouter(cat *categories.CategoryHandler, prod *products.ProductHandler, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		api.OKResponse(w, api.MessageResponse{Message: config.ServiceName + " is running"})
	})

	mux.HandleFunc("GET /categories", cat.HandleGetAll)
	mux.HandleFunc("POST /categories", cat.HandleCreate)
	mux.HandleFunc("GET /categories/{id}", cat.HandleGet)
	mux.HandleFunc("PUT /categories/{id}", cat.HandleUpdate)
	mux.HandleFunc("PATCH /categories/{id}", cat.HandleUpdate)
	mux.HandleFunc("DELETE /categories/{id}", cat.HandleDeactivate)
	mux.HandleFunc("GET /categories/{id}/products", cat.HandleListProducts)

	mux.HandleFunc("GET /products", prod.HandleGetAll)
	mux.HandleFunc("POST /products", prod.HandleCreate)
	mux.HandleFunc("GET /products/{id}", prod.HandleGet)
	mux.HandleFunc("PUT /products/{id}", prod.HandleUpdate)
	mux.HandleFunc("PATCH /products/{id}", prod.HandleUpdate)
	mux.HandleFunc("DELETE /products/{id}", prod.HandleDeactivate)
	mux.HandleFunc("POST /products/{id}/restock", prod.HandleRestock)
	mux.HandleFunc("POST /products/{id}/purchase", prod.HandlePurchase)

	var handler http.Handler = mux
	handler = WithLogging(logger.Named("http"))(handler)
	handler = WithRequestID(handler)
	return otelhttp.NewHandler(handler, config.ServiceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
