package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/allstar-electrical/workorders/internal/pkg/interceptors"
	"github.com/allstar-electrical/workorders/internal/pkg/interceptors/constants"
)

// AttachRequestMetadata puts the chi request ID and the caller's idempotency
// key into the context so the remote client can forward them. Requests
// without a key get a fresh one. Must run after middleware.RequestID.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		idempotencyKey := r.Header.Get(constants.HeaderXIdempotencyKey)
		if idempotencyKey == "" {
			idempotencyKey = uuid.NewString()
		}

		w.Header().Set(constants.HeaderXRequestId, requestID)
		ctx := interceptors.WithRequestMetadata(r.Context(), requestID, idempotencyKey)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
