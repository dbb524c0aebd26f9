package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const UserIDHeader = "X-User-ID"

type contextKey string

const userIDKey contextKey = "userID"

// CallerIdentity attaches the caller's user id to the request context: the
// X-User-ID header when present, defaultUserID otherwise. Authorization is
// left to whatever sits in front of this service.
func CallerIdentity(defaultUserID uuid.UUID) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := defaultUserID

			if header := r.Header.Get(UserIDHeader); header != "" {
				parsed, err := uuid.Parse(header)
				if err != nil {
					log.Printf("[ERROR] Invalid %s header: %q", UserIDHeader, header)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusBadRequest)
					w.Write([]byte(`{"error": "Invalid user ID header"}`))
					return
				}
				userID = parsed
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		log.Printf("[INFO] %s %s %d %s", r.Method, r.URL.Path, recorder.status, time.Since(start))
	})
}
