package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMiddlewaresStacks ensures we get the four middlewares stacks with
// exact number of elements in those stacks.
func TestMiddlewaresStacks(t *testing.T) {
	api, _ := newTestAPIHandler()
	pub, optional, auth, ops := api.MiddlewaresStacks()
	assert.Equal(t, 7, len(*pub))
	assert.Equal(t, 8, len(*optional))
	assert.Equal(t, 8, len(*auth))
	assert.Equal(t, 5, len(*ops))
}

// TestChain ensures each middleware in the stack is called as well the handler.
func TestChain(t *testing.T) {
	var ca, cb, cc, ch bool
	queue := make(chan int, 4)

	middlewareA := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 1
			ca = true
			next(w, r, ps)
		}
	}
	middlewareB := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 2
			cb = true
			next(w, r, ps)
		}
	}
	middlewareC := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 3
			cc = true
			next(w, r, ps)
		}
	}
	middlewares := Middlewares{
		middlewareA,
		middlewareB,
		middlewareC,
	}

	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		queue <- 4
		ch = true
	}

	chained := (&middlewares).Chain(handler)
	req := httptest.NewRequest("GET", "/v1/books", nil)
	w := httptest.NewRecorder()
	chained(w, req, nil)

	t.Run("check calling", func(t *testing.T) {
		assert.Equal(t, true, ca)
		assert.Equal(t, true, cb)
		assert.Equal(t, true, cc)
		assert.Equal(t, true, ch)
	})

	t.Run("check ordering", func(t *testing.T) {
		assert.Equal(t, 1, <-queue)
		assert.Equal(t, 2, <-queue)
		assert.Equal(t, 3, <-queue)
		assert.Equal(t, 4, <-queue)
	})
}

// TestRequestsCounterMiddleware ensures the request counter increment.
func TestRequestsCounterMiddleware(t *testing.T) {
	api, _ := newTestAPIHandler()
	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		num := GetRequestNumberFromContext(r.Context())
		assert.Equal(t, uint64(1), num)
	}
	wrapped := api.RequestsCounterMiddleware(handler)
	req := httptest.NewRequest("GET", "/v1/books", nil)
	wrapped(httptest.NewRecorder(), req, nil)
	assert.Equal(t, uint64(1), api.stats.called)
}

// TestRequestIDMiddleware ensures each request receives a traceable id.
func TestRequestIDMiddleware(t *testing.T) {
	api, _ := newTestAPIHandler()
	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
		assert.NotEmpty(t, requestID)
		assert.True(t, api.idsHandler.IsValid(requestID, RequestIDPrefix))
	}
	wrapped := api.RequestIDMiddleware(handler)
	req := httptest.NewRequest("GET", "/v1/books", nil)
	wrapped(httptest.NewRecorder(), req, nil)
}

// TestStatsMiddleware ensures final status codes feed the counters.
func TestStatsMiddleware(t *testing.T) {
	api, _ := newTestAPIHandler()
	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		w.WriteHeader(http.StatusTeapot)
	}
	wrapped := api.StatsMiddleware(handler)
	req := httptest.NewRequest("GET", "/v1/books", nil)
	wrapped(httptest.NewRecorder(), req, nil)

	api.stats.mu.RLock()
	defer api.stats.mu.RUnlock()
	assert.Equal(t, uint64(1), api.stats.status[http.StatusTeapot])
}

// TestMaintenanceModeMiddleware ensures public traffic is short-circuited
// with 503 while maintenance is on.
func TestMaintenanceModeMiddleware(t *testing.T) {
	api, _ := newTestAPIHandler()
	var reached bool
	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		reached = true
	}
	wrapped := api.MaintenanceModeMiddleware(handler)

	t.Run("disabled lets requests through", func(t *testing.T) {
		wrapped(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/books", nil), nil)
		assert.True(t, reached)
	})

	t.Run("enabled blocks with 503", func(t *testing.T) {
		reached = false
		api.mode.enabled.Store(true)
		api.mode.started = time.Now()
		w := httptest.NewRecorder()
		wrapped(w, httptest.NewRequest("GET", "/v1/books", nil), nil)
		assert.False(t, reached)
		assert.Equal(t, http.StatusServiceUnavailable, w.Result().StatusCode)
	})
}

// TestAuthenticateMiddleware ensures credential enforcement on the
// authenticated stack.
func TestAuthenticateMiddleware(t *testing.T) {
	api, _ := newTestAPIHandler()
	token, err := api.tokens.Issue(User{ID: "u:1", Username: "alice", Role: RoleUser})
	require.NoError(t, err)

	var caller Caller
	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		caller = GetCallerFromContext(r.Context())
	}
	wrapped := api.AuthenticateMiddleware(handler)

	t.Run("missing credential is rejected with 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		wrapped(w, httptest.NewRequest("GET", "/v1/books", nil), nil)
		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	})

	t.Run("garbage credential is rejected with 401", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/books", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		w := httptest.NewRecorder()
		wrapped(w, req, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	})

	t.Run("valid credential exposes the caller identity", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/books", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		wrapped(httptest.NewRecorder(), req, nil)
		assert.Equal(t, Caller{ID: "u:1", Username: "alice", Role: RoleUser}, caller)
	})
}

// TestOptionalAuthenticateMiddleware ensures anonymous requests are
// downgraded to the guest identity instead of being rejected.
func TestOptionalAuthenticateMiddleware(t *testing.T) {
	api, _ := newTestAPIHandler()
	token, err := api.tokens.Issue(User{ID: "u:1", Username: "alice", Role: RoleUser})
	require.NoError(t, err)

	var caller Caller
	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		caller = GetCallerFromContext(r.Context())
	}
	wrapped := api.OptionalAuthenticateMiddleware(handler)

	t.Run("missing credential becomes guest", func(t *testing.T) {
		w := httptest.NewRecorder()
		wrapped(w, httptest.NewRequest("GET", "/v1/books", nil), nil)
		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		assert.Equal(t, RoleGuest, caller.Role)
	})

	t.Run("invalid credential is still rejected with 401", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/books", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		w := httptest.NewRecorder()
		wrapped(w, req, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	})

	t.Run("valid credential exposes the caller identity", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/books", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		wrapped(httptest.NewRecorder(), req, nil)
		assert.Equal(t, "alice", caller.Username)
	})
}

// TestCORSMiddleware ensures cors headers are applied.
func TestCORSMiddleware(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {}
	wrapped := CORSMiddleware(handler)
	w := httptest.NewRecorder()
	wrapped(w, httptest.NewRequest("GET", "/v1/books", nil), nil)
	assert.Equal(t, "*", w.Result().Header.Get("Access-Control-Allow-Origin"))
}

// TestPanicRecoveryMiddleware ensures a handler panic turns into a 500
// response instead of tearing the server down.
func TestPanicRecoveryMiddleware(t *testing.T) {
	api, _ := newTestAPIHandler()
	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		panic("boom")
	}
	wrapped := api.PanicRecoveryMiddleware(handler)
	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		wrapped(w, httptest.NewRequest("GET", "/v1/books", nil), nil)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
}
