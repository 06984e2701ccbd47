package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetActor(t *testing.T) {
	assert.Equal(t, SystemActor, GetActor(context.Background()))

	var got string
	h := WithActor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetActor(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/sync/push", nil)
	req.Header.Set("X-User-ID", " admin-7 ")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "admin-7", got)
}
