package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddThenPop(t *testing.T) {
	s := NewStore("test-secret", false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/customers/new", nil)
	require.NoError(t, s.Add(w, r, TypeSuccess, "Customer created"))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	next := httptest.NewRequest(http.MethodGet, "/customers", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	w2 := httptest.NewRecorder()
	got := s.Pop(w2, next)
	assert.Equal(t, []Message{{Type: TypeSuccess, Message: "Customer created"}}, got)

	// the cleared session is written back; replaying it yields nothing
	again := httptest.NewRequest(http.MethodGet, "/customers", nil)
	for _, c := range w2.Result().Cookies() {
		again.AddCookie(c)
	}
	assert.Empty(t, s.Pop(httptest.NewRecorder(), again))
}

func TestPopWithoutSession(t *testing.T) {
	s := NewStore("test-secret", false)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, s.Pop(httptest.NewRecorder(), r))
}

func TestForeignCookieIsIgnored(t *testing.T) {
	signer := NewStore("one", false)
	w := httptest.NewRecorder()
	require.NoError(t, signer.Add(w, httptest.NewRequest(http.MethodPost, "/", nil), TypeError, "boom"))

	other := NewStore("two", false)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	assert.Empty(t, other.Pop(httptest.NewRecorder(), r))
}
