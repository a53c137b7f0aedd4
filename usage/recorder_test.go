package usage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-library-checkin/internal/errors"
	"github.com/jrsteele09/go-library-checkin/internal/httpclient"
	"github.com/jrsteele09/go-library-checkin/token/tokenfake"
	"github.com/jrsteele09/go-library-checkin/usage"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RecordInLibraryUse(t *testing.T) {
	t.Run("posts the branch location", func(t *testing.T) {
		var (
			gotPath string
			gotBody string
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.Header.Get("Authorization") != "Bearer tk_test" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			body, _ := io.ReadAll(r.Body)
			gotPath, gotBody = r.URL.Path, string(body)
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		tokens := tokenfake.NewFakeSource("tk_test")
		err := usage.NewRecorder(srv.URL, "128807", tokens, srv.Client()).RecordInLibraryUse(context.Background(), "B002")
		require.NoError(t, err)
		require.Equal(t, "/circ/items/B002/routings/usages", gotPath)
		require.JSONEq(t, `{"location":"`+srv.URL+`/circ/branches/128807"}`, gotBody)
		require.Equal(t, 1, tokens.Calls())
	})

	t.Run("non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte("item is on loan"))
		}))
		defer srv.Close()

		err := usage.NewRecorder(srv.URL, "128807", tokenfake.NewFakeSource("tk_test"), nil).RecordInLibraryUse(context.Background(), "B002")
		require.Error(t, err)
		require.Equal(t, apperrors.KindUsage, apperrors.KindOf(err))
		require.Equal(t, "HTTP 409: item is on loan", err.Error())
	})

	t.Run("oversized response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(make([]byte, httpclient.MaxBodyBytes+1))
		}))
		defer srv.Close()

		err := usage.NewRecorder(srv.URL, "128807", tokenfake.NewFakeSource("tk_test"), nil).RecordInLibraryUse(context.Background(), "B002")
		require.Error(t, err)
		require.Equal(t, apperrors.KindUsage, apperrors.KindOf(err))
		require.Contains(t, err.Error(), "reading usage response: response body exceeds")
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		err := usage.NewRecorder(srv.URL, "128807", tokenfake.NewFakeSource("tk_test"), &http.Client{Timeout: 20 * time.Millisecond}).
			RecordInLibraryUse(context.Background(), "B002")
		require.Error(t, err)
		require.True(t, apperrors.IsTimeout(err))
		require.Equal(t, apperrors.KindUsage, apperrors.KindOf(err))
	})
}
