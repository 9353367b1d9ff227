package questions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBank = `[{"question":"2+2?","options":["3","4","5"],"answer":1,"topic":"Addition"}]`

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultBankFile)
	require.NoError(t, os.WriteFile(path, []byte(sampleBank), 0o644))

	got, err := Load(context.Background(), nil, path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Addition", got[0].Topic)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), nil, filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoad_URL(t *testing.T) {
	var gotCacheControl string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCacheControl = r.Header.Get("Cache-Control")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleBank))
	}))
	defer srv.Close()

	got, err := Load(context.Background(), srv.Client(), srv.URL+"/"+DefaultBankFile)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "no-store", gotCacheControl)
}

func TestLoad_URLErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.Client(), srv.URL+"/"+DefaultBankFile)
	require.Error(t, err)
}
