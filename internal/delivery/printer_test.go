package delivery

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPPrinter_Print(t *testing.T) {
	var gotBody []byte
	var gotJob, gotType, gotMethod string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		gotJob = r.Header.Get(JobHeader)
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	doc := []byte("\n{image:x}\n\nRiceball PNH\n")
	jobID, err := NewHTTPPrinter(srv.URL, time.Second).Print(context.Background(), doc)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "text/plain; charset=utf-8", gotType)
	assert.Equal(t, doc, gotBody)
	assert.Equal(t, jobID, gotJob)
	_, err = uuid.Parse(jobID)
	assert.NoError(t, err)
}

func TestHTTPPrinter_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "paper out", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPPrinter(srv.URL, time.Second).Print(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "paper out")
}

func TestHTTPPrinter_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPPrinter(url, time.Second).Print(context.Background(), []byte("x"))
	assert.Error(t, err)
}

func TestNewPrinterFromConfig(t *testing.T) {
	p, err := NewPrinterFromConfig(false, "", 0)
	require.NoError(t, err)
	assert.Equal(t, "none", p.Name())

	jobID, err := p.Print(context.Background(), []byte("x"))
	assert.NoError(t, err)
	assert.Empty(t, jobID)

	p, err = NewPrinterFromConfig(true, DefaultURL, time.Second)
	require.NoError(t, err)
	assert.Equal(t, DefaultURL, p.Name())

	_, err = NewPrinterFromConfig(true, "", time.Second)
	assert.Error(t, err)
}
