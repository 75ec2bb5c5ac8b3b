package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docportal/internal/client"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRegisterCmd(t *testing.T) {
	var got map[string]string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/register/", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"message":"User registered successfully"}`))
	}))
	defer backend.Close()

	out, err := execute(t, "--server", backend.URL, "register", "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully\n", out)
	assert.Equal(t, map[string]string{"username": "alice", "password": "secret"}, got)
}

func TestLoginCmd_UnreachableServer(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	out, err := execute(t, "--server", url, "login", "alice", "secret")
	assert.ErrorIs(t, err, errShown)
	assert.Equal(t, "Error during login\n", out)
}

func TestSearchCmd_JoinsArgs(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "query=hello%20world", r.URL.RawQuery)
		w.Write([]byte(`{"results":["first","second"]}`))
	}))
	defer backend.Close()

	out, err := execute(t, "-s", backend.URL, "search", "hello", "world")
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", out)
}

func TestSearchCmd_NoResults(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"detail":"nothing indexed"}`))
	}))
	defer backend.Close()

	out, err := execute(t, "-s", backend.URL, "search", "anything")
	require.NoError(t, err)
	assert.Equal(t, "No results found\n", out)
}

func TestUploadCmd(t *testing.T) {
	var calls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		f, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		assert.Equal(t, "report.pdf", header.Filename)
		w.Write([]byte(`{"message":"File uploaded successfully"}`))
	}))
	defer backend.Close()

	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4\n% cli test\n%%EOF\n"), 0o644))
	txtPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("plain text"), 0o644))

	t.Run("pdf is sent", func(t *testing.T) {
		out, err := execute(t, "-s", backend.URL, "upload", pdfPath)
		require.NoError(t, err)
		assert.Equal(t, "File uploaded successfully\n", out)
		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("non-pdf rejected locally", func(t *testing.T) {
		out, err := execute(t, "-s", backend.URL, "upload", txtPath)
		assert.ErrorIs(t, err, errShown)
		assert.Equal(t, "Only PDF files are supported.\n", out)
		assert.EqualValues(t, 1, calls.Load())
	})
}

func TestReport_MissingFieldUsesFallback(t *testing.T) {
	out := &bytes.Buffer{}
	err := report(out, client.OpUpload, "", nil, zap.NewNop())
	assert.ErrorIs(t, err, errShown)
	assert.Equal(t, "Error during upload\n", out.String())
}
