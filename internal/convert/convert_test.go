package convert

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientConvertDocx(t *testing.T) {
	var gotPath, gotFilename string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		file, header, err := r.FormFile("files")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotFilename = header.Filename
		gotBody, _ = io.ReadAll(file)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL + "/")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	pdf, err := client.ConvertDocx(context.Background(), []byte("docx-bytes"))
	if err != nil {
		t.Fatalf("ConvertDocx: %v", err)
	}
	if string(pdf) != "%PDF-1.4 fake" {
		t.Fatalf("pdf = %q", pdf)
	}
	if gotPath != "/forms/libreoffice/convert" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotFilename != "document.docx" {
		t.Fatalf("filename = %q", gotFilename)
	}
	if string(gotBody) != "docx-bytes" {
		t.Fatalf("uploaded body = %q", gotBody)
	}
}

func TestClientConvertDocxErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "libreoffice exploded", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.ConvertDocx(context.Background(), []byte("docx"))
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "libreoffice exploded") {
		t.Fatalf("err = %v", err)
	}
}

func TestClientConvertDocxEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.ConvertDocx(context.Background(), []byte("docx")); err == nil {
		t.Fatal("expected error for empty body")
	}
}

func TestNewClientRequiresURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for blank URL")
	}
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.ConvertDocx(context.Background(), []byte("docx"))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
