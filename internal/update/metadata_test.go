package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const mobileVersionsJSON = `{
  "alpha_version": "68.5a1",
  "beta_version": "68.8b2",
  "ios_beta_version": "",
  "ios_version": "25.1",
  "nightly_version": "68.5a1",
  "version": "68.7.0"
}`

func TestProductDetailsFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %s, want application/json", r.Header.Get("Accept"))
		}
		_, _ = w.Write([]byte(mobileVersionsJSON))
	}))
	defer server.Close()

	desc, err := NewProductDetailsFetcher(server.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	want := VersionDescriptor{Release: "68.7.0", Beta: "68.8b2", Nightly: "68.5a1"}
	if desc != want {
		t.Errorf("Fetch() = %+v, want %+v", desc, want)
	}
}

func TestProductDetailsFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := NewProductDetailsFetcher(server.URL).Fetch(context.Background()); err == nil {
		t.Error("Fetch() expected error for 503")
	}
}

func TestProductDetailsFetchMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer server.Close()

	if _, err := NewProductDetailsFetcher(server.URL).Fetch(context.Background()); err == nil {
		t.Error("Fetch() expected error for malformed body")
	}
}

func TestVersionDescriptorFor(t *testing.T) {
	d := VersionDescriptor{Release: "68.7.0", Nightly: "68.5a1"}

	if v, ok := d.For("release"); !ok || v != "68.7.0" {
		t.Errorf("For(release) = %s, %v", v, ok)
	}
	if _, ok := d.For("beta"); ok {
		t.Error("For(beta) should be missing")
	}
	if v, ok := d.For("nightly"); !ok || v != "68.5a1" {
		t.Errorf("For(nightly) = %s, %v", v, ok)
	}
	if _, ok := d.For(""); ok {
		t.Error("For(none) should be missing")
	}
}
