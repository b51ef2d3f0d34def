package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"title":"Widget","price":9.99,"category":"tools","image":"w.jpg","rating":{"rate":4.5,"count":120}},
			{"id":2,"title":"Gadget","price":5.5,"category":"toys","image":"g.jpg","rating":{"rate":3.9,"count":40}}]`))
	})
	mux.HandleFunc("/products/1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1,"title":"Widget","price":9.99,"category":"tools","image":"w.jpg","rating":{"rate":4.5,"count":120}}`))
	})
	mux.HandleFunc("/products/99", func(w http.ResponseWriter, r *http.Request) {
		// Unknown ids come back as 200 with an empty body.
	})
	mux.HandleFunc("/products/categories", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["tools","toys"]`))
	})
	mux.HandleFunc("/products/category/tools", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"title":"Widget","price":9.99,"category":"tools"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestList(t *testing.T) {
	c := New(newTestServer(t).URL)
	list, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Title != "Widget" || list[1].Price != 5.5 {
		t.Fatalf("unexpected products: %+v", list)
	}
	if list[0].Rating.Count != 120 {
		t.Fatalf("rating not decoded: %+v", list[0].Rating)
	}
}

func TestGet(t *testing.T) {
	c := New(newTestServer(t).URL)
	p, err := c.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.ID != 1 || p.Price != 9.99 {
		t.Fatalf("unexpected product: %+v", p)
	}
}

func TestGetUnknownProduct(t *testing.T) {
	c := New(newTestServer(t).URL)
	if _, err := c.Get(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCategories(t *testing.T) {
	c := New(newTestServer(t).URL)
	cats, err := c.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 2 || cats[0] != "tools" {
		t.Fatalf("unexpected categories: %v", cats)
	}
}

func TestByCategory(t *testing.T) {
	c := New(newTestServer(t).URL)
	list, err := c.ByCategory(context.Background(), "tools")
	if err != nil {
		t.Fatalf("by category: %v", err)
	}
	if len(list) != 1 || list[0].Category != "tools" {
		t.Fatalf("unexpected products: %+v", list)
	}
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	if _, err := c.List(context.Background()); err == nil {
		t.Fatal("expected error on 500")
	}
}
