package searxng

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/search"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "https://www.smarthome.com", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "general", r.URL.Query().Get("categories"))

		_, _ = w.Write([]byte(`{"query":"q","results":[
			{"title":"a","url":"https://a","content":"first"},
			{"title":"b","url":"https://b","content":"second"},
			{"title":"c","url":"https://c","content":"third"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithTimeout(5*time.Second))
	resp, err := c.Search(context.Background(), &search.Request{Query: "https://www.smarthome.com", MaxResults: 2})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "first", resp.Results[0].Content)
	assert.Equal(t, "second", resp.Results[1].Content)
}

func TestClient_Search_NewsCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "news", r.URL.Query().Get("categories"))
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).Search(context.Background(), &search.Request{Query: "x", Topic: "news"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestClient_Search_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, WithTimeout(time.Second)).Search(context.Background(), &search.Request{Query: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "SmartHome & eco hubs", cleanText(`<span class="highlight">SmartHome</span> &amp; eco hubs `))
	assert.Equal(t, "plain", cleanText("plain"))
}

func TestClient_Search_BasePathPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/searx/search", r.URL.Path)
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL + "/searx/").Search(context.Background(), &search.Request{Query: "x"})
	require.NoError(t, err)
}
