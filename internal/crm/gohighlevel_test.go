package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, body map[string]any)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer pit-token", r.Header.Get("Authorization"))
		assert.Equal(t, DefaultAPIVersion, r.Header.Get("Version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		handler(w, r, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClient_UpsertContact(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body map[string]any) {
		assert.Equal(t, "/contacts/upsert", r.URL.Path)
		assert.Equal(t, "loc-1", body["locationId"])
		assert.Equal(t, "Sam", body["firstName"])
		assert.Equal(t, "De Souza", body["lastName"])
		assert.Equal(t, "sam@example.com", body["email"])
		assert.Equal(t, []any{"quote", "endOfTenancy"}, body["tags"])

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"new":true,"contact":{"id":"ct-42"}}`))
	})

	client := NewClient(Config{BaseURL: server.URL, APIToken: "pit-token", LocationID: "loc-1"})
	id, err := client.UpsertContact(context.Background(), Contact{
		Name:  "Sam De Souza",
		Email: "sam@example.com",
		Tags:  []string{"quote", "endOfTenancy"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ct-42", id)
}

func TestClient_UpsertContactErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body map[string]any) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid JWT"}`))
		})

		_, err := NewClient(Config{BaseURL: server.URL, APIToken: "pit-token"}).UpsertContact(context.Background(), Contact{Email: "a@b.c"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 401")
	})

	t.Run("missing id", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body map[string]any) {
			_, _ = w.Write([]byte(`{"contact":{}}`))
		})

		_, err := NewClient(Config{BaseURL: server.URL, APIToken: "pit-token"}).UpsertContact(context.Background(), Contact{Email: "a@b.c"})
		assert.Error(t, err)
	})
}

func TestClient_CreateOpportunity(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body map[string]any) {
		assert.Equal(t, "/opportunities/", r.URL.Path)
		assert.Equal(t, "pipe-1", body["pipelineId"])
		assert.Equal(t, "stage-1", body["pipelineStageId"])
		assert.Equal(t, "ct-42", body["contactId"])
		assert.Equal(t, "open", body["status"])
		assert.Equal(t, 214.5, body["monetaryValue"])
		assert.Equal(t, "quote:q-1", body["source"])
		assert.Equal(t, "End of Tenancy quote £176-£215 https://brightnest.example/quote/q-1", body["name"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"opportunity":{"id":"op-9"}}`))
	})

	client := NewClient(Config{
		BaseURL:         server.URL + "/",
		APIToken:        "pit-token",
		LocationID:      "loc-1",
		PipelineID:      "pipe-1",
		PipelineStageID: "stage-1",
	})

	id, err := client.CreateOpportunity(context.Background(), QuoteOpportunity{
		ContactID:    "ct-42",
		QuoteID:      "q-1",
		ServiceName:  "End of Tenancy",
		EstimateLow:  175.5,
		EstimateHigh: 214.5,
		QuoteURL:     "https://brightnest.example/quote/q-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "op-9", id)
}

func TestClient_CreateOpportunityWithoutPipeline(t *testing.T) {
	_, err := NewClient(Config{APIToken: "pit-token"}).CreateOpportunity(context.Background(), QuoteOpportunity{})
	assert.Error(t, err)
}

func TestSplitName(t *testing.T) {
	first, last := splitName("  Ada  ")
	assert.Equal(t, "Ada", first)
	assert.Empty(t, last)

	first, last = splitName("")
	assert.Empty(t, first)
	assert.Empty(t, last)
}
