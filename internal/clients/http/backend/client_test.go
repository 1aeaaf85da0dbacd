package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDo_PostsEnvelopeWithHeaders(t *testing.T) {
	var got Request
	var rawParams json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "operator", user)
		require.Equal(t, "secret", pass)

		var body struct {
			Command           string
			CommandParameters json.RawMessage
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		got.Command = body.Command
		rawParams = body.CommandParameters
		_, _ = w.Write([]byte(`{"command":"GetMenu","success":true,"errorMessage":"","data":{"menuItems":[{"id":"1","article":"HOT001","name":"Борщ","price":280.5,"isWeighted":false,"fullPath":"Супы","barcodes":["4600000000011"]}]}}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, WithBasicAuth("operator", "secret"))
	require.NoError(t, err)

	resp, data, err := client.GetMenu(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, CommandGetMenu, got.Command)
	require.JSONEq(t, `{"WithPrice":true}`, string(rawParams))
	require.True(t, resp.Success)
	require.Len(t, data.MenuItems, 1)
	require.Equal(t, "HOT001", data.MenuItems[0].Article)
	require.Equal(t, "280.5", data.MenuItems[0].Price.String())
	require.Equal(t, []string{"4600000000011"}, data.MenuItems[0].Barcodes)
}

func TestDo_SkipsAuthWithoutPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := r.BasicAuth()
		require.False(t, ok)
		_, _ = w.Write([]byte(`{"Command":"SendOrder","Success":true}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, WithBasicAuth("operator", ""))
	require.NoError(t, err)
	resp, err := client.SendOrder(context.Background(), SendOrderParameters{OrderID: "x"})
	require.NoError(t, err)
	require.True(t, resp.Success)
}

func TestDo_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)
	_, err = client.SendOrder(context.Background(), SendOrderParameters{})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestDo_UndecodableBodies(t *testing.T) {
	for _, body := range []string{"", "null", "<html>"} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		client, err := NewClient(srv.URL)
		require.NoError(t, err)
		_, err = client.SendOrder(context.Background(), SendOrderParameters{})
		require.ErrorIs(t, err, ErrUndecodableResponse, "body %q", body)
		srv.Close()
	}
}

func TestDo_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)
	_, err = client.SendOrder(context.Background(), SendOrderParameters{})
	require.Error(t, err)
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ")
	require.Error(t, err)
}
