package gfw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BearBump/VesselBrief/internal/models"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func newTestClient(baseURL string) *Client {
	return New(baseURL, "k", 0).WithClock(func() time.Time { return fixedNow })
}

const searchOK = `{"entries":[{"selfReportedInfo":[{"id":"v-123"}],"registryInfo":[{"shipname":"OCEAN STAR","flag":"PAN","geartype":[{"name":"CARGO"}],"sourceCode":["IMO","ICCAT"]}]}]}`

func TestClient_FetchActivity_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		q := r.URL.Query()
		switch r.URL.Path {
		case "/v3/vessels/search":
			require.Equal(t, "9321483", q.Get("query"))
			require.Equal(t, identityDataset, q.Get("datasets[0]"))
			_, _ = w.Write([]byte(searchOK))
		case "/v3/events":
			require.Equal(t, "v-123", q.Get("vessels[0]"))
			require.Equal(t, "2025-04-01", q.Get("start-date"))
			require.Equal(t, "2025-06-30", q.Get("end-date"))
			require.Equal(t, "5", q.Get("limit"))
			switch q.Get("datasets[0]") {
			case "public-global-fishing-events:latest":
				_, _ = w.Write([]byte(`{"entries":[{"type":"fishing","start":"2025-06-01T10:00:00Z"}]}`))
			case "public-global-port-visits-events:latest":
				_, _ = w.Write([]byte(`{"entries":[{"type":"port_visit","start":"2025-06-20T08:00:00Z"},{"type":"port_visit"}]}`))
			default:
				t.Errorf("unexpected dataset %q", q.Get("datasets[0]"))
			}
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	out := newTestClient(srv.URL).FetchActivity(context.Background(), "9321483")
	require.True(t, out.OK())
	p := out.Value
	require.Equal(t, "OCEAN STAR", p.RegisteredName)
	require.Equal(t, "PAN", p.Flag)
	require.Equal(t, "CARGO", p.GearType)
	require.Equal(t, "IMO, ICCAT", p.RegistrySources)
	require.Equal(t, []string{
		"- Evento de 'Port Visit' iniciado el 2025-06-20",
		"- Evento de 'Fishing' iniciado el 2025-06-01",
		"- Evento de 'Port Visit' iniciado el fecha desconocida",
	}, p.RecentEvents)
}

func TestClient_FetchActivity_NoRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"entries":[]}`))
	}))
	defer srv.Close()

	out := newTestClient(srv.URL).FetchActivity(context.Background(), "1")
	require.Equal(t, models.OutcomeNotice, out.Kind)
	require.Equal(t, MsgNoRecords, out.Message)
}

func TestClient_FetchActivity_NoSelfReported(t *testing.T) {
	var eventsCalled bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v3/events" {
			eventsCalled = true
		}
		_, _ = w.Write([]byte(`{"entries":[{"selfReportedInfo":[],"registryInfo":[{"shipname":"X"}]}]}`))
	}))
	defer srv.Close()

	out := newTestClient(srv.URL).FetchActivity(context.Background(), "1")
	require.Equal(t, models.OutcomeNotice, out.Kind)
	require.Equal(t, MsgNoAIS, out.Message)
	require.False(t, eventsCalled)
}

func TestClient_FetchActivity_EmptyRegistryDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v3/vessels/search" {
			_, _ = w.Write([]byte(`{"entries":[{"selfReportedInfo":[{"id":"v"}],"registryInfo":[]}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"entries":[]}`))
	}))
	defer srv.Close()

	out := newTestClient(srv.URL).FetchActivity(context.Background(), "1")
	require.True(t, out.OK())
	require.Equal(t, "No disponible", out.Value.RegisteredName)
	require.Equal(t, "No disponible", out.Value.Flag)
	require.Equal(t, "No especificado", out.Value.GearType)
	require.Equal(t, "No disponible", out.Value.RegistrySources)
	require.Equal(t, []string{NoRecentActivityLine}, out.Value.RecentEvents)
}

func TestClient_FetchActivity_FailedCategoryIsSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v3/vessels/search" {
			_, _ = w.Write([]byte(searchOK))
			return
		}
		if r.URL.Query().Get("datasets[0]") == "public-global-fishing-events:latest" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"entries":[{"type":"port_visit","start":"2025-06-20T08:00:00Z"}]}`))
	}))
	defer srv.Close()

	out := newTestClient(srv.URL).FetchActivity(context.Background(), "1")
	require.True(t, out.OK())
	require.Equal(t, []string{"- Evento de 'Port Visit' iniciado el 2025-06-20"}, out.Value.RecentEvents)
}

func TestClient_FetchActivity_SearchNon2xxIsHardFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	out := newTestClient(srv.URL).FetchActivity(context.Background(), "1")
	require.Equal(t, models.OutcomeHardFailure, out.Kind)
	require.Equal(t, models.ReasonUnavailable, out.Reason)
	require.Equal(t, MsgUnavailable, out.Message)
}

func TestClient_FetchActivity_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	out := newTestClient(base).FetchActivity(context.Background(), "1")
	require.Equal(t, models.OutcomeSoftFailure, out.Kind)
	require.Equal(t, models.ReasonUnreachable, out.Reason)
}

func TestClient_FetchActivity_NoKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without api key")
	}))
	defer srv.Close()

	out := New(srv.URL, "", 0).FetchActivity(context.Background(), "1")
	require.Equal(t, models.OutcomeSoftFailure, out.Kind)
	require.Equal(t, models.ReasonNotConfigured, out.Reason)
}

func TestMergeEvents_OrderAndCap(t *testing.T) {
	fishing := []rawEvent{
		{Type: "fishing", Start: "2025-06-01T00:00:00Z"},
		{Type: "fishing", Start: "2025-06-03T00:00:00Z"},
		{Type: "fishing", Start: "2025-06-05T00:00:00Z"},
	}
	port := []rawEvent{
		{Type: "port_visit", Start: "2025-06-02T00:00:00Z"},
		{Type: "port_visit", Start: "2025-06-04T00:00:00Z"},
		{Type: "port_visit", Start: "2025-06-06T00:00:00Z"},
	}

	got := MergeEvents([][]rawEvent{fishing, port}, EventLimit)
	require.Len(t, got, 5)
	dates := make([]string, 0, len(got))
	for _, e := range got {
		dates = append(dates, e.StartDate)
	}
	require.Equal(t, []string{"2025-06-06", "2025-06-05", "2025-06-04", "2025-06-03", "2025-06-02"}, dates)
}

func TestMergeEvents_StableOnTies(t *testing.T) {
	same := "2025-06-01T00:00:00Z"
	got := MergeEvents([][]rawEvent{
		{{Type: "fishing", Start: same}},
		{{Type: "port_visit", Start: same}},
	}, EventLimit)
	require.Equal(t, "fishing", got[0].Type)
	require.Equal(t, "port_visit", got[1].Type)
}

func TestHumanizeType(t *testing.T) {
	require.Equal(t, "Port Visit", HumanizeType("port_visit"))
	require.Equal(t, "Fishing", HumanizeType("fishing"))
	require.Equal(t, "Desconocido", HumanizeType(""))
}
