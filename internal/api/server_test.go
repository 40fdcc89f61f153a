package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/atharv3903/campusnav/internal/api"
	"github.com/atharv3903/campusnav/internal/broadcast"
	"github.com/atharv3903/campusnav/internal/graph"
	"github.com/atharv3903/campusnav/internal/graph/graphtest"
	"github.com/atharv3903/campusnav/internal/locations"
	"github.com/atharv3903/campusnav/internal/model"
	"github.com/atharv3903/campusnav/internal/router"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newServer(t *testing.T, g *graph.Graph) *api.Server {
	t.Helper()
	tbl, err := locations.New(graphtest.Locations())
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	hub, err := broadcast.NewHub(broadcast.Options{Workers: 2, SendBuffer: 4, Log: log})
	require.NoError(t, err)
	t.Cleanup(hub.Close)

	return api.New(router.New(g, tbl), hub, log)
}

func do(s *api.Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, req)
	return w
}

func TestGetPath(t *testing.T) {
	s := newServer(t, graphtest.Campus())

	w := do(s, http.MethodPost, "/get_path", `{"start": "Gate 1", "end": "Gate 2"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp model.RouteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []int64{graphtest.Gate1, graphtest.A1, graphtest.Gate2}, resp.Path)
	require.Len(t, resp.Coords, 3)
	assert.Greater(t, resp.Distance, 0.0)
	assert.Positive(t, resp.ExploredNodes)

	gate1, _ := s.Router.Graph().Coord(graphtest.Gate1)
	assert.Equal(t, gate1.Pair(), resp.Coords[0])
}

func TestGetPath_Errors(t *testing.T) {
	s := newServer(t, graphtest.Campus())

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "malformed", body: `{"start": `, want: "invalid request body"},
		{name: "identical", body: `{"start": "SH", "end": "SH"}`, want: router.ErrIdenticalEndpoints.Error()},
		{name: "unknown", body: `{"start": "SH", "end": "Library"}`, want: `unknown location: "Library"`},
		{name: "no path", body: `{"start": "Gate 1", "end": "Gate 4"}`, want: `no path found between "Gate 1" and "Gate 4"`},
	}
	seen := map[string]bool{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(s, http.MethodPost, "/get_path", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp model.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Error)
			assert.False(t, seen[resp.Error], "messages are distinct")
			seen[resp.Error] = true
		})
	}
}

func TestGetPath_EmptyGraph(t *testing.T) {
	empty, err := graph.Build(nil, nil)
	require.NoError(t, err)
	s := newServer(t, empty)

	w := do(s, http.MethodPost, "/get_path", `{"start": "Gate 1", "end": "Gate 2"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), graph.ErrEmptyGraph.Error())
}

func TestLocations(t *testing.T) {
	s := newServer(t, graphtest.Campus())

	w := do(s, http.MethodGet, "/locations", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.LocationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, graphtest.Locations(), resp.Locations)
	assert.Contains(t, w.Body.String(), `{"name":"Gate 1","latitude":30.771879,"longitude":76.579789}`)
}

func TestHealth(t *testing.T) {
	s := newServer(t, graphtest.Campus())

	w := do(s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status  string           `json:"status"`
		Graph   model.GraphStats `json:"graph"`
		Clients int              `json:"clients"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, model.GraphStats{Nodes: 10, Edges: 8, Components: 3}, resp.Graph)
	assert.Zero(t, resp.Clients)
}

func TestPostLocation_Invalid(t *testing.T) {
	s := newServer(t, graphtest.Campus())

	for _, body := range []string{`{`, `{"latitude": 30.77}`, `{"latitude": 30.77, "longitude": 500}`} {
		w := do(s, http.MethodPost, "/location", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestPostLocation_ReachesSockets(t *testing.T) {
	s := newServer(t, graphtest.Campus())
	srv := httptest.NewServer(s.Engine)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	var ev struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, model.EventConnected, ev.Event)

	w := do(s, http.MethodPost, "/location", `{"latitude": 30.7691, "longitude": 76.5763}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, model.EventNewLocation, ev.Event)
	assert.JSONEq(t, `{"latitude": 30.7691, "longitude": 76.5763}`, string(ev.Data))
}
