package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"skygate/internal/domain/entity"
	"skygate/internal/interface/middleware"
	"skygate/internal/session"
	"skygate/pkg/helpers"
	"skygate/pkg/weather"
)

type providerStub struct {
	status    int
	body      string
	lastQuery string
	lastUnits string
	callCount int
}

func (p *providerStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.callCount++
		p.lastQuery = r.URL.Query().Get("q")
		p.lastUnits = r.URL.Query().Get("units")
		w.WriteHeader(p.status)
		_, _ = w.Write([]byte(p.body))
	}
}

const providerOK = `{"main":{"temp":21.5,"humidity":60},"weather":[{"main":"Clouds","description":"scattered clouds","icon":"03d"}],"name":"Berlin"}`

type weatherFixture struct {
	provider *providerStub
	store    *memSessionStore
	repo     *memUserRepo
	mgr      *session.Manager
	router   *gin.Engine
}

func newWeatherFixture(t *testing.T) *weatherFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider := &providerStub{status: http.StatusOK, body: providerOK}
	srv := httptest.NewServer(provider.handler())
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := &memUserRepo{}
	store := &memSessionStore{recs: make(map[string]session.Record)}
	mgr := session.NewManager(store, time.Hour)
	cookies := helpers.NewCookie(testCookieName, "", false)
	gate := middleware.NewGate(mgr, repo, cookies, logger)
	h := NewWeatherHandler(weather.NewClient(srv.URL, "test-key"), logger)

	r := gin.New()
	api := r.Group("/weather")
	api.Use(gate.Require(middleware.KindAPI))
	api.GET("", h.Current)

	return &weatherFixture{provider: provider, store: store, repo: repo, mgr: mgr, router: r}
}

func (f *weatherFixture) loginAs(t *testing.T, u entity.User) *http.Cookie {
	t.Helper()
	f.repo.users = append(f.repo.users, &u)
	rec, err := f.mgr.Create(t.Context(), u.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return &http.Cookie{Name: testCookieName, Value: rec.Token}
}

func (f *weatherFixture) get(cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/weather", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func berliner() entity.User {
	return entity.User{
		ID:        "u-berlin",
		Username:  "max",
		FirstName: "Max",
		LastName:  "Mustermann",
		Country:   "Deutschland",
		City:      "Berlin",
	}
}

func TestWeather_RequiresSession(t *testing.T) {
	f := newWeatherFixture(t)

	w := f.get()
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if f.provider.callCount != 0 {
		t.Error("provider called without authentication")
	}
}

func TestWeather_MetricForGermany(t *testing.T) {
	f := newWeatherFixture(t)
	ck := f.loginAs(t, berliner())

	w := f.get(ck)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %q", w.Code, w.Body.String())
	}
	if f.provider.lastQuery != "Berlin,DE" {
		t.Errorf("provider query = %q, want %q", f.provider.lastQuery, "Berlin,DE")
	}
	if f.provider.lastUnits != weather.UnitsMetric {
		t.Errorf("units = %q, want metric", f.provider.lastUnits)
	}

	var payload struct {
		UserData struct {
			FirstName  string `json:"firstName"`
			Country    string `json:"country"`
			Fahrenheit bool   `json:"fahrenheit"`
		} `json:"userData"`
		WeatherData struct {
			Main struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
			Name string `json:"name"`
		} `json:"weatherData"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.UserData.Fahrenheit {
		t.Error("fahrenheit = true for a German profile")
	}
	if payload.UserData.Country != "Germany" {
		t.Errorf("country = %q, want normalized %q", payload.UserData.Country, "Germany")
	}
	if payload.WeatherData.Main.Temp != 21.5 {
		t.Errorf("temp = %v", payload.WeatherData.Main.Temp)
	}
	if payload.WeatherData.Name != "Berlin" {
		t.Errorf("name = %q", payload.WeatherData.Name)
	}
}

func TestWeather_ImperialForUS(t *testing.T) {
	f := newWeatherFixture(t)
	ck := f.loginAs(t, entity.User{
		ID:      "u-nyc",
		Country: "USA",
		City:    "New York",
	})

	w := f.get(ck)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %q", w.Code, w.Body.String())
	}
	if f.provider.lastQuery != "New York,US" {
		t.Errorf("provider query = %q", f.provider.lastQuery)
	}
	if f.provider.lastUnits != weather.UnitsImperial {
		t.Errorf("units = %q, want imperial", f.provider.lastUnits)
	}

	var payload struct {
		UserData struct {
			Fahrenheit bool `json:"fahrenheit"`
		} `json:"userData"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.UserData.Fahrenheit {
		t.Error("fahrenheit = false for a US profile")
	}
}

func TestWeather_BadLocationData(t *testing.T) {
	f := newWeatherFixture(t)

	cases := []struct {
		name string
		user entity.User
	}{
		{"unknown country", entity.User{ID: "u-1", Country: "Atlantis", City: "Poseidonia"}},
		{"empty country", entity.User{ID: "u-2", City: "Berlin"}},
		{"empty city", entity.User{ID: "u-3", Country: "Germany"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ck := f.loginAs(t, tc.user)
			w := f.get(ck)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
		})
	}
	if f.provider.callCount != 0 {
		t.Error("provider called with invalid location data")
	}
}

func TestWeather_ProviderFailure(t *testing.T) {
	f := newWeatherFixture(t)
	f.provider.status = http.StatusBadGateway
	f.provider.body = "upstream broke"
	ck := f.loginAs(t, berliner())

	w := f.get(ck)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}
