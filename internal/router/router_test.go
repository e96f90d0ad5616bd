package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pawsera/internal/platform/config"
	"pawsera/internal/router"
)

const (
	adminEmail    = "admin@pawsera.test"
	adminPassword = "admin-secret"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	h, err := router.NewRouter(router.Options{Config: config.Config{
		JWTSecret:       "test-secret",
		SessionTTL:      time.Hour,
		FilesDir:        t.TempDir(),
		FilesBaseURL:    "/files",
		FilesMaxBytes:   1 << 20,
		DefaultCity:     "Toronto",
		DefaultLat:      43.6532,
		DefaultLng:      -79.3832,
		GeoTimeout:      time.Second,
		AppointmentSlot: 30 * time.Minute,
		SampleFallback:  true,
		AdminEmail:      adminEmail,
		AdminPassword:   adminPassword,
		AdminName:       "Root",
	}})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_OwnerFlow(t *testing.T) {
	ts := newServer(t)

	sess := register(t, ts.URL, "ana@pawsera.test", "secret1", "PetOwner", "Ana")
	if sess.Destination != "OwnerHome" {
		t.Fatalf("expected OwnerHome, got %s", sess.Destination)
	}

	token := login(t, ts.URL, "ana@pawsera.test", "secret1", "PetOwner")

	petID := createPet(t, ts.URL, token, "Milo")

	st, body, hdr := doReq(t, ts.URL, "GET", "/pets", token, nil)
	if st != http.StatusOK {
		t.Fatalf("list pets: %d %s", st, body)
	}
	if hdr.Get("X-Data-Source") != "live" {
		t.Fatalf("expected live data source, got %q", hdr.Get("X-Data-Source"))
	}
	var pets []struct {
		ID string `json:"id"`
	}
	mustJSON(t, body, &pets)
	if len(pets) != 1 || pets[0].ID != petID {
		t.Fatalf("expected only own pet, got %s", body)
	}

	st, body, _ = doReq(t, ts.URL, "GET", "/home", token, nil)
	if st != http.StatusOK {
		t.Fatalf("home: %d %s", st, body)
	}
	var home struct {
		Destination string `json:"destination"`
		Weather     struct {
			Source string `json:"source"`
		} `json:"weather"`
		Pets struct {
			Data []struct {
				Name string `json:"name"`
			} `json:"data"`
		} `json:"pets"`
	}
	mustJSON(t, body, &home)
	if home.Destination != "OwnerHome" {
		t.Fatalf("unexpected destination %q", home.Destination)
	}
	// Sin API key de clima la sección cae a la muestra.
	if home.Weather.Source != "sample" {
		t.Fatalf("expected sample weather, got %q", home.Weather.Source)
	}
	if len(home.Pets.Data) != 1 || home.Pets.Data[0].Name != "Milo" {
		t.Fatalf("unexpected pets section %s", body)
	}
}

func TestHTTP_VetApprovalAndBooking(t *testing.T) {
	ts := newServer(t)

	register(t, ts.URL, "ana@pawsera.test", "secret1", "PetOwner", "Ana")
	ownerToken := login(t, ts.URL, "ana@pawsera.test", "secret1", "")
	petID := createPet(t, ts.URL, ownerToken, "Milo")

	vet := register(t, ts.URL, "vet@pawsera.test", "secret2", "Vet", "Dr. Vega")
	if vet.User.Status != "pending" {
		t.Fatalf("new vet must be pending, got %q", vet.User.Status)
	}
	vetToken := login(t, ts.URL, "vet@pawsera.test", "secret2", "Vet")

	day := time.Now().UTC().Add(48 * time.Hour).Format("2006-01-02")
	booking := map[string]any{
		"pet_id":  petID,
		"vet_id":  vet.User.ID,
		"date":    day,
		"time":    "10:00",
		"purpose": "checkup",
		"status":  "pending",
	}

	// Vet pendiente no agenda.
	if st, body, _ := doReq(t, ts.URL, "POST", "/appointments", vetToken, booking); st != http.StatusForbidden {
		t.Fatalf("pending vet booking: expected 403, got %d %s", st, body)
	}
	// Tampoco se puede reservar con un vet no aprobado.
	if st, body, _ := doReq(t, ts.URL, "POST", "/appointments", ownerToken, booking); st != http.StatusBadRequest {
		t.Fatalf("booking with pending vet: expected 400, got %d %s", st, body)
	}

	adminToken := login(t, ts.URL, adminEmail, adminPassword, "Admin")

	st, body, _ := doReq(t, ts.URL, "GET", "/vets/pending", adminToken, nil)
	if st != http.StatusOK || !strings.Contains(string(body), vet.User.ID) {
		t.Fatalf("pending vets: %d %s", st, body)
	}
	if st, body, _ := doReq(t, ts.URL, "POST", "/vets/"+vet.User.ID+"/approve", ownerToken, nil); st != http.StatusForbidden {
		t.Fatalf("owner approving: expected 403, got %d %s", st, body)
	}
	if st, body, _ := doReq(t, ts.URL, "POST", "/vets/"+vet.User.ID+"/approve", adminToken, nil); st != http.StatusOK {
		t.Fatalf("approve: %d %s", st, body)
	}

	st, body, _ = doReq(t, ts.URL, "POST", "/appointments", ownerToken, booking)
	if st != http.StatusCreated {
		t.Fatalf("book: %d %s", st, body)
	}
	var apt struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	mustJSON(t, body, &apt)

	// Mismo vet, mismo horario => conflicto.
	if st, body, _ := doReq(t, ts.URL, "POST", "/appointments", ownerToken, booking); st != http.StatusConflict {
		t.Fatalf("double booking: expected 409, got %d %s", st, body)
	}

	// El dueño no confirma; el vet asignado sí.
	if st, _, _ := doReq(t, ts.URL, "POST", "/appointments/"+apt.ID+"/confirm", ownerToken, nil); st != http.StatusForbidden {
		t.Fatalf("owner confirm: expected 403, got %d", st)
	}
	st, body, _ = doReq(t, ts.URL, "POST", "/appointments/"+apt.ID+"/confirm", vetToken, nil)
	if st != http.StatusOK {
		t.Fatalf("vet confirm: %d %s", st, body)
	}
	mustJSON(t, body, &apt)
	if apt.Status != "confirmed" {
		t.Fatalf("expected confirmed, got %q", apt.Status)
	}
	if st, _, _ := doReq(t, ts.URL, "POST", "/appointments/"+apt.ID+"/confirm", vetToken, nil); st != http.StatusConflict {
		t.Fatalf("confirm twice: expected 409, got %d", st)
	}

	st, body, hdr := doReq(t, ts.URL, "GET", "/admin/appointments/export", adminToken, nil)
	if st != http.StatusOK {
		t.Fatalf("export: %d %s", st, body)
	}
	if !strings.Contains(hdr.Get("Content-Type"), "spreadsheetml") {
		t.Fatalf("unexpected content type %q", hdr.Get("Content-Type"))
	}
	// xlsx es un zip.
	if !bytes.HasPrefix(body, []byte("PK")) {
		t.Fatalf("export is not an xlsx file")
	}
	if st, _, _ := doReq(t, ts.URL, "GET", "/admin/appointments/export", vetToken, nil); st != http.StatusForbidden {
		t.Fatalf("vet export: expected 403, got %d", st)
	}
}

func TestHTTP_LoginRoleMismatchAndLogout(t *testing.T) {
	ts := newServer(t)

	register(t, ts.URL, "ana@pawsera.test", "secret1", "PetOwner", "Ana")

	st, _, _ := doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{
		"email": "ana@pawsera.test", "password": "secret1", "expected_role": "Vet",
	})
	if st != http.StatusForbidden {
		t.Fatalf("role mismatch: expected 403, got %d", st)
	}
	st, _, _ = doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{
		"email": "ana@pawsera.test", "password": "wrong-pass",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", st)
	}

	token := login(t, ts.URL, "ana@pawsera.test", "secret1", "PetOwner")
	if st, body, _ := doReq(t, ts.URL, "GET", "/me", token, nil); st != http.StatusOK {
		t.Fatalf("me: %d %s", st, body)
	}
	if st, _, _ := doReq(t, ts.URL, "POST", "/auth/logout", token, nil); st != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", st)
	}
	if st, _, _ := doReq(t, ts.URL, "GET", "/me", token, nil); st != http.StatusUnauthorized {
		t.Fatalf("revoked token: expected 401, got %d", st)
	}
}

func TestHTTP_RegisterRejectsAdminAndDuplicates(t *testing.T) {
	ts := newServer(t)

	st, _, _ := doReq(t, ts.URL, "POST", "/auth/register", "", map[string]any{
		"email": "x@pawsera.test", "password": "secret1", "role": "Admin", "name": "X",
	})
	if st != http.StatusForbidden {
		t.Fatalf("admin self-registration: expected 403, got %d", st)
	}

	register(t, ts.URL, "ana@pawsera.test", "secret1", "PetOwner", "Ana")
	st, _, _ = doReq(t, ts.URL, "POST", "/auth/register", "", map[string]any{
		"email": "ana@pawsera.test", "password": "secret1", "role": "PetOwner", "name": "Ana",
	})
	if st != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", st)
	}

	st, _, _ = doReq(t, ts.URL, "POST", "/auth/register", "", map[string]any{
		"email": "not-an-email", "password": "secret1",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("bad email: expected 400, got %d", st)
	}
}

func TestHTTP_SettingsPreferences(t *testing.T) {
	ts := newServer(t)

	register(t, ts.URL, "vet@pawsera.test", "secret2", "Vet", "Dr. Vega")
	token := login(t, ts.URL, "vet@pawsera.test", "secret2", "Vet")

	st, body, _ := doReq(t, ts.URL, "PATCH", "/me", token, map[string]any{
		"availability":  map[string]any{"saturday": map[string]any{"start": "10:00", "end": "13:00", "available": true}},
		"notifications": map[string]any{"promotionalEmails": true},
	})
	if st != http.StatusOK {
		t.Fatalf("patch me: %d %s", st, body)
	}
	var me struct {
		Availability map[string]struct {
			End       string `json:"end"`
			Available bool   `json:"available"`
		} `json:"availability"`
		Notifications map[string]bool `json:"notifications"`
	}
	mustJSON(t, body, &me)
	if sat := me.Availability["saturday"]; !sat.Available || sat.End != "13:00" {
		t.Fatalf("unexpected saturday %s", body)
	}
	if !me.Availability["monday"].Available || !me.Notifications["promotionalEmails"] || !me.Notifications["newAppointments"] {
		t.Fatalf("defaults must survive the merge: %s", body)
	}

	if st, _, _ := doReq(t, ts.URL, "PATCH", "/me", token, map[string]any{
		"notifications": map[string]any{"weatherAlerts": true},
	}); st != http.StatusBadRequest {
		t.Fatalf("owner-only notification on a vet: expected 400, got %d", st)
	}
}

func TestHTTP_AnonymousIsUnauthorized(t *testing.T) {
	ts := newServer(t)

	for _, path := range []string{"/me", "/home", "/pets", "/appointments"} {
		if st, _, _ := doReq(t, ts.URL, "GET", path, "", nil); st != http.StatusUnauthorized {
			t.Fatalf("GET %s anonymous: expected 401, got %d", path, st)
		}
	}
	if st, _, _ := doReq(t, ts.URL, "GET", "/health", "", nil); st != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", st)
	}
}

// --- helpers ---

type session struct {
	Token       string `json:"token"`
	Destination string `json:"destination"`
	User        struct {
		ID     string `json:"id"`
		Role   string `json:"role"`
		Status string `json:"status"`
	} `json:"user"`
}

func register(t *testing.T, base, email, password, role, name string) session {
	t.Helper()
	st, body, _ := doReq(t, base, "POST", "/auth/register", "", map[string]any{
		"email": email, "password": password, "role": role, "name": name,
	})
	if st != http.StatusCreated {
		t.Fatalf("register %s: %d %s", email, st, body)
	}
	var s session
	mustJSON(t, body, &s)
	return s
}

func login(t *testing.T, base, email, password, expectedRole string) string {
	t.Helper()
	st, body, _ := doReq(t, base, "POST", "/auth/login", "", map[string]any{
		"email": email, "password": password, "expected_role": expectedRole,
	})
	if st != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, st, body)
	}
	var s session
	mustJSON(t, body, &s)
	if s.Token == "" {
		t.Fatalf("login %s: empty token", email)
	}
	return s.Token
}

func createPet(t *testing.T, base, token, name string) string {
	t.Helper()
	st, body, _ := doReq(t, base, "POST", "/pets", token, map[string]any{
		"name":    name,
		"species": "dog",
		"breed":   "mixed",
		"age":     3,
		"gender":  "male",
	})
	if st != http.StatusCreated {
		t.Fatalf("create pet: %d %s", st, body)
	}
	var out struct {
		ID string `json:"id"`
	}
	mustJSON(t, body, &out)
	if out.ID == "" {
		t.Fatalf("create pet: missing id")
	}
	return out.ID
}

func doReq(t *testing.T, base, method, path, token string, payload any) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, base+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	return res.StatusCode, body, res.Header
}

func mustJSON(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}
