package portal

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSession(t *testing.T, kv KeyValue) *Session {
	t.Helper()
	s, err := NewSession(kv, quietLogger())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

var scenarioPool = []User{{UserID: 1, Email: "a@x.com", Password: "pw", Role: RoleCustomer}}

func TestLoginScenario(t *testing.T) {
	s := newSession(t, tempDB(t))

	u, err := s.Login("a@x.com", "pw", scenarioPool)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.UserID != 1 {
		t.Fatalf("want principal 1, got %d", u.UserID)
	}
	if cur, ok := s.Current(); !ok || !reflect.DeepEqual(cur, scenarioPool[0]) {
		t.Fatalf("principal should equal matched record, got %+v", cur)
	}

	_, err = s.Login("a@x.com", "wrong", scenarioPool)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
	if cur, ok := s.Current(); !ok || cur.UserID != 1 {
		t.Fatalf("failed login must not change the session")
	}
}

func TestLoginFailureWhileAnonymous(t *testing.T) {
	db := tempDB(t)
	s := newSession(t, db)

	cases := []struct {
		name, email, password string
	}{
		{"wrong password", "a@x.com", "nope"},
		{"unknown email", "b@x.com", "pw"},
		{"email is case-sensitive", "A@X.COM", "pw"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Login(tc.email, tc.password, scenarioPool)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("want ErrInvalidCredentials, got %v", err)
			}
			if s.IsAuthenticated() {
				t.Fatalf("should stay anonymous")
			}
		})
	}
	if _, ok, _ := db.Get(sessionKey); ok {
		t.Fatalf("nothing should be persisted")
	}
}

func TestLoginWithHashedPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	pool := []User{{UserID: 2, Email: "h@x.com", Password: hash}}
	s := newSession(t, tempDB(t))

	if _, err := s.Login("h@x.com", hash, pool); err == nil {
		t.Fatalf("the hash itself must not work as a password")
	}
	if _, err := s.Login("h@x.com", "s3cret", pool); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestSessionRestoredAfterRestart(t *testing.T) {
	fx, err := DefaultFixtures()
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	db := tempDB(t)

	first := newSession(t, db)
	want, err := first.Login("john@example.com", "customer123", fx.Users)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	second := newSession(t, db)
	got, ok := second.Current()
	if !ok {
		t.Fatalf("session not restored")
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("restored principal differs:\n got %+v\nwant %+v", got, want)
	}
}

func TestMalformedSessionIsIgnored(t *testing.T) {
	cases := map[string]string{
		"not json":     "{not json",
		"null":         "null",
		"empty object": "{}",
		"zero id":      `{"UserID":0,"Email":"a@x.com"}`,
		"string id":    `{"UserID":"x"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			db := tempDB(t)
			if err := db.Set(sessionKey, raw); err != nil {
				t.Fatalf("set: %v", err)
			}

			s := newSession(t, db)
			if s.IsAuthenticated() {
				t.Fatalf("%s session must read as anonymous", raw)
			}
			if _, ok, _ := db.Get(sessionKey); ok {
				t.Fatalf("%s session should be removed", raw)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	db := tempDB(t)
	s := newSession(t, db)
	if _, err := s.Login("a@x.com", "pw", scenarioPool); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if s.IsAuthenticated() {
		t.Fatalf("still authenticated after logout")
	}
	if _, ok, _ := db.Get(sessionKey); ok {
		t.Fatalf("session key should be gone")
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("logout while anonymous: %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	db := tempDB(t)
	s := newSession(t, db)

	if err := s.UpdateUser(User{UserID: 1}); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated, got %v", err)
	}

	u, _ := s.Login("a@x.com", "pw", scenarioPool)
	u.Name = "Renamed"
	if err := s.UpdateUser(u); err != nil {
		t.Fatalf("update: %v", err)
	}
	if cur, _ := s.Current(); cur.Name != "Renamed" {
		t.Fatalf("in-memory principal not updated")
	}
	if cur, _ := newSession(t, db).Current(); cur.Name != "Renamed" {
		t.Fatalf("persisted principal not updated")
	}
}

func TestResolveFollowsTheStore(t *testing.T) {
	store := NewStore(Fixtures{Users: scenarioPool})
	s := newSession(t, tempDB(t))

	if _, ok := s.Resolve(store); ok {
		t.Fatalf("anonymous session should not resolve")
	}

	if _, err := s.Login("a@x.com", "pw", store.Users()); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := store.UpdateUser(1, UserPatch{Name: Ptr("Fresh")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	u, ok := s.Resolve(store)
	if !ok || u.Name != "Fresh" {
		t.Fatalf("resolve should see the store's data, got %+v", u)
	}

	if err := store.DeleteUser(1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.Resolve(store); ok {
		t.Fatalf("deleted user should not resolve")
	}
	if !s.IsAuthenticated() {
		t.Fatalf("session itself stays authenticated")
	}
}
