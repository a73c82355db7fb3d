package suite

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"odoo_gallery/internal/odoo"
	"odoo_gallery/internal/odoo/rpc"
	gallery "odoo_gallery/internal/services/gallery_service"
	user "odoo_gallery/internal/services/user_service"
)

// FakeOdoo — JSON-RPC сервер, эмулирующий интересующие вызовы Odoo:
// common/login и object/execute для галереи и профиля пользователя.
type FakeOdoo struct {
	Server *httptest.Server

	Database string
	Username string
	Password string
	UserID   int

	GalleryResult map[string]any
	UploadResult  map[string]any
	UserResult    map[string]any

	// Calls накапливает имена вызванных функций execute
	Calls []string
}

type rpcEnvelope struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  struct {
		Service string `json:"service"`
		Method  string `json:"method"`
		Args    []any  `json:"args"`
	} `json:"params"`
	ID int `json:"id"`
}

func NewFakeOdoo(t *testing.T) *FakeOdoo {
	t.Helper()

	f := &FakeOdoo{
		Database: "testdb",
		Username: "admin",
		Password: "secret",
		UserID:   7,
	}

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jsonrpc" {
			http.NotFound(w, r)
			return
		}

		var env rpcEnvelope
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var result any
		switch env.Params.Service {
		case "common":
			result = f.handleLogin(env.Params.Args)
		case "object":
			result = f.handleExecute(env.Params.Args)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      env.ID,
			"result":  result,
		})
	}))

	t.Cleanup(f.Server.Close)

	return f
}

func (f *FakeOdoo) handleLogin(args []any) any {
	if len(args) != 3 {
		return 0
	}
	if args[0] == f.Database && args[1] == f.Username && args[2] == f.Password {
		return f.UserID
	}
	return 0
}

func (f *FakeOdoo) handleExecute(args []any) any {
	// [база, uid, пароль, модель, функция, ...]
	if len(args) < 5 {
		return nil
	}

	fn, _ := args[4].(string)
	f.Calls = append(f.Calls, fn)

	switch fn {
	case "get_variant_images_endpoint":
		return f.GalleryResult
	case "upload_product_image_endpoint":
		return f.UploadResult
	case "get_user_image_endpoint":
		return f.UserResult
	case "write", "unlink":
		return 1
	}

	return nil
}

type Suite struct {
	*testing.T
	Odoo     *FakeOdoo
	Sessions *odoo.SessionStore
	Users    *user.UserService
	Gallery  *gallery.GalleryService
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()
	t.Parallel()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	fake := NewFakeOdoo(t)

	sessions := odoo.NewSessionStore()
	client := odoo.NewClient(log, rpc.New(log, 5*time.Second), sessions)

	ctx, cancelCtx := context.WithTimeout(context.Background(), time.Minute)

	t.Cleanup(func() {
		t.Helper()
		cancelCtx()
	})

	return ctx, &Suite{
		T:        t,
		Odoo:     fake,
		Sessions: sessions,
		Users:    user.NewUserService(log, client, sessions, nil),
		Gallery:  gallery.NewGalleryService(log, client, sessions, nil, nil),
	}
}
