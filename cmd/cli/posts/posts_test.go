package posts

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crucial707/blog-api/cmd/cli/config"
)

// captureOutput helps capture stdout during command execution.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

func setupEnv(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("BLOG_API_URL", srv.URL)
	t.Setenv("BLOG_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
}

const samplePosts = `[
  {"id":1,"title":"Hi","content":"World","created_at":"2026-01-02T03:04:05Z","comments":[]},
  {"id":2,"title":"Second","content":"More","created_at":"2026-01-03T03:04:05Z",
   "comments":[{"id":7,"content":"nice","created_at":"2026-01-03T04:00:00Z","author_id":1}]}
]`

func TestListPosts_TableOutput(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/posts" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(samplePosts))
	})

	cmd := listPostsCmd()
	var err error
	out := captureOutput(t, func() {
		err = cmd.RunE(cmd, nil)
	})
	if err != nil {
		t.Fatalf("RunE: %v", err)
	}
	if !strings.Contains(out, "Hi") || !strings.Contains(out, "Second") {
		t.Fatalf("expected titles in output, got: %s", out)
	}
}

func TestListPosts_JSONOutput(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePosts))
	})

	cmd := listPostsCmd()
	_ = cmd.Flags().Set("json", "true")

	out := captureOutput(t, func() {
		_ = cmd.RunE(cmd, nil)
	})

	var decoded []post
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(decoded) != 2 || len(decoded[1].Comments) != 1 {
		t.Errorf("unexpected decoded posts: %+v", decoded)
	}
}

func TestListPosts_Empty(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	cmd := listPostsCmd()
	out := captureOutput(t, func() {
		_ = cmd.RunE(cmd, nil)
	})
	if !strings.Contains(out, "No posts yet.") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestGetPost_ShowsComments(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/posts/2" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":2,"title":"Second","content":"More","created_at":"2026-01-03T03:04:05Z",
			"comments":[{"id":7,"content":"nice","created_at":"2026-01-03T04:00:00Z","author_id":1}]}`))
	})

	cmd := getPostCmd()
	var err error
	out := captureOutput(t, func() {
		err = cmd.RunE(cmd, []string{"2"})
	})
	if err != nil {
		t.Fatalf("RunE: %v", err)
	}
	if !strings.Contains(out, "Second") || !strings.Contains(out, "nice") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestGetPost_InvalidID(t *testing.T) {
	cmd := getPostCmd()
	if err := cmd.RunE(cmd, []string{"abc"}); err == nil {
		t.Error("expected error for non-numeric id")
	}
}

func TestCreatePost_RequiresLogin(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected without a token")
	})

	cmd := createPostCmd()
	err := cmd.RunE(cmd, nil)
	if !errors.Is(err, config.ErrNotLoggedIn) {
		t.Errorf("got %v, want ErrNotLoggedIn", err)
	}
}

func TestCreatePost_SendsBearer(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/posts" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization: got %q", got)
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["title"] != "Hi" || in["content"] != "World" {
			t.Errorf("unexpected payload: %v", in)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"msg":"Post created successfully","id":5}`))
	})
	if err := config.SaveToken("tok-1"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	cmd := createPostCmd()
	_ = cmd.Flags().Set("title", "Hi")
	_ = cmd.Flags().Set("content", "World")

	var err error
	out := captureOutput(t, func() {
		err = cmd.RunE(cmd, nil)
	})
	if err != nil {
		t.Fatalf("RunE: %v", err)
	}
	if !strings.Contains(out, "id 5") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestComment_NotFound(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/posts/9/comments" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"msg":"post not found"}`))
	})
	if err := config.SaveToken("tok-1"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	cmd := commentCmd()
	_ = cmd.Flags().Set("content", "hello")

	var err error
	captureOutput(t, func() {
		err = cmd.RunE(cmd, []string{"9"})
	})
	if err == nil || !strings.Contains(err.Error(), "post not found") {
		t.Errorf("expected not-found error, got %v", err)
	}
}
