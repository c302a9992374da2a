package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNormalizeNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"whatsapp:+919876543210", "whatsapp:+919876543210"},
		{"+919876543210", "whatsapp:+919876543210"},
		{"919876543210", "whatsapp:+919876543210"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizeNumber(tc.in); got != tc.want {
			t.Errorf("normalizeNumber(%q) = %q, ожидалось %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncateBody(t *testing.T) {
	short := "hello"
	if got := truncateBody(short); got != short {
		t.Errorf("короткое сообщение не должно меняться: %q", got)
	}

	long := strings.Repeat("х", 2000)
	got := truncateBody(long)
	if len([]rune(got)) != maxMessageLen+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("длинное сообщение должно обрезаться до %d знаков с многоточием, len=%d", maxMessageLen, len([]rune(got)))
	}
}

func TestClient_SendText(t *testing.T) {
	var gotPath, gotAuth string
	var gotForm map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = r.ParseForm()
		gotForm = r.PostForm
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM123"}`))
	}))
	defer server.Close()

	c := NewClient("AC123", "token", "whatsapp:+14155238886")
	c.apiBase = server.URL

	if err := c.SendText(context.Background(), "+919876543210", "hello farmer"); err != nil {
		t.Fatalf("SendText вернул ошибку: %v", err)
	}
	if gotPath != "/2010-04-01/Accounts/AC123/Messages.json" {
		t.Errorf("неожиданный путь: %q", gotPath)
	}
	if !strings.HasPrefix(gotAuth, "Basic ") {
		t.Errorf("ожидалась базовая авторизация, получили %q", gotAuth)
	}
	if got := gotForm["To"]; len(got) != 1 || got[0] != "whatsapp:+919876543210" {
		t.Errorf("номер получателя должен нормализоваться: %v", got)
	}
	if got := gotForm["Body"]; len(got) != 1 || got[0] != "hello farmer" {
		t.Errorf("неожиданное тело: %v", got)
	}
}

func TestClient_SendMedia(t *testing.T) {
	var gotForm map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotForm = r.PostForm
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := NewClient("AC123", "token", "whatsapp:+14155238886")
	c.apiBase = server.URL

	if err := c.SendMedia(context.Background(), "+919876543210", "https://media.example.com/tts/a.mp3", "caption"); err != nil {
		t.Fatalf("SendMedia вернул ошибку: %v", err)
	}
	if got := gotForm["MediaUrl"]; len(got) != 1 || got[0] != "https://media.example.com/tts/a.mp3" {
		t.Errorf("ссылка на вложение должна передаваться: %v", got)
	}
	if got := gotForm["Body"]; len(got) != 1 || got[0] != "caption" {
		t.Errorf("подпись должна передаваться: %v", got)
	}
}

func TestClient_TwilioError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Authenticate"}`))
	}))
	defer server.Close()

	c := NewClient("AC123", "bad-token", "whatsapp:+14155238886")
	c.apiBase = server.URL

	err := c.SendText(context.Background(), "+919876543210", "hello")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("ошибка Twilio должна подниматься: %v", err)
	}
}

func TestClient_FetchMedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); !ok || user != "AC123" || pass != "token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "audio/ogg")
		w.Write([]byte("ogg-bytes"))
	}))
	defer server.Close()

	c := NewClient("AC123", "token", "whatsapp:+14155238886")
	data, contentType, err := c.FetchMedia(context.Background(), server.URL+"/media/1")
	if err != nil {
		t.Fatalf("FetchMedia вернул ошибку: %v", err)
	}
	if string(data) != "ogg-bytes" || contentType != "audio/ogg" {
		t.Errorf("неожиданное вложение: %q %q", data, contentType)
	}
}

func TestClient_Unconfigured(t *testing.T) {
	c := NewClient("", "", "")
	if c.Configured() {
		t.Fatalf("клиент без кредов не должен считаться настроенным")
	}
	if err := c.SendText(context.Background(), "+1", "hi"); err == nil {
		t.Fatalf("отправка без кредов должна возвращать ошибку")
	}
}
