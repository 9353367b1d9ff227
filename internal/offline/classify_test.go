package offline

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		header map[string]string
		want   Class
	}{
		{"bank", "GET", "http://origin/questions.json", nil, ClassQuestions},
		{"bank with query", "GET", "http://origin/questions.json?v=6", nil, ClassQuestions},
		{"nested bank", "GET", "http://origin/data/questions.json", nil, ClassQuestions},
		{"root", "GET", "http://origin/", nil, ClassAppShell},
		{"index", "GET", "http://origin/index.html", nil, ClassAppShell},
		{"styles", "GET", "http://origin/styles.css", nil, ClassAppShell},
		{"entry script", "GET", "http://origin/src/app.js", nil, ClassAppShell},
		{"manifest", "GET", "http://origin/manifest.json", nil, ClassAppShell},
		{"navigation mode", "GET", "http://origin/quiz", map[string]string{"Sec-Fetch-Mode": "navigate"}, ClassAppShell},
		{"html accept", "GET", "http://origin/about", map[string]string{"Accept": "text/html,application/xhtml+xml"}, ClassAppShell},
		{"html accept on post", "POST", "http://origin/about", map[string]string{"Accept": "text/html"}, ClassOther},
		{"icon", "GET", "http://origin/icons/icon-192.png", nil, ClassOther},
		{"unlisted script", "GET", "http://origin/src/ui/index.js", nil, ClassOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			if got := Classify(req, "questions.json"); got != tt.want {
				t.Errorf("Classify(%s %s) = %v, want %v", tt.method, tt.target, got, tt.want)
			}
		})
	}
}

func TestIsNavigation(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://origin/x", nil)
	if IsNavigation(req) {
		t.Error("plain GET should not be a navigation")
	}
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	if !IsNavigation(req) {
		t.Error("Sec-Fetch-Mode navigate should be a navigation")
	}
}

func TestClassString(t *testing.T) {
	if got := ClassQuestions.String(); got != "questions" {
		t.Errorf("ClassQuestions.String() = %q", got)
	}
	if got := ClassAppShell.String(); got != "app-shell" {
		t.Errorf("ClassAppShell.String() = %q", got)
	}
	if got := ClassOther.String(); got != "other" {
		t.Errorf("ClassOther.String() = %q", got)
	}
}
