package offline

import (
	"net/http"
	"slices"
	"strings"
)

// Class is the caching class of an outgoing request.
type Class int

const (
	ClassOther Class = iota
	ClassQuestions
	ClassAppShell
)

func (c Class) String() string {
	switch c {
	case ClassQuestions:
		return "questions"
	case ClassAppShell:
		return "app-shell"
	default:
		return "other"
	}
}

// ShellPaths are the resources needed to render the app offline.
var ShellPaths = []string{
	"/",
	"/index.html",
	"/styles.css",
	"/app.js",
	"/src/app.js",
	"/manifest.json",
}

// Classify decides the caching class of req. Requests whose path ends with
// bankFile are question data; navigations and shell paths are app shell.
func Classify(req *http.Request, bankFile string) Class {
	path := req.URL.Path
	if path == "" {
		path = "/"
	}
	if bankFile != "" && strings.HasSuffix(path, bankFile) {
		return ClassQuestions
	}
	if IsNavigation(req) || slices.Contains(ShellPaths, path) {
		return ClassAppShell
	}
	return ClassOther
}

// IsNavigation reports whether req loads a top-level document.
func IsNavigation(req *http.Request) bool {
	if req.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	if req.Method != http.MethodGet && req.Method != "" {
		return false
	}
	return strings.Contains(req.Header.Get("Accept"), "text/html")
}
