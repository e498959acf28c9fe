package handlers

import (
	"bytes"
	"context"
	_ "embed"
	"html/template"
	"net/http"
)

//go:embed assets/index.html
var indexHTML string

type index struct {
	page []byte
}

// newIndex renders the page once, the events url doesn't change for the
// life of the process.
func newIndex(build string, eventsURL string) (index, error) {
	tmpl, err := template.New("index").Parse(indexHTML)
	if err != nil {
		return index{}, err
	}

	data := struct {
		Build     string
		EventsURL string
	}{
		Build:     build,
		EventsURL: eventsURL,
	}

	var b bytes.Buffer
	if err := tmpl.Execute(&b, data); err != nil {
		return index{}, err
	}

	return index{page: b.Bytes()}, nil
}

func (ig index) handler(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	_, err := w.Write(ig.page)
	return err
}
