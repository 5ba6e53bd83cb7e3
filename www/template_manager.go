package www

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/icodeforyou/spotboard-go/types/maybe"
)

//go:embed templates
var templatesDirEmbed embed.FS

type TemplateManager struct {
	templates *template.Template
	mutex     sync.RWMutex
	logger    *slog.Logger
}

var funcMap = template.FuncMap{
	"Price": func(m maybe.Maybe[float64]) string {
		return m.Sprintf("%.2f")
	},
	"MW": func(m maybe.Maybe[float64]) string {
		return m.Sprintf("%.0f")
	},
	"TwoDecimals": func(n float64) string {
		return fmt.Sprintf("%.2f", n)
	},
}

func NewTemplateManager(logger *slog.Logger, extDir *string) (*TemplateManager, error) {
	tm := &TemplateManager{
		logger: logger,
	}

	if extDir != nil && *extDir != "" {
		if err := tm.loadExternalTemplates(*extDir); err != nil {
			return nil, err
		}
	} else if err := tm.loadInternalTemplates(); err != nil {
		return nil, err
	}

	return tm, nil
}

func (tm *TemplateManager) loadInternalTemplates() error {
	tm.logger.Debug("loading embedded templates...")
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesDirEmbed, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	tm.templates = tmpl
	return nil
}

// loadExternalTemplates parses the templates in extDir and parses them again
// whenever one of them is written.
func (tm *TemplateManager) loadExternalTemplates(extDir string) error {
	templatesDir := filepath.Join(extDir, "templates")
	reload := func() error {
		tm.logger.Debug("loading external templates...")
		pattern := filepath.Join(templatesDir, "*.html")
		tmpl, err := template.New("").Funcs(funcMap).ParseGlob(pattern)
		if err != nil {
			return fmt.Errorf("failed to parse templates: %w", err)
		}

		tm.mutex.Lock()
		tm.templates = tmpl
		tm.mutex.Unlock()
		return nil
	}

	if err := reload(); err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create template watcher: %w", err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					if err := reload(); err != nil {
						tm.logger.Error("error reloading templates", slog.Any("error", err))
					} else {
						tm.logger.Debug("templates reloaded", slog.String("file", event.Name))
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				tm.logger.Debug("error watching templates", slog.Any("error", err))
			}
		}
	}()

	if err := watcher.Add(templatesDir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch templates: %w", err)
	}

	return nil
}

func (tm *TemplateManager) Execute(name string, data any) (bytes.Buffer, error) {
	var buf bytes.Buffer

	tm.mutex.RLock()
	err := tm.templates.ExecuteTemplate(&buf, name, data)
	tm.mutex.RUnlock()

	if err != nil {
		return bytes.Buffer{}, fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf, nil
}

// ExecuteToWriter renders into a buffer first, so a failing template doesn't
// leave a half written page behind.
func (tm *TemplateManager) ExecuteToWriter(name string, data any, w io.Writer) error {
	buf, err := tm.Execute(name, data)
	if err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}
