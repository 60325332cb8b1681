package ai

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultPersona системный промпт тренера
const DefaultPersona = "Ты — сертифицированный профессиональный фитнес-тренер с 10-летним опытом. " +
	"Ты даёшь точные, безопасные, персонализированные рекомендации. " +
	"Никогда не используй эмодзи, восклицания, разговорные фразы, панибратство или вступления. " +
	"Говори только по делу, на русском языке, в чёткой структуре. " +
	"Всегда добавляй: «Перед началом программы проконсультируйтесь с врачом, если есть хронические заболевания»."

// Persona системный промпт, который можно заменить файлом без перезапуска
type Persona struct {
	mu     sync.RWMutex
	text   string
	path   string
	logger *zap.Logger
}

// StaticPersona персона без файла
func StaticPersona(text string) *Persona {
	return &Persona{text: text, logger: zap.NewNop()}
}

// LoadPersona читает персону из файла. Пустой путь даёт DefaultPersona.
func LoadPersona(path string, logger *zap.Logger) (*Persona, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Persona{text: DefaultPersona, path: path, logger: logger}
	if path == "" {
		return p, nil
	}
	if err := p.reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Text текущий текст персоны
func (p *Persona) Text() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.text
}

func (p *Persona) reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("ошибка чтения персоны %s: %w", p.path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return fmt.Errorf("файл персоны %s пуст", p.path)
	}

	p.mu.Lock()
	p.text = text
	p.mu.Unlock()
	return nil
}

// Watch перечитывает файл персоны при изменении, пока не отменён ctx.
// Следит за каталогом, чтобы пережить замену файла редактором.
// Неудачное чтение оставляет прежний текст.
func (p *Persona) Watch(ctx context.Context) error {
	if p.path == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("ошибка создания наблюдателя: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		return fmt.Errorf("ошибка добавления %s в наблюдатель: %w", p.path, err)
	}
	target := filepath.Clean(p.path)
	p.logger.Info("persona watcher started", zap.String("path", target))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := p.reload(); err != nil {
				p.logger.Warn("persona reload failed", zap.Error(err))
				continue
			}
			p.logger.Info("persona reloaded", zap.String("path", target))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("persona watcher error", zap.Error(err))
		}
	}
}
