package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

const (
	minFontSize        = 10
	fontSizeRatio      = 0.5
	maxTextWidthRatio  = 0.95
	maxTextHeightRatio = 0.5
)

var (
	DefaultFontNames = []string{"DejaVuSans.ttf", "Arial.ttf", "Helvetica.ttf"}
	DefaultFontDirs  = []string{
		"/usr/share/fonts",
		"/usr/local/share/fonts",
		"~/.local/share/fonts",
		"~/.fonts",
		"/Library/Fonts",
		"/System/Library/Fonts",
		"~/Library/Fonts",
		`C:\Windows\Fonts`,
	}
)

var errFontNotFound = errors.New("font not found")

// FontLoader resolves watermark faces from an ordered list of font names.
// Names are matched case-insensitively against files under the search
// directories; absolute paths are read directly. When nothing resolves, the
// embedded 7x13 bitmap face is used at its native size.
type FontLoader struct {
	names  []string
	dirs   []string
	logger *zap.Logger

	mu    sync.Mutex
	fonts map[string]*opentype.Font
}

type FontOption func(*FontLoader)

func WithFontNames(names ...string) FontOption {
	return func(l *FontLoader) {
		l.names = append([]string(nil), names...)
	}
}

func WithFontDirs(dirs ...string) FontOption {
	return func(l *FontLoader) {
		l.dirs = append([]string(nil), dirs...)
	}
}

func WithFontLogger(logger *zap.Logger) FontOption {
	return func(l *FontLoader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewFontLoader(opts ...FontOption) *FontLoader {
	l := &FontLoader{
		names:  DefaultFontNames,
		dirs:   DefaultFontDirs,
		logger: zap.NewNop(),
		fonts:  make(map[string]*opentype.Font),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var (
	defaultFontsOnce sync.Once
	defaultFonts     *FontLoader
)

func DefaultFontLoader() *FontLoader {
	defaultFontsOnce.Do(func() {
		defaultFonts = NewFontLoader()
	})
	return defaultFonts
}

// Face returns a face for drawing text over a width x height canvas. The
// target size is half the longest side, shrunk once so the text fits within
// 95% of the width and 50% of the height. The caller must Close the face.
func (l *FontLoader) Face(text string, width, height int) font.Face {
	base := baseFontSize(width, height)

	for _, name := range l.names {
		f, err := l.load(name)
		if err != nil {
			l.logger.Debug("watermark font unavailable", zap.String("font", name), zap.Error(err))
			continue
		}

		face, err := newFace(f, base)
		if err != nil {
			l.logger.Debug("watermark font face failed", zap.String("font", name), zap.Error(err))
			continue
		}

		bounds, _ := font.BoundString(face, text)
		textW := (bounds.Max.X - bounds.Min.X).Ceil()
		textH := (bounds.Max.Y - bounds.Min.Y).Ceil()

		size := fitFontSize(base, textW, textH, width, height)
		if size == base {
			return face
		}
		_ = face.Close()

		face, err = newFace(f, size)
		if err != nil {
			l.logger.Debug("watermark font face failed", zap.String("font", name), zap.Error(err))
			continue
		}
		return face
	}

	l.logger.Debug("falling back to embedded watermark font")
	return basicfont.Face7x13
}

func (l *FontLoader) load(name string) (*opentype.Font, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.fonts[name]; ok {
		if f == nil {
			return nil, errFontNotFound
		}
		return f, nil
	}

	f, err := l.resolve(name)
	l.fonts[name] = f
	return f, err
}

func (l *FontLoader) resolve(name string) (*opentype.Font, error) {
	path := name
	if !filepath.IsAbs(name) {
		found, err := findFont(name, l.dirs)
		if err != nil {
			return nil, err
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return f, nil
}

func findFont(name string, dirs []string) (string, error) {
	errFound := errors.New("found")

	for _, dir := range dirs {
		dir = expandHome(dir)
		if dir == "" {
			continue
		}

		var match string
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// unreadable entries are skipped
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if !d.IsDir() && strings.EqualFold(d.Name(), name) {
				match = path
				return errFound
			}
			return nil
		})
		if match != "" {
			return match, nil
		}
		if err != nil && !errors.Is(err, errFound) && !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s", errFontNotFound, name)
}

func expandHome(dir string) string {
	if !strings.HasPrefix(dir, "~") {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, strings.TrimPrefix(dir, "~"))
}

func newFace(f *opentype.Font, size int) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func baseFontSize(width, height int) int {
	return max(int(float64(max(width, height))*fontSizeRatio), minFontSize)
}

// fitFontSize shrinks size by the smaller of the width and height ratios
// needed to fit the measured text. The result is never re-measured.
func fitFontSize(size, textW, textH, width, height int) int {
	widthScale, heightScale := 1.0, 1.0
	if textW > 0 {
		widthScale = float64(width) * maxTextWidthRatio / float64(textW)
	}
	if textH > 0 {
		heightScale = float64(height) * maxTextHeightRatio / float64(textH)
	}

	scale := min(widthScale, heightScale)
	if scale >= 1 {
		return size
	}
	return max(int(float64(size)*scale), minFontSize)
}
