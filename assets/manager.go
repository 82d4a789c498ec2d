package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/swift2d/swift/script"
)

const fontSize = 16

// Manager owns every loaded resource, keyed by file base name without
// extension. Resources are shared: worlds hold references into the
// manager and never own them. Retrieval is idempotent and never
// triggers a second load.
type Manager struct {
	textures map[string]*ebiten.Image
	sounds   map[string]*beep.Buffer
	songs    map[string]string
	fonts    map[string]font.Face
	scripts  map[string]*script.Script
}

// NewManager creates an empty asset manager.
func NewManager() *Manager {
	return &Manager{
		textures: map[string]*ebiten.Image{},
		sounds:   map[string]*beep.Buffer{},
		songs:    map[string]string{},
		fonts:    map[string]font.Face{},
		scripts:  map[string]*script.Script{},
	}
}

// LoadResourceFolder walks a resource tree and loads every file it
// recognizes. Files are classified by the directory they sit in:
// textures/, sounds/, music/, fonts/, scripts/. A file that fails to
// load is logged and skipped; the walk continues.
func (m *Manager) LoadResourceFolder(folder string) error {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("assets: unable to open resource folder %s", folder)
	}

	return filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("assets: unable to read %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if err := m.loadResource(path); err != nil {
			log.Printf("assets: %v", err)
		}
		return nil
	})
}

// Reload re-dispatches a single file, replacing any resource previously
// loaded from it.
func (m *Manager) Reload(path string) error {
	return m.loadResource(path)
}

// Clean drops every loaded resource.
func (m *Manager) Clean() {
	m.textures = map[string]*ebiten.Image{}
	m.sounds = map[string]*beep.Buffer{}
	m.songs = map[string]string{}
	m.fonts = map[string]font.Face{}
	m.scripts = map[string]*script.Script{}
}

// Texture returns a loaded texture by name.
func (m *Manager) Texture(name string) (*ebiten.Image, error) {
	img, ok := m.textures[name]
	if !ok {
		return nil, fmt.Errorf("assets: texture %q not found", name)
	}
	return img, nil
}

// SoundBuffer returns a loaded sound by name.
func (m *Manager) SoundBuffer(name string) (*beep.Buffer, error) {
	buf, ok := m.sounds[name]
	if !ok {
		return nil, fmt.Errorf("assets: sound %q not found", name)
	}
	return buf, nil
}

// Song opens a music stream by name. Music is streamed rather than
// buffered, so every call opens the file anew; the caller closes the
// streamer.
func (m *Manager) Song(name string) (beep.StreamSeekCloser, beep.Format, error) {
	path, ok := m.songs[name]
	if !ok {
		return nil, beep.Format{}, fmt.Errorf("assets: song %q not found", name)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("assets: open song %q: %w", name, err)
	}
	streamer, format, err := decodeAudio(path, f)
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("assets: decode song %q: %w", name, err)
	}
	return streamer, format, nil
}

// Font returns a loaded font face by name.
func (m *Manager) Font(name string) (font.Face, error) {
	face, ok := m.fonts[name]
	if !ok {
		return nil, fmt.Errorf("assets: font %q not found", name)
	}
	return face, nil
}

// Script returns a loaded script by name. The same instance is returned
// on every call; scripts are shared across worlds.
func (m *Manager) Script(name string) (*script.Script, error) {
	s, ok := m.scripts[name]
	if !ok {
		return nil, fmt.Errorf("assets: script %q not found", name)
	}
	return s, nil
}

func (m *Manager) loadResource(path string) error {
	name := resourceName(path)
	slashed := filepath.ToSlash(path)

	switch {
	case strings.Contains(slashed, "/textures/"):
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to load %s as a texture: %w", path, err)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("unable to load %s as a texture: %w", path, err)
		}
		m.textures[name] = ebiten.NewImageFromImage(img)

	case strings.Contains(slashed, "/sounds/"):
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("unable to load %s as a sound: %w", path, err)
		}
		streamer, format, err := decodeAudio(path, f)
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("unable to load %s as a sound: %w", path, err)
		}
		buf := beep.NewBuffer(format)
		buf.Append(streamer)
		_ = streamer.Close()
		m.sounds[name] = buf

	case strings.Contains(slashed, "/music/"):
		// streamed lazily; just remember where it lives
		m.songs[name] = path

	case strings.Contains(slashed, "/fonts/"):
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to load %s as a font: %w", path, err)
		}
		parsed, err := opentype.Parse(data)
		if err != nil {
			return fmt.Errorf("unable to load %s as a font: %w", path, err)
		}
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    fontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return fmt.Errorf("unable to load %s as a font: %w", path, err)
		}
		m.fonts[name] = face

	case strings.Contains(slashed, "/scripts/"):
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to load %s as a script: %w", path, err)
		}
		compiled, err := script.Compile(name, src)
		if err != nil {
			return fmt.Errorf("unable to load %s as a script: %w", path, err)
		}
		m.scripts[name] = compiled

	case strings.HasSuffix(slashed, ".txt"):
		// readme and license files live alongside resources; skip quietly

	default:
		return fmt.Errorf("%s is an unknown resource type", path)
	}
	return nil
}

func decodeAudio(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return wav.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format %s", filepath.Ext(path))
	}
}

func resourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
