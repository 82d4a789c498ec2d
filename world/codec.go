package world

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/beevik/etree"

	"github.com/swift2d/swift/ecs"
	"github.com/swift2d/swift/ecs/component"
)

// Save file format: a tagged tree,
//
//	<world>
//		<entity>
//			<ComponentTag>
//				<variableKey>value</variableKey>
//			</ComponentTag>
//		</entity>
//	</world>
//
// with one entity element per live entity, one child per component
// keyed by its type tag, and one text leaf per serialized variable.
// Only variables with a non-empty key and a non-empty value are
// written. Component tags and variable keys are emitted in sorted
// order, so saving the same world twice produces identical bytes.

// SavePath returns the file this world persists to.
func (w *World) SavePath() string {
	return filepath.Join(w.savesDir, w.name+".world")
}

// Save writes the world's entities to its save file, replacing any
// previous contents.
func (w *World) Save() error {
	doc := etree.NewDocument()
	root := doc.CreateElement("world")

	for _, e := range w.entities {
		entityEl := root.CreateElement("entity")

		components := e.Components()
		tags := make([]string, 0, len(components))
		for tag := range components {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		for _, tag := range tags {
			componentEl := entityEl.CreateElement(tag)

			variables := components[tag].Serialize()
			keys := make([]string, 0, len(variables))
			for key := range variables {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			for _, key := range keys {
				if key == "" || variables[key] == "" {
					continue
				}
				variableEl := componentEl.CreateElement(key)
				variableEl.SetText(variables[key])
			}
		}
	}

	if err := os.MkdirAll(w.savesDir, 0o755); err != nil {
		return fmt.Errorf("world %s: create saves dir: %w", w.name, err)
	}

	doc.Indent(2)
	if err := doc.WriteToFile(w.SavePath()); err != nil {
		return fmt.Errorf("world %s: write save file: %w", w.name, err)
	}
	return nil
}

// Load rebuilds the world's entities from its save file. Entities are
// created in document order; each component child is added by tag and
// unserialized from its text leaves, skipping leaves with an empty name
// or empty text. Drawables have their texture re-resolved through the
// asset manager immediately after unserialize; a missing texture leaves
// the component pending rather than failing the load. A missing file or
// missing root element is an error and leaves the world as it was.
func (w *World) Load() error {
	file := w.SavePath()

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(file); err != nil {
		return fmt.Errorf("world %s: load save file %q: %w", w.name, file, err)
	}

	root := doc.SelectElement("world")
	if root == nil {
		return fmt.Errorf("world %s: save file %q has no world root element", w.name, file)
	}

	for _, entityEl := range root.SelectElements("entity") {
		entity := w.AddEntity()

		for _, componentEl := range entityEl.ChildElements() {
			tag := componentEl.Tag
			if !entity.Add(tag) {
				continue
			}

			variables := map[string]string{}
			for _, variableEl := range componentEl.ChildElements() {
				if variableEl.Tag == "" || variableEl.Text() == "" {
					continue
				}
				variables[variableEl.Tag] = variableEl.Text()
			}

			entity.Get(tag).Unserialize(variables)

			if tag == component.TagDrawable {
				w.resolveDrawable(entity)
			}
		}
	}

	return nil
}

// resolveDrawable links a freshly unserialized drawable to its texture.
// Textures not yet present in the asset manager leave the drawable
// pending; the draw pass skips it until a reload supplies the image.
func (w *World) resolveDrawable(entity *ecs.Entity) {
	d, ok := ecs.Get[*component.Drawable](entity, component.TagDrawable)
	if !ok || d.Texture == "" {
		return
	}
	img, err := w.assets.Texture(d.Texture)
	if err != nil {
		log.Printf("world %s: drawable texture pending: %v", w.name, err)
		return
	}
	d.SetImage(img)
}
