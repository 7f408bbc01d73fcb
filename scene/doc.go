// Package scene provides the minimal in-memory scene graph the generation
// pipeline produces. It models names, translations, bounding volumes, and
// material references — enough for centering, appearance replacement, and
// deep cloning — while vertex decoding and rendering stay with the importer
// and the host engine.
package scene
